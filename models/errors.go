package models

import "errors"

// Error taxonomy surfaced by the commission engine. Controllers map these to
// HTTP status codes; services never touch HTTP concerns.

// ValidationError indicates malformed or missing input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError indicates an unknown commission, marketer or product id
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// DuplicateError indicates a commission already exists for the customer+product pair
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

// BusinessRuleError indicates an input that is well-formed but violates a
// domain rule: inactive entities, spend below minimum, clearance period not
// elapsed, clawback or adjustment amount bounds, undefined product commission fields
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string { return e.Message }

// InvalidTransitionError indicates an illegal status change, naming both states
type InvalidTransitionError struct {
	From CommissionStatus
	To   CommissionStatus
}

func (e *InvalidTransitionError) Error() string {
	return "invalid status transition from " + string(e.From) + " to " + string(e.To)
}

// NewValidationError creates a ValidationError with the given message
func NewValidationError(message string) error { return &ValidationError{Message: message} }

// NewNotFoundError creates a NotFoundError with the given message
func NewNotFoundError(message string) error { return &NotFoundError{Message: message} }

// NewDuplicateError creates a DuplicateError with the given message
func NewDuplicateError(message string) error { return &DuplicateError{Message: message} }

// NewBusinessRuleError creates a BusinessRuleError with the given message
func NewBusinessRuleError(message string) error { return &BusinessRuleError{Message: message} }

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDuplicate reports whether err is a DuplicateError
func IsDuplicate(err error) bool {
	var d *DuplicateError
	return errors.As(err, &d)
}
