package models

import "time"

// CalculateCommissionRequest is the conversion payload from the tracking
// subsystem. Custom rate/amount are only honored when OverrideProductRules is
// set, and are intended for negotiated one-off deals.
type CalculateCommissionRequest struct {
	MarketerID             string    `json:"marketerId" validate:"required"`
	CustomerID             string    `json:"customerId" validate:"required"`
	ProductID              string    `json:"productId" validate:"required"`
	TrackingCode           string    `json:"trackingCode" validate:"required"`
	InitialSpendAmount     float64   `json:"initialSpendAmount" validate:"gte=0"`
	ConversionDate         time.Time `json:"conversionDate" validate:"required"`
	ClearancePeriodDays    *int      `json:"clearancePeriodDays,omitempty" validate:"omitempty,gte=0,lte=365"`
	CustomCommissionRate   *float64  `json:"customCommissionRate,omitempty" validate:"omitempty,gte=0,lte=1"`
	CustomCommissionAmount *float64  `json:"customCommissionAmount,omitempty" validate:"omitempty,gte=0"`
	OverrideProductRules   bool      `json:"overrideProductRules,omitempty"`
}

// BatchCalculateCommissionsRequest wraps a list of conversions processed with
// per-item failure isolation
type BatchCalculateCommissionsRequest struct {
	Conversions []CalculateCommissionRequest `json:"conversions" validate:"required,min=1,dive"`
}

// BatchCalculateError records a single failed item of a batch calculation
type BatchCalculateError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// BatchCalculateResult is the outcome of a batch calculation; failed items do
// not abort the remaining ones
type BatchCalculateResult struct {
	Commissions []Commission          `json:"commissions"`
	Errors      []BatchCalculateError `json:"errors"`
}

// UpdateCommissionStatusRequest is the generic admin status-change payload.
// clawed_back is not accepted here; the clawback endpoints own that state.
type UpdateCommissionStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=approved rejected paid"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// ApproveCommissionRequest optionally overrides the clearance period gate
type ApproveCommissionRequest struct {
	OverrideClearancePeriod bool `json:"overrideClearancePeriod,omitempty"`
}

// RejectCommissionRequest carries the mandatory rejection reason
type RejectCommissionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// MarkCommissionPaidRequest optionally carries the payout gateway reference
type MarkCommissionPaidRequest struct {
	PaymentReference string `json:"paymentReference,omitempty"`
}

// RecalculateCommissionRequest re-derives a pending commission's amount from
// the current product definition
type RecalculateCommissionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ClawbackRequest is the payload for full and partial clawbacks
type ClawbackRequest struct {
	Amount       float64 `json:"amount" validate:"required"`
	Reason       string  `json:"reason" validate:"required"`
	ClawbackType string  `json:"clawbackType" validate:"required,oneof=refund chargeback manual"`
}

// ManualAdjustmentRequest is the payload for bonus and correction adjustments
type ManualAdjustmentRequest struct {
	Amount         float64 `json:"amount" validate:"required"`
	AdjustmentType string  `json:"adjustmentType" validate:"required,oneof=bonus correction"`
	Reason         string  `json:"reason" validate:"required"`
}
