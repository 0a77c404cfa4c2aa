package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommissionStatus is the lifecycle state of a commission
type CommissionStatus string

const (
	CommissionStatusPending    CommissionStatus = "pending"
	CommissionStatusApproved   CommissionStatus = "approved"
	CommissionStatusRejected   CommissionStatus = "rejected"
	CommissionStatusPaid       CommissionStatus = "paid"
	CommissionStatusClawedBack CommissionStatus = "clawed_back"
)

// DefaultClearancePeriodDays is applied when a conversion does not carry its own clearance period
const DefaultClearancePeriodDays = 30

// MaxClearancePeriodDays caps the configurable clearance period
const MaxClearancePeriodDays = 365

// Commission represents the amount owed to a marketer for a customer's
// qualifying conversion on a product
type Commission struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MarketerID            primitive.ObjectID `bson:"marketerId" json:"marketerId"`
	CustomerID            primitive.ObjectID `bson:"customerId" json:"customerId"`
	ProductID             primitive.ObjectID `bson:"productId" json:"productId"`
	TrackingCode          string             `bson:"trackingCode" json:"trackingCode"`
	InitialSpendAmount    float64            `bson:"initialSpendAmount" json:"initialSpendAmount"`
	CommissionRate        float64            `bson:"commissionRate" json:"commissionRate"`
	CommissionAmount      float64            `bson:"commissionAmount" json:"commissionAmount"`
	Status                CommissionStatus   `bson:"status" json:"status"`
	ConversionDate        time.Time          `bson:"conversionDate" json:"conversionDate"`
	ClearancePeriodDays   int                `bson:"clearancePeriodDays" json:"clearancePeriodDays"`
	EligibleForPayoutDate time.Time          `bson:"eligibleForPayoutDate" json:"eligibleForPayoutDate"`
	ApprovalDate          *time.Time         `bson:"approvalDate,omitempty" json:"approvalDate,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// commissionTransitions is the legal status transition table. rejected and
// clawed_back are terminal; clawed_back is only ever entered through the
// clawback operations, which still consult this table for legality.
var commissionTransitions = map[CommissionStatus][]CommissionStatus{
	CommissionStatusPending:  {CommissionStatusApproved, CommissionStatusRejected},
	CommissionStatusApproved: {CommissionStatusPaid, CommissionStatusClawedBack},
	CommissionStatusPaid:     {CommissionStatusClawedBack},
}

// IsValidCommissionStatus reports whether s is one of the known lifecycle states
func IsValidCommissionStatus(s CommissionStatus) bool {
	switch s {
	case CommissionStatusPending, CommissionStatusApproved, CommissionStatusRejected,
		CommissionStatusPaid, CommissionStatusClawedBack:
		return true
	}
	return false
}

// IsTerminalCommissionStatus reports whether no further transitions are allowed out of s
func IsTerminalCommissionStatus(s CommissionStatus) bool {
	return s == CommissionStatusRejected || s == CommissionStatusClawedBack
}

// CanTransitionCommissionStatus reports whether from -> to is a legal status change
func CanTransitionCommissionStatus(from, to CommissionStatus) bool {
	for _, allowed := range commissionTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// EligibleForPayoutDate derives the earliest date a commission can be
// approved. Kept as a pure function so the derivation is testable without a
// database; repositories never compute it on save.
func EligibleForPayoutDate(conversionDate time.Time, clearancePeriodDays int) time.Time {
	return conversionDate.AddDate(0, 0, clearancePeriodDays)
}

// IsEligibleForApproval reports whether the clearance period has elapsed at the given time
func (c *Commission) IsEligibleForApproval(now time.Time) bool {
	return c.Status == CommissionStatusPending && !now.Before(c.EligibleForPayoutDate)
}
