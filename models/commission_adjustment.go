package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdjustmentType classifies a ledger entry
type AdjustmentType string

const (
	AdjustmentTypeStatusChange AdjustmentType = "status_change"
	AdjustmentTypePayment      AdjustmentType = "payment"
	AdjustmentTypeBonus        AdjustmentType = "bonus"
	AdjustmentTypeCorrection   AdjustmentType = "correction"
	AdjustmentTypeClawback     AdjustmentType = "clawback"
)

// ClawbackType classifies why a commission was clawed back
type ClawbackType string

const (
	ClawbackTypeRefund     ClawbackType = "refund"
	ClawbackTypeChargeback ClawbackType = "chargeback"
	ClawbackTypeManual     ClawbackType = "manual"
)

// IsValidClawbackType reports whether t is a known clawback classification
func IsValidClawbackType(t ClawbackType) bool {
	return t == ClawbackTypeRefund || t == ClawbackTypeChargeback || t == ClawbackTypeManual
}

// CommissionAdjustment is an immutable ledger entry recording any amount- or
// status-affecting event on a commission. Entries are append-only: they are
// never updated or deleted, and they outlive later mutations of the owning
// commission (weak reference by id).
type CommissionAdjustment struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CommissionID   primitive.ObjectID  `bson:"commissionId" json:"commissionId"`
	AdjustmentType AdjustmentType      `bson:"adjustmentType" json:"adjustmentType"`
	Amount         float64             `bson:"amount" json:"amount"`
	Reason         string              `bson:"reason" json:"reason"`
	ClawbackType   ClawbackType        `bson:"clawbackType,omitempty" json:"clawbackType,omitempty"`
	AdminID        *primitive.ObjectID `bson:"adminId,omitempty" json:"adminId,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// ClawbackReason builds the canonical reason text for a full clawback entry,
// e.g. "REFUND clawback: customer refunded order". Consumers of the ledger
// parse the uppercase prefix back out, so the format is part of the contract.
func ClawbackReason(clawbackType ClawbackType, reason string) string {
	return strings.ToUpper(string(clawbackType)) + " clawback: " + reason
}

// PartialClawbackReason builds the canonical reason text for a partial clawback entry
func PartialClawbackReason(clawbackType ClawbackType, reason string) string {
	return "Partial " + strings.ToUpper(string(clawbackType)) + " clawback: " + reason
}

// StatusChangeReason builds the canonical reason text for a status_change entry
func StatusChangeReason(from, to CommissionStatus) string {
	return "Status changed from " + string(from) + " to " + string(to)
}

// ParseClawbackTypeFromReason recovers the clawback classification from a
// ledger entry's reason text. Partial clawback entries carry a "Partial "
// prefix ahead of the type. Returns ClawbackTypeManual when the reason does
// not carry a recognizable prefix, so legacy entries still classify.
func ParseClawbackTypeFromReason(reason string) ClawbackType {
	r := strings.TrimPrefix(reason, "Partial ")
	for _, t := range []ClawbackType{ClawbackTypeRefund, ClawbackTypeChargeback, ClawbackTypeManual} {
		if strings.HasPrefix(r, strings.ToUpper(string(t))+" clawback:") {
			return t
		}
	}
	return ClawbackTypeManual
}
