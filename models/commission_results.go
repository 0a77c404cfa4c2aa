package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// BulkApprovalError records a single failed item of a bulk approval run
type BulkApprovalError struct {
	CommissionID primitive.ObjectID `json:"commissionId"`
	Error        string             `json:"error"`
}

// BulkApprovalResult is the outcome of a bulk approval run; failed items are
// collected and never block siblings
type BulkApprovalResult struct {
	Approved int                 `json:"approved"`
	Errors   []BulkApprovalError `json:"errors"`
}

// AutomatedUpdateResult pairs the structured bulk approval outcome with a
// human-readable summary for scheduler logs
type AutomatedUpdateResult struct {
	Summary string              `json:"summary"`
	Result  *BulkApprovalResult `json:"result"`
}

// CommissionWithAdjustments is the full ledger view of one commission.
// NetAmount is commissionAmount plus the sum of all adjustment amounts,
// floored at zero. For an unknown id Commission is nil and the collections
// are empty rather than the call failing.
type CommissionWithAdjustments struct {
	Commission       *Commission            `json:"commission"`
	Adjustments      []CommissionAdjustment `json:"adjustments"`
	TotalAdjustments float64                `json:"totalAdjustments"`
	NetAmount        float64                `json:"netAmount"`
}

// CommissionSummary holds per-status counts and amount sums for one marketer.
// TotalEarned excludes clawed-back amounts.
type CommissionSummary struct {
	MarketerID       primitive.ObjectID `json:"marketerId"`
	PendingCount     int64              `json:"pendingCount"`
	PendingAmount    float64            `json:"pendingAmount"`
	ApprovedCount    int64              `json:"approvedCount"`
	ApprovedAmount   float64            `json:"approvedAmount"`
	PaidCount        int64              `json:"paidCount"`
	PaidAmount       float64            `json:"paidAmount"`
	ClawedBackCount  int64              `json:"clawedBackCount"`
	ClawedBackAmount float64            `json:"clawedBackAmount"`
	TotalEarned      float64            `json:"totalEarned"`
}

// CommissionLifecycleStats summarizes lifecycle health across all marketers
// within an optional date window
type CommissionLifecycleStats struct {
	TotalCommissions     int64                      `json:"totalCommissions"`
	StatusBreakdown      map[CommissionStatus]int64 `json:"statusBreakdown"`
	PendingCommissions   int64                      `json:"pendingCommissions"`
	EligibleForApproval  int64                      `json:"eligibleForApproval"`
	AverageClearanceTime float64                    `json:"averageClearanceTimeDays"`
}

// ClawbackTypeStats is the per-classification slice of clawback statistics
type ClawbackTypeStats struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// ClawbackStatistics summarizes clawback activity; ClawbacksByType is keyed
// by the classification parsed from the ledger reason prefix, and
// ClawbackRate is affected commissions over total commissions as a percentage
type ClawbackStatistics struct {
	TotalClawbacks      int64                              `json:"totalClawbacks"`
	TotalClawbackAmount float64                            `json:"totalClawbackAmount"`
	AffectedCommissions int64                              `json:"affectedCommissions"`
	ClawbacksByType     map[ClawbackType]ClawbackTypeStats `json:"clawbacksByType"`
	ClawbackRate        float64                            `json:"clawbackRate"`
}
