package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Commission event types pushed to marketers
const (
	EventCommissionCreated    = "commission_created"
	EventCommissionStatus     = "commission_status"
	EventCommissionClawback   = "commission_clawback"
	EventCommissionAdjustment = "commission_adjustment"
)

// CommissionEvent describes a lifecycle event on a commission
type CommissionEvent struct {
	Type         string             `json:"type"`
	MarketerID   primitive.ObjectID `json:"marketerId"`
	CommissionID primitive.ObjectID `json:"commissionId"`
	Message      string             `json:"message"`
	Data         interface{}        `json:"data,omitempty"`
}

// Notifier is the outbound port for lifecycle notifications. Delivery is
// best-effort: implementations log failures and never surface them, so a
// broken notification channel cannot fail a lifecycle operation.
type Notifier interface {
	NotifyCommissionEvent(ctx context.Context, event CommissionEvent)
}

// NoopNotifier discards all events
type NoopNotifier struct{}

func (NoopNotifier) NotifyCommissionEvent(ctx context.Context, event CommissionEvent) {}
