package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/affistack/affiliate_backend/models"
)

// StatusService enforces the commission status state machine. Every write is
// a compare-and-set on the current status, so racing admin actions and the
// bulk scheduler cannot produce lost updates.
type StatusService struct {
	commissions CommissionStore
	adjustments AdjustmentStore
	notifier    Notifier
	balances    *BalanceCache
}

func NewStatusService(commissions CommissionStore, adjustments AdjustmentStore, notifier Notifier, balances *BalanceCache) *StatusService {
	return &StatusService{
		commissions: commissions,
		adjustments: adjustments,
		notifier:    notifier,
		balances:    balances,
	}
}

// UpdateCommissionStatus validates the transition against the legal table and
// applies it. When adminID is present a status_change ledger entry records
// who moved the commission and why.
func (s *StatusService) UpdateCommissionStatus(ctx context.Context, commissionID primitive.ObjectID, newStatus models.CommissionStatus, adminID *primitive.ObjectID, rejectionReason string) (*models.Commission, error) {
	if !models.IsValidCommissionStatus(newStatus) {
		return nil, models.NewValidationError("Unknown commission status: " + string(newStatus))
	}

	commission, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		return nil, err
	}

	oldStatus := commission.Status
	if !models.CanTransitionCommissionStatus(oldStatus, newStatus) {
		return nil, &models.InvalidTransitionError{From: oldStatus, To: newStatus}
	}

	var approvalDate *time.Time
	if newStatus == models.CommissionStatusApproved {
		now := time.Now()
		approvalDate = &now
	}

	applied, err := s.commissions.UpdateStatusIfCurrent(ctx, commissionID, oldStatus, newStatus, approvalDate)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost the race: report the transition against the fresh status
		fresh, err := s.commissions.FindByID(ctx, commissionID)
		if err != nil {
			return nil, err
		}
		return nil, &models.InvalidTransitionError{From: fresh.Status, To: newStatus}
	}

	commission.Status = newStatus
	commission.ApprovalDate = approvalDate
	commission.UpdatedAt = time.Now()

	if adminID != nil {
		reason := models.StatusChangeReason(oldStatus, newStatus)
		if newStatus == models.CommissionStatusRejected && rejectionReason != "" {
			reason += ": " + rejectionReason
		}
		adjustment := &models.CommissionAdjustment{
			CommissionID:   commissionID,
			AdjustmentType: models.AdjustmentTypeStatusChange,
			Amount:         0,
			Reason:         reason,
			AdminID:        adminID,
		}
		if err := s.adjustments.Insert(ctx, adjustment); err != nil {
			return nil, fmt.Errorf("recording status change for commission %s: %w", commissionID.Hex(), err)
		}
	}

	s.balances.Invalidate(ctx, commission.MarketerID)
	s.notifier.NotifyCommissionEvent(ctx, CommissionEvent{
		Type:         EventCommissionStatus,
		MarketerID:   commission.MarketerID,
		CommissionID: commissionID,
		Message:      fmt.Sprintf("Commission status changed from %s to %s", oldStatus, newStatus),
		Data:         commission,
	})

	return commission, nil
}

// ApproveCommission moves a pending commission to approved once its clearance
// period has elapsed. overrideClearancePeriod skips the date gate for manual
// early approvals.
func (s *StatusService) ApproveCommission(ctx context.Context, commissionID primitive.ObjectID, adminID *primitive.ObjectID, overrideClearancePeriod bool) (*models.Commission, error) {
	commission, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		return nil, err
	}

	if commission.Status != models.CommissionStatusPending {
		return nil, &models.InvalidTransitionError{From: commission.Status, To: models.CommissionStatusApproved}
	}

	if !overrideClearancePeriod && time.Now().Before(commission.EligibleForPayoutDate) {
		return nil, models.NewBusinessRuleError("Commission is still within clearance period")
	}

	return s.UpdateCommissionStatus(ctx, commissionID, models.CommissionStatusApproved, adminID, "")
}

// RejectCommission moves a pending commission to rejected; the reason is mandatory
func (s *StatusService) RejectCommission(ctx context.Context, commissionID primitive.ObjectID, reason string, adminID *primitive.ObjectID) (*models.Commission, error) {
	if reason == "" {
		return nil, models.NewValidationError("Rejection reason is required")
	}

	commission, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	if commission.Status != models.CommissionStatusPending {
		return nil, &models.InvalidTransitionError{From: commission.Status, To: models.CommissionStatusRejected}
	}

	return s.UpdateCommissionStatus(ctx, commissionID, models.CommissionStatusRejected, adminID, reason)
}

// MarkCommissionAsPaid moves an approved commission to paid. The payment
// ledger entry is written before the status flip, so a paid commission always
// carries a payment record; if the flip then loses a race the entry remains
// as a replayable record of the payout. A payment reference is generated when
// the payout subsystem did not supply one.
func (s *StatusService) MarkCommissionAsPaid(ctx context.Context, commissionID primitive.ObjectID, adminID *primitive.ObjectID, paymentReference string) (*models.Commission, error) {
	commission, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	if commission.Status != models.CommissionStatusApproved {
		return nil, &models.InvalidTransitionError{From: commission.Status, To: models.CommissionStatusPaid}
	}

	if paymentReference == "" {
		paymentReference = uuid.NewString()
	}

	adjustment := &models.CommissionAdjustment{
		CommissionID:   commissionID,
		AdjustmentType: models.AdjustmentTypePayment,
		Amount:         commission.CommissionAmount,
		Reason:         fmt.Sprintf("Commission payment processed (reference: %s)", paymentReference),
		AdminID:        adminID,
	}
	if err := s.adjustments.Insert(ctx, adjustment); err != nil {
		return nil, err
	}

	return s.UpdateCommissionStatus(ctx, commissionID, models.CommissionStatusPaid, adminID, "")
}

// GetCommissionStatusHistory returns the status_change ledger entries of a
// commission in chronological order
func (s *StatusService) GetCommissionStatusHistory(ctx context.Context, commissionID primitive.ObjectID) ([]models.CommissionAdjustment, error) {
	if _, err := s.commissions.FindByID(ctx, commissionID); err != nil {
		return nil, err
	}
	return s.adjustments.FindStatusHistory(ctx, commissionID)
}
