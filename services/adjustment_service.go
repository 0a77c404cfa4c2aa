package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/affistack/affiliate_backend/models"
)

// clawbackSourceStatuses are the only states a clawback can start from
var clawbackSourceStatuses = []models.CommissionStatus{
	models.CommissionStatusApproved,
	models.CommissionStatusPaid,
}

// AdjustmentService owns the append-only ledger: clawbacks, partial
// clawbacks, manual adjustments and the net-amount read path. Ledger entries
// are written before any commission mutation, so the amount change is always
// derivable from the ledger even if the follow-up write loses a race.
type AdjustmentService struct {
	commissions CommissionStore
	adjustments AdjustmentStore
	notifier    Notifier
	balances    *BalanceCache
}

func NewAdjustmentService(commissions CommissionStore, adjustments AdjustmentStore, notifier Notifier, balances *BalanceCache) *AdjustmentService {
	return &AdjustmentService{
		commissions: commissions,
		adjustments: adjustments,
		notifier:    notifier,
		balances:    balances,
	}
}

func validateClawbackInput(reason string, clawbackType models.ClawbackType) error {
	if reason == "" {
		return models.NewValidationError("Clawback reason is required")
	}
	if !models.IsValidClawbackType(clawbackType) {
		return models.NewValidationError("Invalid clawback type: " + string(clawbackType))
	}
	return nil
}

// ProcessClawback reverses an approved or paid commission in full or in part
// of its amount and moves it to clawed_back. The ledger entry is written
// first; the status flip retries once if a concurrent approved->paid
// transition wins the race.
func (s *AdjustmentService) ProcessClawback(ctx context.Context, commissionID primitive.ObjectID, clawbackAmount float64, reason string, adminID primitive.ObjectID, clawbackType models.ClawbackType) (*models.CommissionAdjustment, error) {
	if err := validateClawbackInput(reason, clawbackType); err != nil {
		return nil, err
	}

	commission, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	if commission.Status != models.CommissionStatusApproved && commission.Status != models.CommissionStatusPaid {
		return nil, models.NewBusinessRuleError("Clawback requires an approved or paid commission")
	}
	if clawbackAmount <= 0 {
		return nil, models.NewBusinessRuleError("Clawback amount must be positive")
	}
	if clawbackAmount > commission.CommissionAmount {
		return nil, models.NewBusinessRuleError("Clawback amount cannot exceed original commission amount")
	}

	adjustment := &models.CommissionAdjustment{
		CommissionID:   commissionID,
		AdjustmentType: models.AdjustmentTypeClawback,
		Amount:         -clawbackAmount,
		Reason:         models.ClawbackReason(clawbackType, reason),
		ClawbackType:   clawbackType,
		AdminID:        &adminID,
	}
	if err := s.adjustments.Insert(ctx, adjustment); err != nil {
		return nil, err
	}

	if err := s.setClawedBack(ctx, commissionID, commission.Status); err != nil {
		return nil, err
	}

	s.balances.Invalidate(ctx, commission.MarketerID)
	s.notifier.NotifyCommissionEvent(ctx, CommissionEvent{
		Type:         EventCommissionClawback,
		MarketerID:   commission.MarketerID,
		CommissionID: commissionID,
		Message:      fmt.Sprintf("Commission clawed back: %.2f (%s)", clawbackAmount, clawbackType),
		Data:         adjustment,
	})

	return adjustment, nil
}

// setClawedBack flips the status with a compare-and-set, retrying once from
// the fresh status if a concurrent writer moved approved->paid in between
func (s *AdjustmentService) setClawedBack(ctx context.Context, commissionID primitive.ObjectID, expected models.CommissionStatus) error {
	applied, err := s.commissions.UpdateStatusIfCurrent(ctx, commissionID, expected, models.CommissionStatusClawedBack, nil)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	fresh, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		return err
	}
	for _, status := range clawbackSourceStatuses {
		if fresh.Status == status && status != expected {
			applied, err = s.commissions.UpdateStatusIfCurrent(ctx, commissionID, status, models.CommissionStatusClawedBack, nil)
			if err != nil {
				return err
			}
			if applied {
				return nil
			}
			break
		}
	}
	return &models.InvalidTransitionError{From: fresh.Status, To: models.CommissionStatusClawedBack}
}

// ProcessPartialClawback records a clawback for part of the commission amount
// without changing the commission's status. Amounts equal to or above the
// commission amount must go through the full clawback.
func (s *AdjustmentService) ProcessPartialClawback(ctx context.Context, commissionID primitive.ObjectID, clawbackAmount float64, reason string, adminID primitive.ObjectID, clawbackType models.ClawbackType) (*models.CommissionAdjustment, error) {
	if err := validateClawbackInput(reason, clawbackType); err != nil {
		return nil, err
	}

	commission, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	if commission.Status != models.CommissionStatusApproved && commission.Status != models.CommissionStatusPaid {
		return nil, models.NewBusinessRuleError("Clawback requires an approved or paid commission")
	}
	if clawbackAmount <= 0 {
		return nil, models.NewBusinessRuleError("Clawback amount must be positive")
	}
	if clawbackAmount >= commission.CommissionAmount {
		return nil, models.NewBusinessRuleError("Use full clawback for amounts equal to or greater than commission amount")
	}

	adjustment := &models.CommissionAdjustment{
		CommissionID:   commissionID,
		AdjustmentType: models.AdjustmentTypeClawback,
		Amount:         -clawbackAmount,
		Reason:         models.PartialClawbackReason(clawbackType, reason),
		ClawbackType:   clawbackType,
		AdminID:        &adminID,
	}
	if err := s.adjustments.Insert(ctx, adjustment); err != nil {
		return nil, err
	}

	s.balances.Invalidate(ctx, commission.MarketerID)
	s.notifier.NotifyCommissionEvent(ctx, CommissionEvent{
		Type:         EventCommissionClawback,
		MarketerID:   commission.MarketerID,
		CommissionID: commissionID,
		Message:      fmt.Sprintf("Partial clawback recorded: %.2f (%s)", clawbackAmount, clawbackType),
		Data:         adjustment,
	})

	return adjustment, nil
}

// ApplyManualAdjustment appends a bonus or correction entry. Corrections move
// the stored commission amount; bonuses are tracked purely in the ledger.
func (s *AdjustmentService) ApplyManualAdjustment(ctx context.Context, commissionID primitive.ObjectID, adjustmentAmount float64, adjustmentType models.AdjustmentType, reason string, adminID primitive.ObjectID) (*models.CommissionAdjustment, error) {
	if adjustmentType != models.AdjustmentTypeBonus && adjustmentType != models.AdjustmentTypeCorrection {
		return nil, models.NewValidationError("Adjustment type must be bonus or correction")
	}
	if reason == "" {
		return nil, models.NewValidationError("Adjustment reason is required")
	}

	commission, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	if commission.Status == models.CommissionStatusClawedBack {
		return nil, models.NewBusinessRuleError("Cannot adjust a clawed back commission")
	}
	if adjustmentAmount == 0 {
		return nil, models.NewBusinessRuleError("Adjustment amount must be non-zero")
	}
	if adjustmentType == models.AdjustmentTypeCorrection && adjustmentAmount < 0 && -adjustmentAmount > commission.CommissionAmount {
		return nil, models.NewBusinessRuleError("Adjustment amount cannot exceed original commission amount")
	}

	adjustment := &models.CommissionAdjustment{
		CommissionID:   commissionID,
		AdjustmentType: adjustmentType,
		Amount:         adjustmentAmount,
		Reason:         reason,
		AdminID:        &adminID,
	}
	if err := s.adjustments.Insert(ctx, adjustment); err != nil {
		return nil, err
	}

	if adjustmentType == models.AdjustmentTypeCorrection {
		allowed := []models.CommissionStatus{
			models.CommissionStatusPending,
			models.CommissionStatusApproved,
			models.CommissionStatusRejected,
			models.CommissionStatusPaid,
		}
		applied, err := s.commissions.ApplyAmountDelta(ctx, commissionID, adjustmentAmount, allowed)
		if err != nil {
			return nil, err
		}
		if !applied {
			return nil, models.NewBusinessRuleError("Adjustment amount cannot exceed original commission amount")
		}
	}

	s.balances.Invalidate(ctx, commission.MarketerID)
	s.notifier.NotifyCommissionEvent(ctx, CommissionEvent{
		Type:         EventCommissionAdjustment,
		MarketerID:   commission.MarketerID,
		CommissionID: commissionID,
		Message:      fmt.Sprintf("Manual %s of %.2f applied", adjustmentType, adjustmentAmount),
		Data:         adjustment,
	})

	return adjustment, nil
}

// GetCommissionAdjustments returns the full ledger of one commission, most recent first
func (s *AdjustmentService) GetCommissionAdjustments(ctx context.Context, commissionID primitive.ObjectID) ([]models.CommissionAdjustment, error) {
	return s.adjustments.FindByCommission(ctx, commissionID)
}

// GetCommissionWithAdjustments returns the commission together with its
// ledger and net amount. An unknown id yields a nil commission with empty
// collections and zero totals rather than an error.
func (s *AdjustmentService) GetCommissionWithAdjustments(ctx context.Context, commissionID primitive.ObjectID) (*models.CommissionWithAdjustments, error) {
	result := &models.CommissionWithAdjustments{
		Adjustments: []models.CommissionAdjustment{},
	}

	commission, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		if models.IsNotFound(err) {
			return result, nil
		}
		return nil, err
	}
	result.Commission = commission

	adjustments, err := s.adjustments.FindByCommission(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	result.Adjustments = adjustments

	total, err := s.adjustments.SumByCommission(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	result.TotalAdjustments = total

	net := commission.CommissionAmount + result.TotalAdjustments
	if net < 0 {
		net = 0
	}
	result.NetAmount = net

	return result, nil
}
