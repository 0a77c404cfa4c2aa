package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/affistack/affiliate_backend/models"
)

// BalanceService is the read-only aggregation side of the engine: summaries,
// balances and lifecycle/clawback statistics for dashboards and the payout
// subsystem.
type BalanceService struct {
	commissions CommissionStore
	adjustments AdjustmentStore
	balances    *BalanceCache
}

func NewBalanceService(commissions CommissionStore, adjustments AdjustmentStore, balances *BalanceCache) *BalanceService {
	return &BalanceService{
		commissions: commissions,
		adjustments: adjustments,
		balances:    balances,
	}
}

// GetCommissionSummary returns per-status counts and amount sums for one
// marketer; totalEarned excludes clawed-back amounts
func (s *BalanceService) GetCommissionSummary(ctx context.Context, marketerID primitive.ObjectID) (*models.CommissionSummary, error) {
	return s.commissions.SummaryByMarketer(ctx, marketerID)
}

// GetAvailableBalance sums commissionAmount over approved commissions of one
// marketer. The figure is deliberately NOT netted against the adjustment
// ledger (bonuses, corrections and partial clawbacks on the same
// commissions); net amounts are a separate read path via
// GetCommissionWithAdjustments. Pending product decision, see DESIGN.md.
func (s *BalanceService) GetAvailableBalance(ctx context.Context, marketerID primitive.ObjectID) (float64, error) {
	if balance, ok := s.balances.GetAvailableBalance(ctx, marketerID); ok {
		return balance, nil
	}

	balance, err := s.commissions.SumApprovedAmount(ctx, marketerID)
	if err != nil {
		return 0, err
	}

	s.balances.SetAvailableBalance(ctx, marketerID, balance)
	return balance, nil
}

// GetMarketerCommissions lists one marketer's commissions, newest first
func (s *BalanceService) GetMarketerCommissions(ctx context.Context, marketerID primitive.ObjectID) ([]models.Commission, error) {
	return s.commissions.FindByMarketer(ctx, marketerID)
}

// GetCommissionLifecycleStats summarizes lifecycle health over an optional
// conversion-date window
func (s *BalanceService) GetCommissionLifecycleStats(ctx context.Context, startDate, endDate *time.Time) (*models.CommissionLifecycleStats, error) {
	commissions, err := s.commissions.FindInWindow(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &models.CommissionLifecycleStats{
		TotalCommissions: int64(len(commissions)),
		StatusBreakdown:  map[models.CommissionStatus]int64{},
	}

	var clearanceTotalDays float64
	var clearanceSamples int64
	for i := range commissions {
		c := &commissions[i]
		stats.StatusBreakdown[c.Status]++
		if c.Status == models.CommissionStatusPending {
			stats.PendingCommissions++
			if c.IsEligibleForApproval(now) {
				stats.EligibleForApproval++
			}
		}
		if c.ApprovalDate != nil {
			clearanceTotalDays += c.ApprovalDate.Sub(c.ConversionDate).Hours() / 24
			clearanceSamples++
		}
	}

	if clearanceSamples > 0 {
		stats.AverageClearanceTime = clearanceTotalDays / float64(clearanceSamples)
	}
	return stats, nil
}

// GetClawbackStatistics summarizes clawback activity over an optional window,
// optionally for one marketer. Classification is recovered from the ledger
// reason prefix; that parse is the observable contract consumers rely on.
func (s *BalanceService) GetClawbackStatistics(ctx context.Context, startDate, endDate *time.Time, marketerID *primitive.ObjectID) (*models.ClawbackStatistics, error) {
	var commissionIDs []primitive.ObjectID
	if marketerID != nil {
		ids, err := s.commissions.FindIDsByMarketer(ctx, *marketerID)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			ids = []primitive.ObjectID{}
		}
		commissionIDs = ids
	}

	clawbacks, err := s.adjustments.FindClawbacks(ctx, startDate, endDate, commissionIDs)
	if err != nil {
		return nil, err
	}

	stats := &models.ClawbackStatistics{
		ClawbacksByType: map[models.ClawbackType]models.ClawbackTypeStats{},
	}

	affected := map[primitive.ObjectID]bool{}
	for i := range clawbacks {
		entry := &clawbacks[i]
		amount := entry.Amount
		if amount < 0 {
			amount = -amount
		}

		stats.TotalClawbacks++
		stats.TotalClawbackAmount += amount
		affected[entry.CommissionID] = true

		clawbackType := models.ParseClawbackTypeFromReason(entry.Reason)
		byType := stats.ClawbacksByType[clawbackType]
		byType.Count++
		byType.Amount += amount
		stats.ClawbacksByType[clawbackType] = byType
	}
	stats.AffectedCommissions = int64(len(affected))

	totalCommissions, err := s.commissions.CountInWindow(ctx, startDate, endDate, marketerID)
	if err != nil {
		return nil, err
	}
	if totalCommissions > 0 {
		stats.ClawbackRate = float64(stats.AffectedCommissions) / float64(totalCommissions) * 100
	}

	return stats, nil
}
