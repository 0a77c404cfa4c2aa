package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/affistack/affiliate_backend/models"
)

type balanceFixture struct {
	commissions *fakeCommissionStore
	adjustments *fakeAdjustmentStore
	service     *BalanceService

	marketerID primitive.ObjectID
}

func newBalanceFixture() *balanceFixture {
	f := &balanceFixture{
		commissions: newFakeCommissionStore(),
		adjustments: newFakeAdjustmentStore(),
		marketerID:  primitive.NewObjectID(),
	}
	f.service = NewBalanceService(f.commissions, f.adjustments, NewBalanceCache(nil))
	return f
}

func (f *balanceFixture) seed(marketerID primitive.ObjectID, status models.CommissionStatus, amount float64, conversion time.Time) *models.Commission {
	var approvalDate *time.Time
	if status == models.CommissionStatusApproved || status == models.CommissionStatusPaid {
		d := conversion.AddDate(0, 0, 30)
		approvalDate = &d
	}
	return f.commissions.add(&models.Commission{
		MarketerID:            marketerID,
		CustomerID:            primitive.NewObjectID(),
		ProductID:             primitive.NewObjectID(),
		CommissionAmount:      amount,
		Status:                status,
		ConversionDate:        conversion,
		ClearancePeriodDays:   30,
		EligibleForPayoutDate: models.EligibleForPayoutDate(conversion, 30),
		ApprovalDate:          approvalDate,
	})
}

func TestGetCommissionSummary(t *testing.T) {
	f := newBalanceFixture()
	conversion := time.Now().AddDate(0, 0, -40)

	f.seed(f.marketerID, models.CommissionStatusPending, 25, conversion)
	f.seed(f.marketerID, models.CommissionStatusApproved, 100, conversion)
	f.seed(f.marketerID, models.CommissionStatusApproved, 60, conversion)
	f.seed(f.marketerID, models.CommissionStatusPaid, 40, conversion)
	f.seed(f.marketerID, models.CommissionStatusClawedBack, 80, conversion)
	f.seed(primitive.NewObjectID(), models.CommissionStatusApproved, 999, conversion)

	summary, err := f.service.GetCommissionSummary(context.Background(), f.marketerID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.PendingCount)
	assert.Equal(t, 25.0, summary.PendingAmount)
	assert.Equal(t, int64(2), summary.ApprovedCount)
	assert.Equal(t, 160.0, summary.ApprovedAmount)
	assert.Equal(t, int64(1), summary.PaidCount)
	assert.Equal(t, 40.0, summary.PaidAmount)
	assert.Equal(t, int64(1), summary.ClawedBackCount)
	assert.Equal(t, 80.0, summary.ClawedBackAmount)
	// Clawed-back amounts never count toward earnings
	assert.Equal(t, 225.0, summary.TotalEarned)
}

func TestGetAvailableBalance(t *testing.T) {
	f := newBalanceFixture()
	conversion := time.Now().AddDate(0, 0, -40)

	f.seed(f.marketerID, models.CommissionStatusApproved, 100, conversion)
	f.seed(f.marketerID, models.CommissionStatusApproved, 60, conversion)
	f.seed(f.marketerID, models.CommissionStatusPending, 25, conversion)
	f.seed(f.marketerID, models.CommissionStatusPaid, 40, conversion)

	balance, err := f.service.GetAvailableBalance(context.Background(), f.marketerID)
	require.NoError(t, err)
	assert.Equal(t, 160.0, balance)

	// A marketer with no approved commissions has a zero balance
	balance, err = f.service.GetAvailableBalance(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)
}

func TestGetCommissionLifecycleStats(t *testing.T) {
	f := newBalanceFixture()
	now := time.Now()

	f.seed(f.marketerID, models.CommissionStatusPending, 10, now.AddDate(0, 0, -45)) // past clearance
	f.seed(f.marketerID, models.CommissionStatusPending, 10, now.AddDate(0, 0, -5))  // still clearing
	f.seed(f.marketerID, models.CommissionStatusApproved, 10, now.AddDate(0, 0, -60))
	f.seed(f.marketerID, models.CommissionStatusRejected, 10, now.AddDate(0, 0, -60))

	stats, err := f.service.GetCommissionLifecycleStats(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalCommissions)
	assert.Equal(t, int64(2), stats.StatusBreakdown[models.CommissionStatusPending])
	assert.Equal(t, int64(1), stats.StatusBreakdown[models.CommissionStatusApproved])
	assert.Equal(t, int64(2), stats.PendingCommissions)
	assert.Equal(t, int64(1), stats.EligibleForApproval)
	// One approved commission with a 30 day conversion-to-approval span
	assert.InDelta(t, 30.0, stats.AverageClearanceTime, 0.01)
}

func TestGetCommissionLifecycleStatsWindow(t *testing.T) {
	f := newBalanceFixture()
	now := time.Now()

	f.seed(f.marketerID, models.CommissionStatusPending, 10, now.AddDate(0, 0, -100))
	f.seed(f.marketerID, models.CommissionStatusPending, 10, now.AddDate(0, 0, -10))

	start := now.AddDate(0, 0, -30)
	stats, err := f.service.GetCommissionLifecycleStats(context.Background(), &start, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalCommissions)
}

func TestGetClawbackStatistics(t *testing.T) {
	f := newBalanceFixture()
	conversion := time.Now().AddDate(0, 0, -40)

	first := f.seed(f.marketerID, models.CommissionStatusClawedBack, 50, conversion)
	second := f.seed(f.marketerID, models.CommissionStatusApproved, 80, conversion)
	f.seed(f.marketerID, models.CommissionStatusApproved, 30, conversion)
	f.seed(f.marketerID, models.CommissionStatusPending, 20, conversion)

	entries := []models.CommissionAdjustment{
		{
			CommissionID:   first.ID,
			AdjustmentType: models.AdjustmentTypeClawback,
			Amount:         -50,
			Reason:         models.ClawbackReason(models.ClawbackTypeRefund, "order refunded"),
		},
		{
			CommissionID:   second.ID,
			AdjustmentType: models.AdjustmentTypeClawback,
			Amount:         -25,
			Reason:         models.PartialClawbackReason(models.ClawbackTypeChargeback, "partial dispute"),
		},
		{
			CommissionID:   second.ID,
			AdjustmentType: models.AdjustmentTypeClawback,
			Amount:         -10,
			Reason:         models.ClawbackReason(models.ClawbackTypeRefund, "second return"),
		},
	}
	for i := range entries {
		require.NoError(t, f.adjustments.Insert(context.Background(), &entries[i]))
	}

	stats, err := f.service.GetClawbackStatistics(context.Background(), nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalClawbacks)
	assert.Equal(t, 85.0, stats.TotalClawbackAmount)
	assert.Equal(t, int64(2), stats.AffectedCommissions)

	refund := stats.ClawbacksByType[models.ClawbackTypeRefund]
	assert.Equal(t, int64(2), refund.Count)
	assert.Equal(t, 60.0, refund.Amount)

	chargeback := stats.ClawbacksByType[models.ClawbackTypeChargeback]
	assert.Equal(t, int64(1), chargeback.Count)
	assert.Equal(t, 25.0, chargeback.Amount)

	// 2 affected out of 4 commissions
	assert.InDelta(t, 50.0, stats.ClawbackRate, 0.01)
}

func TestGetClawbackStatisticsForMarketerWithoutCommissions(t *testing.T) {
	f := newBalanceFixture()
	conversion := time.Now().AddDate(0, 0, -40)

	clawedBack := f.seed(f.marketerID, models.CommissionStatusClawedBack, 50, conversion)
	require.NoError(t, f.adjustments.Insert(context.Background(), &models.CommissionAdjustment{
		CommissionID:   clawedBack.ID,
		AdjustmentType: models.AdjustmentTypeClawback,
		Amount:         -50,
		Reason:         models.ClawbackReason(models.ClawbackTypeRefund, "refund"),
	}))

	// A marketer with no commissions must see empty stats, not everyone's
	other := primitive.NewObjectID()
	stats, err := f.service.GetClawbackStatistics(context.Background(), nil, nil, &other)
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.TotalClawbacks)
	assert.Equal(t, int64(0), stats.AffectedCommissions)
	assert.Equal(t, 0.0, stats.ClawbackRate)
}
