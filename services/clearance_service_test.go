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

type clearanceFixture struct {
	commissions *fakeCommissionStore
	adjustments *fakeAdjustmentStore
	service     *ClearanceService
}

func newClearanceFixture() *clearanceFixture {
	f := &clearanceFixture{
		commissions: newFakeCommissionStore(),
		adjustments: newFakeAdjustmentStore(),
	}
	statuses := NewStatusService(f.commissions, f.adjustments, NoopNotifier{}, NewBalanceCache(nil))
	f.service = NewClearanceService(f.commissions, statuses)
	return f
}

// seedPending creates a pending commission converted daysAgo days in the past
// with a 30 day clearance period
func (f *clearanceFixture) seedPending(daysAgo int) *models.Commission {
	conversion := time.Now().AddDate(0, 0, -daysAgo)
	return f.commissions.add(&models.Commission{
		MarketerID:            primitive.NewObjectID(),
		CustomerID:            primitive.NewObjectID(),
		ProductID:             primitive.NewObjectID(),
		CommissionAmount:      100,
		Status:                models.CommissionStatusPending,
		ConversionDate:        conversion,
		ClearancePeriodDays:   30,
		EligibleForPayoutDate: models.EligibleForPayoutDate(conversion, 30),
	})
}

func TestGetCommissionsEligibleForApproval(t *testing.T) {
	f := newClearanceFixture()
	older := f.seedPending(45)
	newer := f.seedPending(35)
	f.seedPending(10) // still clearing

	eligible, err := f.service.GetCommissionsEligibleForApproval(context.Background())
	require.NoError(t, err)
	require.Len(t, eligible, 2)

	// Oldest conversion first
	assert.Equal(t, older.ID, eligible[0].ID)
	assert.Equal(t, newer.ID, eligible[1].ID)
}

func TestBulkApproveEligibleCommissions(t *testing.T) {
	f := newClearanceFixture()
	f.seedPending(45)
	f.seedPending(35)
	f.seedPending(10)

	result, err := f.service.BulkApproveEligibleCommissions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Approved)
	assert.Empty(t, result.Errors)

	// Re-running finds nothing left to approve
	result, err = f.service.BulkApproveEligibleCommissions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Approved)
}

func TestBulkApproveIsolatesFailures(t *testing.T) {
	f := newClearanceFixture()
	healthy := f.seedPending(45)
	racing := f.seedPending(35)
	f.commissions.failStatusUpdateFor = racing.ID

	result, err := f.service.BulkApproveEligibleCommissions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Approved)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, racing.ID, result.Errors[0].CommissionID)

	stored, _ := f.commissions.FindByID(context.Background(), healthy.ID)
	assert.Equal(t, models.CommissionStatusApproved, stored.Status)
}

func TestProcessAutomatedCommissionUpdates(t *testing.T) {
	f := newClearanceFixture()
	f.seedPending(45)
	f.seedPending(35)

	result, err := f.service.ProcessAutomatedCommissionUpdates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Auto-approved: 2 commissions", result.Summary)
	assert.Equal(t, 2, result.Result.Approved)

	// Idempotent: a second run approves nothing
	result, err = f.service.ProcessAutomatedCommissionUpdates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Auto-approved: 0 commissions", result.Summary)
}
