package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionCommissionStatus(t *testing.T) {
	allowed := map[CommissionStatus][]CommissionStatus{
		CommissionStatusPending:  {CommissionStatusApproved, CommissionStatusRejected},
		CommissionStatusApproved: {CommissionStatusPaid, CommissionStatusClawedBack},
		CommissionStatusPaid:     {CommissionStatusClawedBack},
	}

	statuses := []CommissionStatus{
		CommissionStatusPending,
		CommissionStatusApproved,
		CommissionStatusRejected,
		CommissionStatusPaid,
		CommissionStatusClawedBack,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			got := CanTransitionCommissionStatus(from, to)
			assert.Equal(t, want, got, "transition %s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminalCommissionStatus(CommissionStatusRejected))
	assert.True(t, IsTerminalCommissionStatus(CommissionStatusClawedBack))
	assert.False(t, IsTerminalCommissionStatus(CommissionStatusPending))
	assert.False(t, IsTerminalCommissionStatus(CommissionStatusApproved))
	assert.False(t, IsTerminalCommissionStatus(CommissionStatusPaid))
}

func TestIsValidCommissionStatus(t *testing.T) {
	assert.True(t, IsValidCommissionStatus(CommissionStatusPending))
	assert.True(t, IsValidCommissionStatus(CommissionStatusClawedBack))
	assert.False(t, IsValidCommissionStatus("cancelled"))
	assert.False(t, IsValidCommissionStatus(""))
}

func TestEligibleForPayoutDate(t *testing.T) {
	conversion := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, conversion, EligibleForPayoutDate(conversion, 0))
	assert.Equal(t, time.Date(2025, 4, 14, 10, 30, 0, 0, time.UTC), EligibleForPayoutDate(conversion, 30))
	assert.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), EligibleForPayoutDate(conversion, 365))
}

func TestIsEligibleForApproval(t *testing.T) {
	conversion := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Commission{
		Status:                CommissionStatusPending,
		ConversionDate:        conversion,
		ClearancePeriodDays:   30,
		EligibleForPayoutDate: EligibleForPayoutDate(conversion, 30),
	}

	assert.False(t, c.IsEligibleForApproval(conversion.AddDate(0, 0, 29)))
	// Boundary: exactly at the eligibility instant counts as eligible
	assert.True(t, c.IsEligibleForApproval(c.EligibleForPayoutDate))
	assert.True(t, c.IsEligibleForApproval(conversion.AddDate(0, 0, 31)))

	c.Status = CommissionStatusApproved
	assert.False(t, c.IsEligibleForApproval(conversion.AddDate(0, 0, 31)))
}
