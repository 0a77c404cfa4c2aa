package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClawbackReasonFormat(t *testing.T) {
	assert.Equal(t, "REFUND clawback: customer refunded order",
		ClawbackReason(ClawbackTypeRefund, "customer refunded order"))
	assert.Equal(t, "CHARGEBACK clawback: disputed charge",
		ClawbackReason(ClawbackTypeChargeback, "disputed charge"))
	assert.Equal(t, "Partial REFUND clawback: partial return",
		PartialClawbackReason(ClawbackTypeRefund, "partial return"))
}

func TestParseClawbackTypeFromReason(t *testing.T) {
	tests := []struct {
		reason string
		want   ClawbackType
	}{
		{ClawbackReason(ClawbackTypeRefund, "order refunded"), ClawbackTypeRefund},
		{ClawbackReason(ClawbackTypeChargeback, "card dispute"), ClawbackTypeChargeback},
		{ClawbackReason(ClawbackTypeManual, "admin correction"), ClawbackTypeManual},
		{PartialClawbackReason(ClawbackTypeRefund, "half returned"), ClawbackTypeRefund},
		{PartialClawbackReason(ClawbackTypeChargeback, "partial dispute"), ClawbackTypeChargeback},
		// Entries without a recognizable prefix classify as manual
		{"legacy entry without prefix", ClawbackTypeManual},
		{"", ClawbackTypeManual},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseClawbackTypeFromReason(tt.reason), "reason %q", tt.reason)
	}
}

func TestStatusChangeReason(t *testing.T) {
	assert.Equal(t, "Status changed from pending to approved",
		StatusChangeReason(CommissionStatusPending, CommissionStatusApproved))
}

func TestIsValidClawbackType(t *testing.T) {
	assert.True(t, IsValidClawbackType(ClawbackTypeRefund))
	assert.True(t, IsValidClawbackType(ClawbackTypeChargeback))
	assert.True(t, IsValidClawbackType(ClawbackTypeManual))
	assert.False(t, IsValidClawbackType("fraud"))
	assert.False(t, IsValidClawbackType(""))
}
