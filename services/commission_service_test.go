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

type calcFixture struct {
	commissions *fakeCommissionStore
	adjustments *fakeAdjustmentStore
	marketers   *fakeMarketerStore
	products    *fakeProductStore
	notifier    *captureNotifier
	service     *CommissionService

	marketerID primitive.ObjectID
}

func newCalcFixture() *calcFixture {
	f := &calcFixture{
		commissions: newFakeCommissionStore(),
		adjustments: newFakeAdjustmentStore(),
		marketers:   newFakeMarketerStore(),
		products:    newFakeProductStore(),
		notifier:    &captureNotifier{},
	}
	f.service = NewCommissionService(f.commissions, f.adjustments, f.marketers, f.products, f.notifier)
	f.marketerID = f.marketers.add(models.MarketerStatusActive)
	return f
}

func (f *calcFixture) request(productID primitive.ObjectID, spend float64) *models.CalculateCommissionRequest {
	return &models.CalculateCommissionRequest{
		MarketerID:         f.marketerID.Hex(),
		CustomerID:         primitive.NewObjectID().Hex(),
		ProductID:          productID.Hex(),
		TrackingCode:       "MKT-ABC123",
		InitialSpendAmount: spend,
		ConversionDate:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCalculateCommissionPercentage(t *testing.T) {
	f := newCalcFixture()
	productID := f.products.add(models.Product{
		Name:           "Starter Plan",
		CommissionType: models.CommissionTypePercentage,
		CommissionRate: 0.05,
		Status:         models.ProductStatusActive,
	})

	commission, err := f.service.CalculateCommission(context.Background(), f.request(productID, 2000))
	require.NoError(t, err)

	assert.Equal(t, 100.0, commission.CommissionAmount)
	assert.Equal(t, 0.05, commission.CommissionRate)
	assert.Equal(t, models.CommissionStatusPending, commission.Status)
	assert.Equal(t, 30, commission.ClearancePeriodDays)
	assert.Equal(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), commission.EligibleForPayoutDate)
	assert.False(t, commission.ID.IsZero())

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, EventCommissionCreated, f.notifier.events[0].Type)
	assert.Equal(t, f.marketerID, f.notifier.events[0].MarketerID)
}

func TestCalculateCommissionFlat(t *testing.T) {
	f := newCalcFixture()
	productID := f.products.add(models.Product{
		Name:                 "Lifetime Deal",
		CommissionType:       models.CommissionTypeFlat,
		CommissionFlatAmount: 100,
		Status:               models.ProductStatusActive,
	})

	commission, err := f.service.CalculateCommission(context.Background(), f.request(productID, 1000))
	require.NoError(t, err)

	assert.Equal(t, 100.0, commission.CommissionAmount)
	assert.Equal(t, 0.1, commission.CommissionRate)
}

func TestCalculateCommissionCustomClearancePeriod(t *testing.T) {
	f := newCalcFixture()
	productID := f.products.add(models.Product{
		CommissionType: models.CommissionTypePercentage,
		CommissionRate: 0.1,
		Status:         models.ProductStatusActive,
	})

	req := f.request(productID, 500)
	zero := 0
	req.ClearancePeriodDays = &zero

	commission, err := f.service.CalculateCommission(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.ConversionDate, commission.EligibleForPayoutDate)

	req = f.request(productID, 500)
	tooLong := 366
	req.ClearancePeriodDays = &tooLong
	_, err = f.service.CalculateCommission(context.Background(), req)
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)

	req = f.request(productID, 500)
	negative := -1
	req.ClearancePeriodDays = &negative
	_, err = f.service.CalculateCommission(context.Background(), req)
	require.ErrorAs(t, err, &validation)
}

func TestCalculateCommissionRejectsInactiveMarketer(t *testing.T) {
	f := newCalcFixture()
	inactiveID := f.marketers.add(models.MarketerStatusInactive)
	productID := f.products.add(models.Product{
		CommissionType: models.CommissionTypePercentage,
		CommissionRate: 0.05,
		Status:         models.ProductStatusActive,
	})

	req := f.request(productID, 1000)
	req.MarketerID = inactiveID.Hex()

	_, err := f.service.CalculateCommission(context.Background(), req)
	var rule *models.BusinessRuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "Invalid or inactive marketer", err.Error())

	// Unknown marketer ids fail the same way
	req.MarketerID = primitive.NewObjectID().Hex()
	_, err = f.service.CalculateCommission(context.Background(), req)
	require.ErrorAs(t, err, &rule)
}

func TestCalculateCommissionRejectsInactiveProduct(t *testing.T) {
	f := newCalcFixture()
	productID := f.products.add(models.Product{
		CommissionType: models.CommissionTypePercentage,
		CommissionRate: 0.05,
		Status:         models.ProductStatusInactive,
	})

	_, err := f.service.CalculateCommission(context.Background(), f.request(productID, 1000))
	var rule *models.BusinessRuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "Invalid or inactive product", err.Error())
}

func TestCalculateCommissionBelowMinimumSpend(t *testing.T) {
	f := newCalcFixture()
	productID := f.products.add(models.Product{
		CommissionType:  models.CommissionTypePercentage,
		CommissionRate:  0.05,
		MinInitialSpend: 500,
		Status:          models.ProductStatusActive,
	})

	_, err := f.service.CalculateCommission(context.Background(), f.request(productID, 499.99))
	var rule *models.BusinessRuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "Initial spend amount 499.99 is below the product minimum of 500.00", err.Error())
}

func TestCalculateCommissionDuplicate(t *testing.T) {
	f := newCalcFixture()
	productID := f.products.add(models.Product{
		CommissionType: models.CommissionTypePercentage,
		CommissionRate: 0.05,
		Status:         models.ProductStatusActive,
	})

	req := f.request(productID, 1000)
	_, err := f.service.CalculateCommission(context.Background(), req)
	require.NoError(t, err)

	// Same customer converting on the same product again
	_, err = f.service.CalculateCommission(context.Background(), req)
	assert.True(t, models.IsDuplicate(err))
}

func TestCalculateCommissionUndefinedProductRate(t *testing.T) {
	f := newCalcFixture()
	productID := f.products.add(models.Product{
		CommissionType: models.CommissionTypePercentage,
		Status:         models.ProductStatusActive,
	})

	_, err := f.service.CalculateCommission(context.Background(), f.request(productID, 1000))
	var rule *models.BusinessRuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "Product commission rate is not defined", err.Error())
}

func TestCalculateCommissionCustomOverride(t *testing.T) {
	f := newCalcFixture()
	productID := f.products.add(models.Product{
		CommissionType: models.CommissionTypePercentage,
		CommissionRate: 0.05,
		Status:         models.ProductStatusActive,
	})

	// Custom amount wins over both custom rate and product definition
	req := f.request(productID, 1000)
	amount := 250.0
	rate := 0.02
	req.OverrideProductRules = true
	req.CustomCommissionAmount = &amount
	req.CustomCommissionRate = &rate

	commission, err := f.service.CalculateCommission(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 250.0, commission.CommissionAmount)
	assert.Equal(t, 0.25, commission.CommissionRate)

	// Custom rate alone
	req = f.request(productID, 1000)
	req.OverrideProductRules = true
	req.CustomCommissionRate = &rate
	commission, err = f.service.CalculateCommission(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 20.0, commission.CommissionAmount)

	// Override flag without custom values is a rule violation
	req = f.request(productID, 1000)
	req.OverrideProductRules = true
	_, err = f.service.CalculateCommission(context.Background(), req)
	var rule *models.BusinessRuleError
	require.ErrorAs(t, err, &rule)
}

func TestBatchCalculateCommissionsIsolatesFailures(t *testing.T) {
	f := newCalcFixture()
	productID := f.products.add(models.Product{
		CommissionType:  models.CommissionTypePercentage,
		CommissionRate:  0.05,
		MinInitialSpend: 100,
		Status:          models.ProductStatusActive,
	})

	reqs := []models.CalculateCommissionRequest{
		*f.request(productID, 1000),
		*f.request(productID, 50), // below minimum spend
		*f.request(productID, 2000),
	}

	result := f.service.BatchCalculateCommissions(context.Background(), reqs)

	assert.Len(t, result.Commissions, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Contains(t, result.Errors[0].Message, "below the product minimum")
}

func TestRecalculateCommission(t *testing.T) {
	f := newCalcFixture()
	adminID := primitive.NewObjectID()
	productID := f.products.add(models.Product{
		CommissionType: models.CommissionTypePercentage,
		CommissionRate: 0.05,
		Status:         models.ProductStatusActive,
	})

	commission, err := f.service.CalculateCommission(context.Background(), f.request(productID, 1000))
	require.NoError(t, err)
	require.Equal(t, 50.0, commission.CommissionAmount)

	// Product rate changes after the conversion was recorded
	f.products.products[productID].CommissionRate = 0.08

	updated, err := f.service.RecalculateCommission(context.Background(), commission.ID, adminID, "rate corrected")
	require.NoError(t, err)
	assert.Equal(t, 80.0, updated.CommissionAmount)

	stored, err := f.commissions.FindByID(context.Background(), commission.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, stored.CommissionAmount)

	corrections := f.adjustments.byType(models.AdjustmentTypeCorrection)
	require.Len(t, corrections, 1)
	assert.Equal(t, 30.0, corrections[0].Amount)
	assert.Contains(t, corrections[0].Reason, "rate corrected")
}

func TestRecalculateCommissionRequiresPending(t *testing.T) {
	f := newCalcFixture()
	adminID := primitive.NewObjectID()
	commission := f.commissions.add(&models.Commission{
		MarketerID:       f.marketerID,
		CustomerID:       primitive.NewObjectID(),
		ProductID:        primitive.NewObjectID(),
		CommissionAmount: 50,
		Status:           models.CommissionStatusApproved,
	})

	_, err := f.service.RecalculateCommission(context.Background(), commission.ID, adminID, "late fix")
	var rule *models.BusinessRuleError
	require.ErrorAs(t, err, &rule)

	_, err = f.service.RecalculateCommission(context.Background(), commission.ID, adminID, "")
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
}
