package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/affistack/affiliate_backend/models"
)

// CommissionService turns conversion events into commission records
type CommissionService struct {
	commissions CommissionStore
	adjustments AdjustmentStore
	marketers   MarketerStore
	products    ProductStore
	notifier    Notifier
}

func NewCommissionService(commissions CommissionStore, adjustments AdjustmentStore, marketers MarketerStore, products ProductStore, notifier Notifier) *CommissionService {
	return &CommissionService{
		commissions: commissions,
		adjustments: adjustments,
		marketers:   marketers,
		products:    products,
		notifier:    notifier,
	}
}

// CalculateCommission validates a conversion event and creates the commission
// record in pending status. eligibleForPayoutDate is derived here, at
// construction time, never by the persistence layer.
func (s *CommissionService) CalculateCommission(ctx context.Context, req *models.CalculateCommissionRequest) (*models.Commission, error) {
	marketerID, err := primitive.ObjectIDFromHex(req.MarketerID)
	if err != nil {
		return nil, models.NewValidationError("Invalid marketer ID format")
	}
	customerID, err := primitive.ObjectIDFromHex(req.CustomerID)
	if err != nil {
		return nil, models.NewValidationError("Invalid customer ID format")
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, models.NewValidationError("Invalid product ID format")
	}
	if req.TrackingCode == "" {
		return nil, models.NewValidationError("Tracking code is required")
	}
	if req.InitialSpendAmount < 0 {
		return nil, models.NewValidationError("Initial spend amount cannot be negative")
	}
	if req.ConversionDate.IsZero() {
		return nil, models.NewValidationError("Conversion date is required")
	}

	clearanceDays := models.DefaultClearancePeriodDays
	if req.ClearancePeriodDays != nil {
		clearanceDays = *req.ClearancePeriodDays
	}
	if clearanceDays < 0 || clearanceDays > models.MaxClearancePeriodDays {
		return nil, models.NewValidationError(fmt.Sprintf("Clearance period must be between 0 and %d days", models.MaxClearancePeriodDays))
	}

	marketer, err := s.marketers.FindByID(ctx, marketerID)
	if err != nil || !marketer.IsActive() {
		if err != nil && !models.IsNotFound(err) {
			return nil, err
		}
		return nil, models.NewBusinessRuleError("Invalid or inactive marketer")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil || product.Status != models.ProductStatusActive {
		if err != nil && !models.IsNotFound(err) {
			return nil, err
		}
		return nil, models.NewBusinessRuleError("Invalid or inactive product")
	}

	if req.InitialSpendAmount < product.MinInitialSpend {
		return nil, models.NewBusinessRuleError(fmt.Sprintf(
			"Initial spend amount %.2f is below the product minimum of %.2f",
			req.InitialSpendAmount, product.MinInitialSpend))
	}

	exists, err := s.commissions.ExistsForCustomerAndProduct(ctx, customerID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewDuplicateError("Commission already exists for this customer and product")
	}

	amount, rate, err := resolveCommissionAmount(req, product)
	if err != nil {
		return nil, err
	}

	commission := &models.Commission{
		MarketerID:            marketerID,
		CustomerID:            customerID,
		ProductID:             productID,
		TrackingCode:          req.TrackingCode,
		InitialSpendAmount:    req.InitialSpendAmount,
		CommissionRate:        rate,
		CommissionAmount:      amount,
		Status:                models.CommissionStatusPending,
		ConversionDate:        req.ConversionDate,
		ClearancePeriodDays:   clearanceDays,
		EligibleForPayoutDate: models.EligibleForPayoutDate(req.ConversionDate, clearanceDays),
	}

	if err := s.commissions.Create(ctx, commission); err != nil {
		return nil, err
	}

	s.notifier.NotifyCommissionEvent(ctx, CommissionEvent{
		Type:         EventCommissionCreated,
		MarketerID:   marketerID,
		CommissionID: commission.ID,
		Message:      fmt.Sprintf("New commission of %.2f recorded", amount),
		Data:         commission,
	})

	return commission, nil
}

// resolveCommissionAmount computes the owed amount and the recorded rate.
// For flat commissions the rate is stored purely for display and never used
// in further math.
func resolveCommissionAmount(req *models.CalculateCommissionRequest, product *models.Product) (float64, float64, error) {
	if req.OverrideProductRules {
		switch {
		case req.CustomCommissionAmount != nil:
			amount := *req.CustomCommissionAmount
			rate := 0.0
			if req.InitialSpendAmount > 0 {
				rate = amount / req.InitialSpendAmount
			}
			return amount, rate, nil
		case req.CustomCommissionRate != nil:
			rate := *req.CustomCommissionRate
			return req.InitialSpendAmount * rate, rate, nil
		default:
			return 0, 0, models.NewBusinessRuleError("Custom commission rate or amount is required when overriding product rules")
		}
	}

	switch product.CommissionType {
	case models.CommissionTypePercentage:
		if product.CommissionRate <= 0 {
			return 0, 0, models.NewBusinessRuleError("Product commission rate is not defined")
		}
		return req.InitialSpendAmount * product.CommissionRate, product.CommissionRate, nil
	case models.CommissionTypeFlat:
		if product.CommissionFlatAmount <= 0 {
			return 0, 0, models.NewBusinessRuleError("Product commission amount is not defined")
		}
		rate := 0.0
		if req.InitialSpendAmount > 0 {
			rate = product.CommissionFlatAmount / req.InitialSpendAmount
		}
		return product.CommissionFlatAmount, rate, nil
	default:
		return 0, 0, models.NewBusinessRuleError("Product commission type is not defined")
	}
}

// BatchCalculateCommissions processes conversions independently; one item's
// failure never aborts the remaining items
func (s *CommissionService) BatchCalculateCommissions(ctx context.Context, reqs []models.CalculateCommissionRequest) *models.BatchCalculateResult {
	result := &models.BatchCalculateResult{
		Commissions: []models.Commission{},
		Errors:      []models.BatchCalculateError{},
	}

	for i := range reqs {
		commission, err := s.CalculateCommission(ctx, &reqs[i])
		if err != nil {
			result.Errors = append(result.Errors, models.BatchCalculateError{
				Index:   i,
				Message: err.Error(),
			})
			continue
		}
		result.Commissions = append(result.Commissions, *commission)
	}

	return result
}

// RecalculateCommission re-derives a pending commission's amount from the
// current product definition. A changed amount is recorded as a correction
// adjustment before the stored amount moves, so the ledger stays the record
// of truth.
func (s *CommissionService) RecalculateCommission(ctx context.Context, commissionID primitive.ObjectID, adminID primitive.ObjectID, reason string) (*models.Commission, error) {
	if reason == "" {
		return nil, models.NewValidationError("Recalculation reason is required")
	}

	commission, err := s.commissions.FindByID(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	if commission.Status != models.CommissionStatusPending {
		return nil, models.NewBusinessRuleError("Only pending commissions can be recalculated")
	}

	product, err := s.products.FindByID(ctx, commission.ProductID)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewBusinessRuleError("Invalid or inactive product")
		}
		return nil, err
	}

	req := &models.CalculateCommissionRequest{InitialSpendAmount: commission.InitialSpendAmount}
	amount, _, err := resolveCommissionAmount(req, product)
	if err != nil {
		return nil, err
	}

	delta := amount - commission.CommissionAmount
	if delta == 0 {
		return commission, nil
	}

	adjustment := &models.CommissionAdjustment{
		CommissionID:   commission.ID,
		AdjustmentType: models.AdjustmentTypeCorrection,
		Amount:         delta,
		Reason:         fmt.Sprintf("Recalculated from product definition: %s", reason),
		AdminID:        &adminID,
	}
	if err := s.adjustments.Insert(ctx, adjustment); err != nil {
		return nil, err
	}

	applied, err := s.commissions.ApplyAmountDelta(ctx, commission.ID, delta, []models.CommissionStatus{models.CommissionStatusPending})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, models.NewBusinessRuleError("Commission was modified concurrently; amount not updated")
	}

	commission.CommissionAmount = amount
	return commission, nil
}
