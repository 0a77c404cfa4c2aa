package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/affistack/affiliate_backend/models"
)

// CommissionStore is the persistence surface the engine needs for
// commissions. Status and amount writes are conditional so concurrent admin
// actions and the bulk scheduler cannot produce lost updates.
type CommissionStore interface {
	Create(ctx context.Context, commission *models.Commission) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Commission, error)
	ExistsForCustomerAndProduct(ctx context.Context, customerID, productID primitive.ObjectID) (bool, error)
	UpdateStatusIfCurrent(ctx context.Context, id primitive.ObjectID, expected, next models.CommissionStatus, approvalDate *time.Time) (bool, error)
	ApplyAmountDelta(ctx context.Context, id primitive.ObjectID, delta float64, allowedStatuses []models.CommissionStatus) (bool, error)
	FindEligibleForApproval(ctx context.Context, now time.Time) ([]models.Commission, error)
	FindByMarketer(ctx context.Context, marketerID primitive.ObjectID) ([]models.Commission, error)
	FindInWindow(ctx context.Context, start, end *time.Time) ([]models.Commission, error)
	SummaryByMarketer(ctx context.Context, marketerID primitive.ObjectID) (*models.CommissionSummary, error)
	SumApprovedAmount(ctx context.Context, marketerID primitive.ObjectID) (float64, error)
	FindIDsByMarketer(ctx context.Context, marketerID primitive.ObjectID) ([]primitive.ObjectID, error)
	CountInWindow(ctx context.Context, start, end *time.Time, marketerID *primitive.ObjectID) (int64, error)
}

// AdjustmentStore is the append-only ledger surface
type AdjustmentStore interface {
	Insert(ctx context.Context, adjustment *models.CommissionAdjustment) error
	FindByCommission(ctx context.Context, commissionID primitive.ObjectID) ([]models.CommissionAdjustment, error)
	FindStatusHistory(ctx context.Context, commissionID primitive.ObjectID) ([]models.CommissionAdjustment, error)
	FindClawbacks(ctx context.Context, start, end *time.Time, commissionIDs []primitive.ObjectID) ([]models.CommissionAdjustment, error)
	SumByCommission(ctx context.Context, commissionID primitive.ObjectID) (float64, error)
}

// MarketerStore resolves marketers consulted at calculation time
type MarketerStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Marketer, error)
}

// ProductStore resolves product commission definitions
type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}
