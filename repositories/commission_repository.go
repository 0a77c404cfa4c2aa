package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/affistack/affiliate_backend/models"
)

// CommissionRepository persists commissions in the "commissions" collection.
// The collection carries a unique compound index on (customerId, productId),
// so duplicate conversions fail at the store level regardless of races.
type CommissionRepository struct {
	collection *mongo.Collection
}

func NewCommissionRepository(db *mongo.Database) *CommissionRepository {
	return &CommissionRepository{
		collection: db.Collection("commissions"),
	}
}

// Create inserts a new commission. A duplicate (customerId, productId) pair
// is reported as a models.DuplicateError.
func (r *CommissionRepository) Create(ctx context.Context, commission *models.Commission) error {
	now := time.Now()
	commission.CreatedAt = now
	commission.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, commission)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewDuplicateError("Commission already exists for this customer and product")
		}
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		commission.ID = oid
	}
	return nil
}

// FindByID returns the commission or a models.NotFoundError
func (r *CommissionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Commission, error) {
	var commission models.Commission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&commission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NewNotFoundError("Commission not found")
		}
		return nil, err
	}
	return &commission, nil
}

// ExistsForCustomerAndProduct reports whether a commission was already
// created for the customer+product pair
func (r *CommissionRepository) ExistsForCustomerAndProduct(ctx context.Context, customerID, productID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"customerId": customerID,
		"productId":  productID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatusIfCurrent performs a compare-and-set status write: the update
// only applies while the stored status still equals expected. Returns false
// when the commission was concurrently modified (or does not exist).
func (r *CommissionRepository) UpdateStatusIfCurrent(ctx context.Context, id primitive.ObjectID, expected, next models.CommissionStatus, approvalDate *time.Time) (bool, error) {
	set := bson.M{
		"status":    next,
		"updatedAt": time.Now(),
	}
	if approvalDate != nil {
		set["approvalDate"] = *approvalDate
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": expected},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// ApplyAmountDelta atomically adds delta to commissionAmount, but only while
// the status is one of allowedStatuses and a negative delta would not drive
// the amount below zero. Returns false when the precondition no longer holds.
func (r *CommissionRepository) ApplyAmountDelta(ctx context.Context, id primitive.ObjectID, delta float64, allowedStatuses []models.CommissionStatus) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": allowedStatuses},
	}
	if delta < 0 {
		filter["commissionAmount"] = bson.M{"$gte": -delta}
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"commissionAmount": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// FindEligibleForApproval returns pending commissions whose clearance period
// has elapsed, ordered by conversion date so bulk runs are deterministic
func (r *CommissionRepository) FindEligibleForApproval(ctx context.Context, now time.Time) ([]models.Commission, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{
			"status":                models.CommissionStatusPending,
			"eligibleForPayoutDate": bson.M{"$lte": now},
		},
		options.Find().SetSort(bson.D{{Key: "conversionDate", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var commissions []models.Commission
	if err := cursor.All(ctx, &commissions); err != nil {
		return nil, err
	}
	return commissions, nil
}

// FindByMarketer returns all commissions of one marketer, newest first
func (r *CommissionRepository) FindByMarketer(ctx context.Context, marketerID primitive.ObjectID) ([]models.Commission, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"marketerId": marketerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var commissions []models.Commission
	if err := cursor.All(ctx, &commissions); err != nil {
		return nil, err
	}
	return commissions, nil
}

// FindInWindow returns commissions whose conversion date falls inside the
// optional [start, end] window; nil bounds are open
func (r *CommissionRepository) FindInWindow(ctx context.Context, start, end *time.Time) ([]models.Commission, error) {
	filter := bson.M{}
	dateRange := bson.M{}
	if start != nil {
		dateRange["$gte"] = *start
	}
	if end != nil {
		dateRange["$lte"] = *end
	}
	if len(dateRange) > 0 {
		filter["conversionDate"] = dateRange
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var commissions []models.Commission
	if err := cursor.All(ctx, &commissions); err != nil {
		return nil, err
	}
	return commissions, nil
}

// SummaryByMarketer groups one marketer's commissions by status and sums the amounts
func (r *CommissionRepository) SummaryByMarketer(ctx context.Context, marketerID primitive.ObjectID) (*models.CommissionSummary, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"marketerId": marketerID}},
		{"$group": bson.M{
			"_id":    "$status",
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$commissionAmount"},
		}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summary := &models.CommissionSummary{MarketerID: marketerID}
	for cursor.Next(ctx) {
		var row struct {
			Status models.CommissionStatus `bson:"_id"`
			Count  int64                   `bson:"count"`
			Amount float64                 `bson:"amount"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		switch row.Status {
		case models.CommissionStatusPending:
			summary.PendingCount = row.Count
			summary.PendingAmount = row.Amount
		case models.CommissionStatusApproved:
			summary.ApprovedCount = row.Count
			summary.ApprovedAmount = row.Amount
		case models.CommissionStatusPaid:
			summary.PaidCount = row.Count
			summary.PaidAmount = row.Amount
		case models.CommissionStatusClawedBack:
			summary.ClawedBackCount = row.Count
			summary.ClawedBackAmount = row.Amount
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	summary.TotalEarned = summary.PendingAmount + summary.ApprovedAmount + summary.PaidAmount
	return summary, nil
}

// SumApprovedAmount totals commissionAmount over approved commissions of one marketer
func (r *CommissionRepository) SumApprovedAmount(ctx context.Context, marketerID primitive.ObjectID) (float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"marketerId": marketerID,
			"status":     models.CommissionStatusApproved,
		}},
		{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$commissionAmount"},
		}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, err
		}
	}
	return result.Total, nil
}

// FindIDsByMarketer returns the ids of all commissions belonging to one marketer
func (r *CommissionRepository) FindIDsByMarketer(ctx context.Context, marketerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"marketerId": marketerID},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cursor.Err()
}

// CountInWindow counts commissions converted inside the optional window,
// optionally restricted to one marketer
func (r *CommissionRepository) CountInWindow(ctx context.Context, start, end *time.Time, marketerID *primitive.ObjectID) (int64, error) {
	filter := bson.M{}
	if marketerID != nil {
		filter["marketerId"] = *marketerID
	}
	dateRange := bson.M{}
	if start != nil {
		dateRange["$gte"] = *start
	}
	if end != nil {
		dateRange["$lte"] = *end
	}
	if len(dateRange) > 0 {
		filter["conversionDate"] = dateRange
	}
	return r.collection.CountDocuments(ctx, filter)
}
