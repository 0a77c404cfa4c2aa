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

// AdjustmentRepository persists the append-only commission ledger in the
// "commission_adjustments" collection. Entries are only ever inserted.
type AdjustmentRepository struct {
	collection *mongo.Collection
}

func NewAdjustmentRepository(db *mongo.Database) *AdjustmentRepository {
	return &AdjustmentRepository{
		collection: db.Collection("commission_adjustments"),
	}
}

// Insert appends one ledger entry
func (r *AdjustmentRepository) Insert(ctx context.Context, adjustment *models.CommissionAdjustment) error {
	adjustment.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, adjustment)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		adjustment.ID = oid
	}
	return nil
}

// FindByCommission returns all ledger entries of one commission, most recent first
func (r *AdjustmentRepository) FindByCommission(ctx context.Context, commissionID primitive.ObjectID) ([]models.CommissionAdjustment, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"commissionId": commissionID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	adjustments := []models.CommissionAdjustment{}
	if err := cursor.All(ctx, &adjustments); err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindStatusHistory returns the status_change entries of one commission in
// chronological order
func (r *AdjustmentRepository) FindStatusHistory(ctx context.Context, commissionID primitive.ObjectID) ([]models.CommissionAdjustment, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{
			"commissionId":   commissionID,
			"adjustmentType": models.AdjustmentTypeStatusChange,
		},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	adjustments := []models.CommissionAdjustment{}
	if err := cursor.All(ctx, &adjustments); err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindClawbacks returns clawback entries created inside the optional window,
// optionally restricted to a set of commission ids. A nil commissionIDs means
// no restriction; an empty non-nil slice matches nothing.
func (r *AdjustmentRepository) FindClawbacks(ctx context.Context, start, end *time.Time, commissionIDs []primitive.ObjectID) ([]models.CommissionAdjustment, error) {
	filter := bson.M{"adjustmentType": models.AdjustmentTypeClawback}

	dateRange := bson.M{}
	if start != nil {
		dateRange["$gte"] = *start
	}
	if end != nil {
		dateRange["$lte"] = *end
	}
	if len(dateRange) > 0 {
		filter["createdAt"] = dateRange
	}
	if commissionIDs != nil {
		filter["commissionId"] = bson.M{"$in": commissionIDs}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	adjustments := []models.CommissionAdjustment{}
	if err := cursor.All(ctx, &adjustments); err != nil {
		return nil, err
	}
	return adjustments, nil
}

// SumByCommission totals the signed amounts of one commission's ledger
func (r *AdjustmentRepository) SumByCommission(ctx context.Context, commissionID primitive.ObjectID) (float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"commissionId": commissionID}},
		{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
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
