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

// MarketerRepository persists marketers in the "marketers" collection
type MarketerRepository struct {
	collection *mongo.Collection
}

func NewMarketerRepository(db *mongo.Database) *MarketerRepository {
	return &MarketerRepository{
		collection: db.Collection("marketers"),
	}
}

// Create inserts a new marketer; duplicate emails are rejected by the unique index
func (r *MarketerRepository) Create(ctx context.Context, marketer *models.Marketer) error {
	now := time.Now()
	marketer.CreatedAt = now
	marketer.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, marketer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewDuplicateError("Marketer already exists with this email")
		}
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		marketer.ID = oid
	}
	return nil
}

// FindByID returns the marketer or a models.NotFoundError
func (r *MarketerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Marketer, error) {
	var marketer models.Marketer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&marketer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NewNotFoundError("Marketer not found")
		}
		return nil, err
	}
	return &marketer, nil
}

// FindByTrackingCode resolves a marketer from a tracking code
func (r *MarketerRepository) FindByTrackingCode(ctx context.Context, trackingCode string) (*models.Marketer, error) {
	var marketer models.Marketer
	err := r.collection.FindOne(ctx, bson.M{"trackingCode": trackingCode}).Decode(&marketer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NewNotFoundError("Marketer not found")
		}
		return nil, err
	}
	return &marketer, nil
}

// UpdateStatus flips a marketer between active and inactive
func (r *MarketerRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.MarketerStatus) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.NewNotFoundError("Marketer not found")
	}
	return nil
}

// List returns all marketers, newest first
func (r *MarketerRepository) List(ctx context.Context) ([]models.Marketer, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	marketers := []models.Marketer{}
	if err := cursor.All(ctx, &marketers); err != nil {
		return nil, err
	}
	return marketers, nil
}
