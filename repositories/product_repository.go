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

// ProductRepository persists products in the "products" collection
type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("products"),
	}
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

// FindByID returns the product or a models.NotFoundError
func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NewNotFoundError("Product not found")
		}
		return nil, err
	}
	return &product, nil
}

// Update replaces the commission definition fields of a product
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, req *models.ProductRequest) error {
	set := bson.M{
		"name":                 req.Name,
		"commissionType":       req.CommissionType,
		"commissionRate":       req.CommissionRate,
		"commissionFlatAmount": req.CommissionFlatAmount,
		"minInitialSpend":      req.MinInitialSpend,
		"updatedAt":            time.Now(),
	}
	if req.Status != "" {
		set["status"] = req.Status
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.NewNotFoundError("Product not found")
	}
	return nil
}

// List returns all products, newest first
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
