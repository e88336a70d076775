package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KeshavX3/ERP-2/models"
)

// OrderListFilter narrows a user's order listing.
type OrderListFilter struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// StatusGroup is one bucket of the per-status aggregation.
type StatusGroup struct {
	Status      string  `json:"status" bson:"_id"`
	Count       int64   `json:"count" bson:"count"`
	TotalAmount float64 `json:"totalAmount" bson:"totalAmount"`
}

// OrderRepository defines the data access surface for orders. Every lookup
// is scoped to the owning user; there is no cross-user read path.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByUser(ctx context.Context, userID primitive.ObjectID, filter OrderListFilter) ([]models.Order, int64, error)
	FindByOrderIDAndUser(ctx context.Context, orderID string, userID primitive.ObjectID) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	StatusBreakdown(ctx context.Context, userID primitive.ObjectID) ([]StatusGroup, error)
	TotalSpent(ctx context.Context, userID primitive.ObjectID) (float64, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	FindRecent(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Order, error)
}

// MongoOrderRepository implements OrderRepository on a Mongo collection.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (r *MongoOrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, f OrderListFilter) ([]models.Order, int64, error) {
	filter := bson.M{"user": userID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.StartDate != nil || f.EndDate != nil {
		created := bson.M{}
		if f.StartDate != nil {
			created["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			created["$lte"] = *f.EndDate
		}
		filter["createdAt"] = created
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((f.Page - 1) * f.Limit)
	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(f.Limit))

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *MongoOrderRepository) FindByOrderIDAndUser(ctx context.Context, orderID string, userID primitive.ObjectID) (*models.Order, error) {
	filter := bson.M{"orderId": orderID, "user": userID}
	var order models.Order
	if err := r.collection.FindOne(ctx, filter).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepository) Update(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().UTC()
	filter := bson.M{"orderId": order.OrderID, "user": order.User}
	update := bson.M{"$set": bson.M{
		"status":         order.Status,
		"trackingNumber": order.TrackingNumber,
		"notes":          order.Notes,
		"actualDelivery": order.ActualDelivery,
		"updatedAt":      order.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoOrderRepository) StatusBreakdown(ctx context.Context, userID primitive.ObjectID) ([]StatusGroup, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$status",
			"count":       bson.M{"$sum": 1},
			"totalAmount": bson.M{"$sum": "$total"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []StatusGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *MongoOrderRepository) TotalSpent(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user":   userID,
			"status": bson.M{"$ne": models.StatusCancelled},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$total"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

func (r *MongoOrderRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user": userID})
}

func (r *MongoOrderRepository) FindRecent(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Order, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"user": userID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
