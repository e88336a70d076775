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

type BrandRepository interface {
	FindActive(ctx context.Context) ([]models.Brand, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error)
	FindByName(ctx context.Context, name string) (*models.Brand, error)
	Create(ctx context.Context, brand *models.Brand) error
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Brand, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

type MongoBrandRepository struct {
	collection *mongo.Collection
}

func NewMongoBrandRepository(db *mongo.Database) BrandRepository {
	return &MongoBrandRepository{collection: db.Collection("brands")}
}

func (r *MongoBrandRepository) FindActive(ctx context.Context) ([]models.Brand, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var brands []models.Brand
	if err := cursor.All(ctx, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *MongoBrandRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *MongoBrandRepository) FindByName(ctx context.Context, name string) (*models.Brand, error) {
	filter := bson.M{"name": bson.M{"$regex": "^" + regexEscape(name) + "$", "$options": "i"}}
	var brand models.Brand
	if err := r.collection.FindOne(ctx, filter).Decode(&brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *MongoBrandRepository) Create(ctx context.Context, brand *models.Brand) error {
	res, err := r.collection.InsertOne(ctx, brand)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		brand.ID = oid
	}
	return nil
}

func (r *MongoBrandRepository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Brand, error) {
	updates["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var brand models.Brand
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates}, opts).Decode(&brand)
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *MongoBrandRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
