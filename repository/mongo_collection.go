package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"restaurant-service/models"
)

type MongoCollection[T any] struct {
	collection *mongo.Collection
}

func NewMongoCollection[T any](db *mongo.Database, name string) *MongoCollection[T] {
	return &MongoCollection[T]{collection: db.Collection(name)}
}

// NewMongoStore binds the five service collections in db.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Menu:     NewMongoCollection[models.MenuItem](db, MenuCollection),
		Reviews:  NewMongoCollection[models.Review](db, ReviewsCollection),
		Carts:    NewMongoCollection[models.CartEntry](db, CartCollection),
		Users:    NewMongoCollection[models.User](db, UsersCollection),
		Payments: NewMongoCollection[models.PaymentRecord](db, PaymentsCollection),
	}
}

func (r *MongoCollection[T]) ListAll(ctx context.Context) ([]T, error) {
	return r.Find(ctx, bson.M{})
}

func (r *MongoCollection[T]) Find(ctx context.Context, filter bson.M) ([]T, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *MongoCollection[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *MongoCollection[T]) InsertOne(ctx context.Context, doc *T) (*models.InsertResult, error) {
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return &models.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (r *MongoCollection[T]) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*models.UpdateResult, error) {
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	return &models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (r *MongoCollection[T]) DeleteOne(ctx context.Context, filter bson.M) (*models.DeleteResult, error) {
	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (r *MongoCollection[T]) DeleteMany(ctx context.Context, filter bson.M) (*models.DeleteResult, error) {
	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
