package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurant-service/models"
)

// Collection names inside the service database.
const (
	MenuCollection     = "menu"
	ReviewsCollection  = "reviews"
	CartCollection     = "cart"
	UsersCollection    = "users"
	PaymentsCollection = "payment"
)

// ErrInvalidID is returned when a hex string is not a valid ObjectID.
var ErrInvalidID = errors.New("invalid object id")

// Collection is the data store gateway for one named collection. Every call
// is a single pass-through to the backing store: no retries, no transactions.
// FindOne returns (nil, nil) when nothing matches.
type Collection[T any] interface {
	ListAll(ctx context.Context) ([]T, error)
	Find(ctx context.Context, filter bson.M) ([]T, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	InsertOne(ctx context.Context, doc *T) (*models.InsertResult, error)
	UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*models.UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (*models.DeleteResult, error)
	DeleteMany(ctx context.Context, filter bson.M) (*models.DeleteResult, error)
}

// Store groups the collections the service works with. It is built once at
// startup and handed to the router.
type Store struct {
	Menu     Collection[models.MenuItem]
	Reviews  Collection[models.Review]
	Carts    Collection[models.CartEntry]
	Users    Collection[models.User]
	Payments Collection[models.PaymentRecord]
}

// ParseID converts a hex id from a path parameter into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return id, nil
}

// ParseIDs parses every id or fails on the first malformed one.
func ParseIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := ParseID(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func ByID(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id}
}

func ByIDs(ids []primitive.ObjectID) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}}
}

func ByEmail(email string) bson.M {
	return bson.M{"email": email}
}
