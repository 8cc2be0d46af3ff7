package repository

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"restaurant-service/models"
)

// PendingStore backs a Store while MongoDB is still unreachable. Every
// collection call fails with the last connect error until Bind is called,
// after which calls go straight to the bound database.
type PendingStore struct {
	mu  sync.RWMutex
	db  *mongo.Database
	err error
}

// NewPendingStore returns a Store whose collections fail with connectErr
// and the handle used to bind the database once it is reachable.
func NewPendingStore(connectErr error) (*Store, *PendingStore) {
	p := &PendingStore{err: connectErr}
	return &Store{
		Menu:     &pendingCollection[models.MenuItem]{pending: p, name: MenuCollection},
		Reviews:  &pendingCollection[models.Review]{pending: p, name: ReviewsCollection},
		Carts:    &pendingCollection[models.CartEntry]{pending: p, name: CartCollection},
		Users:    &pendingCollection[models.User]{pending: p, name: UsersCollection},
		Payments: &pendingCollection[models.PaymentRecord]{pending: p, name: PaymentsCollection},
	}, p
}

// Bind routes every later call to db.
func (p *PendingStore) Bind(db *mongo.Database) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.db = db
	p.err = nil
}

// Fail records the latest connect error reported to callers.
func (p *PendingStore) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		p.err = err
	}
}

func (p *PendingStore) Bound() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.db != nil
}

type pendingCollection[T any] struct {
	pending *PendingStore
	name    string
}

func (c *pendingCollection[T]) target() (Collection[T], error) {
	c.pending.mu.RLock()
	defer c.pending.mu.RUnlock()
	if c.pending.db == nil {
		return nil, fmt.Errorf("database unavailable: %w", c.pending.err)
	}
	return NewMongoCollection[T](c.pending.db, c.name), nil
}

func (c *pendingCollection[T]) ListAll(ctx context.Context) ([]T, error) {
	coll, err := c.target()
	if err != nil {
		return nil, err
	}
	return coll.ListAll(ctx)
}

func (c *pendingCollection[T]) Find(ctx context.Context, filter bson.M) ([]T, error) {
	coll, err := c.target()
	if err != nil {
		return nil, err
	}
	return coll.Find(ctx, filter)
}

func (c *pendingCollection[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	coll, err := c.target()
	if err != nil {
		return nil, err
	}
	return coll.FindOne(ctx, filter)
}

func (c *pendingCollection[T]) InsertOne(ctx context.Context, doc *T) (*models.InsertResult, error) {
	coll, err := c.target()
	if err != nil {
		return nil, err
	}
	return coll.InsertOne(ctx, doc)
}

func (c *pendingCollection[T]) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*models.UpdateResult, error) {
	coll, err := c.target()
	if err != nil {
		return nil, err
	}
	return coll.UpdateOne(ctx, filter, update)
}

func (c *pendingCollection[T]) DeleteOne(ctx context.Context, filter bson.M) (*models.DeleteResult, error) {
	coll, err := c.target()
	if err != nil {
		return nil, err
	}
	return coll.DeleteOne(ctx, filter)
}

func (c *pendingCollection[T]) DeleteMany(ctx context.Context, filter bson.M) (*models.DeleteResult, error) {
	coll, err := c.target()
	if err != nil {
		return nil, err
	}
	return coll.DeleteMany(ctx, filter)
}
