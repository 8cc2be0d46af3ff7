package repository

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurant-service/models"
)

// MemoryCollection keeps documents in process memory. It understands the
// filters the service issues: field equality, $eq and $in, and $set/$unset
// updates. Documents are round-tripped through BSON so they behave like
// stored documents, including generated _id values.
type MemoryCollection[T any] struct {
	mu   sync.RWMutex
	docs []bson.M
}

func NewMemoryCollection[T any]() *MemoryCollection[T] {
	return &MemoryCollection[T]{}
}

// NewMemoryStore returns a Store backed entirely by process memory.
func NewMemoryStore() *Store {
	return &Store{
		Menu:     NewMemoryCollection[models.MenuItem](),
		Reviews:  NewMemoryCollection[models.Review](),
		Carts:    NewMemoryCollection[models.CartEntry](),
		Users:    NewMemoryCollection[models.User](),
		Payments: NewMemoryCollection[models.PaymentRecord](),
	}
}

func (m *MemoryCollection[T]) ListAll(ctx context.Context) ([]T, error) {
	return m.Find(ctx, bson.M{})
}

func (m *MemoryCollection[T]) Find(_ context.Context, filter bson.M) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0)
	for _, doc := range m.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		v, err := fromDocument[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *MemoryCollection[T]) FindOne(_ context.Context, filter bson.M) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, err := m.indexOf(filter)
	if err != nil || i < 0 {
		return nil, err
	}
	v, err := fromDocument[T](m.docs[i])
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (m *MemoryCollection[T]) InsertOne(_ context.Context, doc *T) (*models.InsertResult, error) {
	stored, err := toDocument(doc)
	if err != nil {
		return nil, err
	}
	if _, ok := stored["_id"]; !ok {
		stored["_id"] = primitive.NewObjectID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i, _ := m.indexOf(bson.M{"_id": stored["_id"]}); i >= 0 {
		return nil, fmt.Errorf("duplicate key: _id %v", stored["_id"])
	}
	m.docs = append(m.docs, stored)
	return &models.InsertResult{Acknowledged: true, InsertedID: stored["_id"]}, nil
}

func (m *MemoryCollection[T]) UpdateOne(_ context.Context, filter bson.M, update bson.M) (*models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := &models.UpdateResult{Acknowledged: true}
	i, err := m.indexOf(filter)
	if err != nil || i < 0 {
		return res, err
	}
	res.MatchedCount = 1

	updated, err := applyUpdate(m.docs[i], update)
	if err != nil {
		return nil, err
	}
	if !reflect.DeepEqual(updated, m.docs[i]) {
		m.docs[i] = updated
		res.ModifiedCount = 1
	}
	return res, nil
}

func (m *MemoryCollection[T]) DeleteOne(_ context.Context, filter bson.M) (*models.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := &models.DeleteResult{Acknowledged: true}
	i, err := m.indexOf(filter)
	if err != nil || i < 0 {
		return res, err
	}
	m.docs = append(m.docs[:i], m.docs[i+1:]...)
	res.DeletedCount = 1
	return res, nil
}

func (m *MemoryCollection[T]) DeleteMany(_ context.Context, filter bson.M) (*models.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]bson.M, 0, len(m.docs))
	var deleted int64
	for _, doc := range m.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	m.docs = kept
	return &models.DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

// indexOf returns the position of the first match or -1. Callers hold the lock.
func (m *MemoryCollection[T]) indexOf(filter bson.M) (int, error) {
	for i, doc := range m.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

func toDocument(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument[T any](doc bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(doc)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}

func matches(doc, filter bson.M) (bool, error) {
	for field, cond := range filter {
		val, present := doc[field]

		ops, isOps := cond.(bson.M)
		if !isOps || !isOperatorDoc(ops) {
			if !present || !valuesEqual(val, cond) {
				return false, nil
			}
			continue
		}

		for op, arg := range ops {
			switch op {
			case "$eq":
				if !present || !valuesEqual(val, arg) {
					return false, nil
				}
			case "$in":
				list, err := toList(arg)
				if err != nil {
					return false, err
				}
				found := false
				for _, candidate := range list {
					if present && valuesEqual(val, candidate) {
						found = true
						break
					}
				}
				if !found {
					return false, nil
				}
			default:
				return false, fmt.Errorf("unsupported query operator %s", op)
			}
		}
	}
	return true, nil
}

func applyUpdate(doc, update bson.M) (bson.M, error) {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	for op, arg := range update {
		fields, ok := arg.(bson.M)
		if !ok {
			return nil, fmt.Errorf("update operator %s expects a document", op)
		}
		switch op {
		case "$set":
			for k, v := range fields {
				if k == "_id" {
					return nil, fmt.Errorf("field _id is immutable")
				}
				norm, err := normalizeValue(v)
				if err != nil {
					return nil, err
				}
				out[k] = norm
			}
		case "$unset":
			for k := range fields {
				delete(out, k)
			}
		default:
			return nil, fmt.Errorf("unsupported update operator %s", op)
		}
	}
	return out, nil
}

// normalizeValue converts v into the representation a BSON round trip
// produces, so stored values compare equal to decoded ones.
func normalizeValue(v interface{}) (interface{}, error) {
	doc, err := toDocument(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}

func isOperatorDoc(m bson.M) bool {
	for k := range m {
		if len(k) == 0 || k[0] != '$' {
			return false
		}
	}
	return len(m) > 0
}

func toList(arg interface{}) ([]interface{}, error) {
	rv := reflect.ValueOf(arg)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("$in expects an array, got %T", arg)
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func valuesEqual(a, b interface{}) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
