package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"restaurant-service/models"
)

func usersOn(mt *mtest.T) *MongoCollection[models.User] {
	return &MongoCollection[models.User]{collection: mt.Coll}
}

func TestMongoCollection(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("FindOne miss returns nil without error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "restro.users", mtest.FirstBatch))

		user, err := usersOn(mt).FindOne(ctx, ByEmail("ghost@x.com"))
		assert.NoError(mt, err)
		assert.Nil(mt, user)
	})

	mt.Run("FindOne hit decodes the document", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "restro.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "boss@x.com"},
			{Key: "role", Value: models.RoleAdmin},
		}))

		user, err := usersOn(mt).FindOne(ctx, ByEmail("boss@x.com"))
		require.NoError(mt, err)
		require.NotNil(mt, user)
		assert.Equal(mt, id, user.ID)
		assert.True(mt, user.IsAdmin())
	})

	mt.Run("FindOne surfaces server errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		user, err := usersOn(mt).FindOne(ctx, ByEmail("a@x.com"))
		assert.Error(mt, err)
		assert.False(mt, errors.Is(err, mongo.ErrNoDocuments))
		assert.Nil(mt, user)
	})

	mt.Run("Find with no match returns empty list", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "restro.users", mtest.FirstBatch))

		users, err := usersOn(mt).Find(ctx, ByEmail("ghost@x.com"))
		require.NoError(mt, err)
		assert.NotNil(mt, users)
		assert.Empty(mt, users)
	})

	mt.Run("ListAll decodes every document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "restro.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "email", Value: "a@x.com"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "email", Value: "b@x.com"}},
		))

		users, err := usersOn(mt).ListAll(ctx)
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, "b@x.com", users[1].Email)
	})

	mt.Run("InsertOne reports the generated ObjectID", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		res, err := usersOn(mt).InsertOne(ctx, &models.User{Email: "a@x.com"})
		require.NoError(mt, err)
		assert.True(mt, res.Acknowledged)
		id, ok := res.InsertedID.(primitive.ObjectID)
		require.True(mt, ok, "insertedId should be an ObjectID, got %T", res.InsertedID)
		assert.False(mt, id.IsZero())
	})

	mt.Run("InsertOne duplicate key is an error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		_, err := usersOn(mt).InsertOne(ctx, &models.User{Email: "a@x.com"})
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})

	mt.Run("UpdateOne copies matched and modified counts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		res, err := usersOn(mt).UpdateOne(ctx, ByID(primitive.NewObjectID()), bson.M{"$set": bson.M{"role": models.RoleAdmin}})
		require.NoError(mt, err)
		assert.True(mt, res.Acknowledged)
		assert.EqualValues(mt, 1, res.MatchedCount)
		assert.EqualValues(mt, 1, res.ModifiedCount)
		assert.EqualValues(mt, 0, res.UpsertedCount)
	})

	mt.Run("DeleteOne reports deletedCount", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		res, err := usersOn(mt).DeleteOne(ctx, ByID(primitive.NewObjectID()))
		require.NoError(mt, err)
		assert.True(mt, res.Acknowledged)
		assert.EqualValues(mt, 1, res.DeletedCount)
	})

	mt.Run("DeleteOne of a missing id reports zero", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		res, err := usersOn(mt).DeleteOne(ctx, ByID(primitive.NewObjectID()))
		require.NoError(mt, err)
		assert.EqualValues(mt, 0, res.DeletedCount)
	})

	mt.Run("DeleteMany reports deletedCount", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}))

		res, err := usersOn(mt).DeleteMany(ctx, ByIDs([]primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}))
		require.NoError(mt, err)
		assert.True(mt, res.Acknowledged)
		assert.EqualValues(mt, 2, res.DeletedCount)
	})
}

func TestPendingStore(t *testing.T) {
	ctx := context.Background()
	connectErr := errors.New("lookup _mongodb._tcp.cluster0.unreachable.invalid: no such host")

	store, pending := NewPendingStore(connectErr)
	assert.False(t, pending.Bound())

	_, err := store.Menu.ListAll(ctx)
	assert.ErrorIs(t, err, connectErr)
	user, err := store.Users.FindOne(ctx, ByEmail("a@x.com"))
	assert.ErrorIs(t, err, connectErr)
	assert.Nil(t, user)
	_, err = store.Carts.DeleteMany(ctx, ByIDs(nil))
	assert.ErrorIs(t, err, connectErr)

	retryErr := errors.New("connection refused")
	pending.Fail(retryErr)
	_, err = store.Payments.InsertOne(ctx, &models.PaymentRecord{Email: "a@x.com"})
	assert.ErrorIs(t, err, retryErr)

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("bound store reaches the database", func(mt *mtest.T) {
		pending.Bind(mt.DB)
		assert.True(mt, pending.Bound())

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		res, err := store.Menu.DeleteOne(ctx, ByID(primitive.NewObjectID()))
		require.NoError(mt, err)
		assert.EqualValues(mt, 1, res.DeletedCount)

		pending.Fail(retryErr)
		assert.True(mt, pending.Bound(), "a late failure must not unbind the database")
	})
}
