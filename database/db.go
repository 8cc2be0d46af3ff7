package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Connect creates the MongoDB client for the process lifetime and pings the
// deployment. A failed ping is logged but not returned: the driver keeps
// trying to reach the servers in the background and handlers surface the
// error per request.
func Connect(mongoURL, dbName string, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	clientOptions := options.Client().ApplyURI(mongoURL).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(timeoutCtx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Database("admin").RunCommand(timeoutCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		logger.Error("MongoDB ping failed, continuing without a verified connection", zap.Error(err))
	} else {
		logger.Info("Pinged your deployment. Successfully connected to MongoDB", zap.String("database", dbName))
	}

	return client, client.Database(dbName), nil
}

// Close disconnects from MongoDB
func Close(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer disconnectCancel()

	if err := client.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}
