package database

import (
	"context"
	"fmt"
	"time"

	"craftmarket/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Collection names used across the repositories.
const (
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
	UsersCollection      = "users"
	OrdersCollection     = "orders"
)

// Connect establishes the MongoDB client connection and verifies it with a
// ping before returning the database handle.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.ConnectionURI()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", cfg.Name))

	return client, client.Database(cfg.Name), nil
}

// EnsureIndexes creates the indexes the application depends on: unique
// category names and unique user emails. Safe to call on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection(CategoriesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "categoryName", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("failed to create category name index: %w", err)
	}

	_, err = db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("failed to create user email index: %w", err)
	}

	logger.Info("Database indexes ensured")
	return nil
}

// Health reports basic connectivity information for the health endpoint.
func Health(ctx context.Context, client *mongo.Client) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		return map[string]string{"status": "down", "error": err.Error()}
	}
	return map[string]string{"status": "up"}
}
