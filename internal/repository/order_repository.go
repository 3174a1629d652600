package repository

import (
	"context"
	"errors"
	"fmt"

	"craftmarket/internal/database"
	"craftmarket/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	UpdateState(ctx context.Context, id primitive.ObjectID, state string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type orderRepository struct {
	db *mongo.Database
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) orders() *mongo.Collection {
	return r.db.Collection(database.OrdersCollection)
}

// Create inserts a new order with its snapshot price.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}

	if _, err := r.orders().InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindAll retrieves every order.
func (r *orderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	cursor, err := r.orders().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	var orders []domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// FindByID retrieves an order by id.
func (r *orderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	order := &domain.Order{}
	err := r.orders().FindOne(ctx, bson.M{"_id": id}).Decode(order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	return order, nil
}

// UpdateState overwrites the order's state field.
func (r *orderRepository) UpdateState(ctx context.Context, id primitive.ObjectID, state string) error {
	res, err := r.orders().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"orderState": state}})
	if err != nil {
		return fmt.Errorf("failed to update order state: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Delete removes an order document.
func (r *orderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.orders().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
