package repository

import (
	"context"
	"errors"
	"fmt"

	"craftmarket/internal/database"
	"craftmarket/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	CreateInCategory(ctx context.Context, product *domain.Product, categoryID primitive.ObjectID) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindBest(ctx context.Context) ([]domain.Product, error)
	FindCreatedSince(ctx context.Context, date string) ([]domain.Product, error)
}

type productRepository struct {
	db *mongo.Database
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) products() *mongo.Collection {
	return r.db.Collection(database.ProductsCollection)
}

// CreateInCategory inserts the product and appends it to the category's
// product list inside a single session transaction. Both writes commit or
// neither does.
func (r *productRepository) CreateInCategory(ctx context.Context, product *domain.Product, categoryID primitive.ObjectID) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.products().InsertOne(sc, product); err != nil {
			return nil, fmt.Errorf("failed to insert product: %w", err)
		}

		res, err := r.db.Collection(database.CategoriesCollection).UpdateOne(
			sc,
			bson.M{"_id": categoryID},
			bson.M{"$push": bson.M{"products": product.ID}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update category products: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, ErrCategoryNotFound
		}

		return nil, nil
	})

	return err
}

// Update replaces all mutable fields of an existing product.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	res, err := r.products().ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product document.
func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.products().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// FindByID retrieves a product by its id.
func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.products().FindOne(ctx, bson.M{"_id": id}).Decode(product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindByIDs retrieves the products referenced by a category's product list,
// preserving the list order.
func (r *productRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	cursor, err := r.products().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products by ids: %w", err)
	}

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	byID := make(map[primitive.ObjectID]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	ordered := make([]domain.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// FindAll retrieves every product.
func (r *productRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.find(ctx, bson.M{})
}

// FindBest retrieves products flagged for the best-products display.
func (r *productRepository) FindBest(ctx context.Context) ([]domain.Product, error) {
	return r.find(ctx, bson.M{"bestDesplay": true})
}

// FindCreatedSince retrieves products whose creation date is on or after the
// given date string. Dates use domain.DateLayout, so the string comparison
// matches chronological order.
func (r *productRepository) FindCreatedSince(ctx context.Context, date string) ([]domain.Product, error) {
	return r.find(ctx, bson.M{"creationDate": bson.M{"$gte": date}})
}

func (r *productRepository) find(ctx context.Context, filter bson.M) ([]domain.Product, error) {
	cursor, err := r.products().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
