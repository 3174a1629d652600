package repository

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"craftmarket/internal/database"
	"craftmarket/internal/domain"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var testDB *mongo.Database

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	// Transactions require a replica set, even a single-node one.
	dbContainer, err := mongodb.Run(
		context.Background(),
		"mongo:7",
		mongodb.WithReplicaSet("rs0"),
	)
	if err != nil {
		return nil, err
	}

	uri, err := dbContainer.ConnectionString(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}
	if !strings.Contains(uri, "directConnection") {
		uri += "/?directConnection=true"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return dbContainer.Terminate, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return dbContainer.Terminate, err
	}

	testDB = client.Database("craftmarket_test")
	if err := database.EnsureIndexes(ctx, testDB, zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start mongodb container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown mongodb container: %v", err)
		}
	}
}

func createTestCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	category := &domain.Category{CategoryName: name}
	if err := NewCategoryRepository(testDB).Create(context.Background(), category); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return category
}

func TestCreateInCategoryCommitsBothWrites(t *testing.T) {
	repo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)
	ctx := context.Background()

	category := createTestCategory(t, "pottery-"+primitive.NewObjectID().Hex())

	product := &domain.Product{
		ProductName:     "glazed bowl",
		ProductCategory: category.CategoryName,
		Description:     "stoneware",
		Price:           35,
		OnStock:         4,
		Size:            "M",
		CreationDate:    domain.FormatDate(time.Now()),
		Creator:         primitive.NewObjectID(),
		Image:           "uploads/images/bowl.png",
	}
	if err := repo.CreateInCategory(ctx, product, category.ID); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("product not stored: %v", err)
	}
	if stored.ProductName != "glazed bowl" {
		t.Errorf("unexpected product: %+v", stored)
	}

	updated, err := categoryRepo.FindByName(ctx, category.CategoryName)
	if err != nil {
		t.Fatalf("category not found: %v", err)
	}
	if len(updated.Products) != 1 || updated.Products[0] != product.ID {
		t.Errorf("product id not pushed onto category: %+v", updated.Products)
	}
}

func TestCreateInCategoryRollsBackWhenCategoryMissing(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := &domain.Product{
		ProductName:  "orphan",
		Description:  "no category",
		Price:        10,
		CreationDate: domain.FormatDate(time.Now()),
	}
	err := repo.CreateInCategory(ctx, product, primitive.NewObjectID())
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	if _, err := repo.FindByID(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Error("product insert should have been rolled back")
	}
}

func TestFindCreatedSinceFiltersLexicographically(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	category := createTestCategory(t, "textiles-"+primitive.NewObjectID().Hex())

	fresh := &domain.Product{ProductName: "fresh-scarf", CreationDate: domain.FormatDate(time.Now())}
	stale := &domain.Product{ProductName: "stale-scarf", CreationDate: domain.FormatDate(time.Now().AddDate(-1, 0, 0))}
	for _, p := range []*domain.Product{fresh, stale} {
		if err := repo.CreateInCategory(ctx, p, category.ID); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	since := domain.FormatDate(time.Now().AddDate(0, -3, 0))
	products, err := repo.FindCreatedSince(ctx, since)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}

	var foundFresh, foundStale bool
	for _, p := range products {
		if p.ID == fresh.ID {
			foundFresh = true
		}
		if p.ID == stale.ID {
			foundStale = true
		}
	}
	if !foundFresh {
		t.Error("recent product missing from result")
	}
	if foundStale {
		t.Error("old product must not be in result")
	}
}

func TestFindByIDsPreservesOrder(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	category := createTestCategory(t, "jewelry-"+primitive.NewObjectID().Hex())

	first := &domain.Product{ProductName: "ring", CreationDate: domain.FormatDate(time.Now())}
	second := &domain.Product{ProductName: "brooch", CreationDate: domain.FormatDate(time.Now())}
	for _, p := range []*domain.Product{first, second} {
		if err := repo.CreateInCategory(ctx, p, category.ID); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	products, err := repo.FindByIDs(ctx, []primitive.ObjectID{second.ID, first.ID})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(products) != 2 || products[0].ID != second.ID || products[1].ID != first.ID {
		t.Errorf("order not preserved: %+v", products)
	}
}

func TestCategoryNameIsUnique(t *testing.T) {
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	name := "woodwork-" + primitive.NewObjectID().Hex()
	if err := repo.Create(ctx, &domain.Category{CategoryName: name}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	err := repo.Create(ctx, &domain.Category{CategoryName: name})
	if !errors.Is(err, ErrCategoryAlreadyExists) {
		t.Fatalf("expected ErrCategoryAlreadyExists, got %v", err)
	}
}

func TestUpdateMissingProductReturnsNotFound(t *testing.T) {
	repo := NewProductRepository(testDB)

	err := repo.Update(context.Background(), &domain.Product{ID: primitive.NewObjectID()})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
