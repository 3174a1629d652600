package service

import (
	"context"
	"errors"
	"time"

	"craftmarket/internal/domain"
	"craftmarket/internal/httperr"
	"craftmarket/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newProductWindow is how far back a product's creation date may lie for it
// to still count as "new".
const newProductWindow = 3 // months

// CreateProductInput carries the validated fields for a new product.
type CreateProductInput struct {
	ProductName     string
	ProductCategory string
	Description     string
	Price           float64
	OnStock         int
	Size            string
	BestDesplay     bool
}

// UpdateProductInput carries the validated mutable fields of a product. The
// category and creator are not updatable.
type UpdateProductInput struct {
	ProductName string
	Description string
	Price       float64
	OnStock     int
	Size        string
	BestDesplay bool
}

// ProductService implements the catalog operations. Every failure is returned
// as a typed *httperr.Error with a fixed message; no raw store error escapes.
type ProductService interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
	ListBest(ctx context.Context) ([]domain.Product, error)
	ListNew(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryName string) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in CreateProductInput, creatorID string, imagePath string) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateProductInput, imagePath string) (oldImagePath string, err error)
	Delete(ctx context.Context, id string) (imagePath string, err error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

// ListAll returns every product. An empty catalog is reported as 404, which
// is the contract the storefront was built against.
func (s *productService) ListAll(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, httperr.Internal("Something went wrong, could not find the products.")
	}
	if len(products) == 0 {
		return nil, httperr.NotFound("there is no products")
	}
	return products, nil
}

// ListBest returns products flagged for the best-products display.
func (s *productService) ListBest(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.FindBest(ctx)
	if err != nil {
		return nil, httperr.Internal("Something went wrong, could not find the best products.")
	}
	if len(products) == 0 {
		return nil, httperr.NotFound("there is no best products")
	}
	return products, nil
}

// ListNew returns products created within the last three months.
func (s *productService) ListNew(ctx context.Context) ([]domain.Product, error) {
	since := domain.FormatDate(time.Now().AddDate(0, -newProductWindow, 0))
	products, err := s.productRepo.FindCreatedSince(ctx, since)
	if err != nil {
		return nil, httperr.Internal("Something went wrong, could not find the new products.")
	}
	if len(products) == 0 {
		return nil, httperr.NotFound("there is no new products")
	}
	return products, nil
}

// ListByCategory resolves the category by exact name and returns the products
// in its list, preserving list order.
func (s *productService) ListByCategory(ctx context.Context, categoryName string) ([]domain.Product, error) {
	category, err := s.categoryRepo.FindByName(ctx, categoryName)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, httperr.NotFound("there is no products with this category")
		}
		return nil, httperr.Internal("Something went wrong, could not find the category.")
	}

	if len(category.Products) == 0 {
		return nil, httperr.NotFound("there is no products with this category")
	}

	products, err := s.productRepo.FindByIDs(ctx, category.Products)
	if err != nil {
		return nil, httperr.Internal("Something went wrong, could not find the category.")
	}
	if len(products) == 0 {
		return nil, httperr.NotFound("there is no products with this category")
	}
	return products, nil
}

// GetByID returns a single product. An absent product is 404.
func (s *productService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, httperr.NotFound("there is no product whith this id.")
	}

	product, err := s.productRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, httperr.NotFound("there is no product whith this id.")
		}
		return nil, httperr.Internal("Something went wrong, could not find the product.")
	}
	return product, nil
}

// Create resolves the category and the creator, then persists the product and
// the category's product-list entry in one transaction.
func (s *productService) Create(ctx context.Context, in CreateProductInput, creatorID string, imagePath string) (*domain.Product, error) {
	category, err := s.categoryRepo.FindByName(ctx, in.ProductCategory)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, httperr.NotFound("category not found.")
		}
		return nil, httperr.Internal("Something went wrong, could not find category.")
	}

	creator, err := primitive.ObjectIDFromHex(creatorID)
	if err != nil {
		return nil, httperr.NotFound("user not found.")
	}
	if _, err := s.userRepo.FindByID(ctx, creator); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, httperr.NotFound("user not found.")
		}
		return nil, httperr.Internal("Something went wrong, could not find user.")
	}

	product := &domain.Product{
		ProductName:     in.ProductName,
		ProductCategory: in.ProductCategory,
		Description:     in.Description,
		Price:           in.Price,
		OnStock:         in.OnStock,
		Size:            in.Size,
		BestDesplay:     in.BestDesplay,
		CreationDate:    domain.FormatDate(time.Now()),
		Image:           imagePath,
		Creator:         creator,
	}

	if err := s.productRepo.CreateInCategory(ctx, product, category.ID); err != nil {
		return nil, httperr.Internal("Something went wrong, could not save the data.")
	}
	return product, nil
}

// Update overwrites the mutable fields and the image path of an existing
// product and reports the previous image path so the caller can clean it up
// after the save has committed.
func (s *productService) Update(ctx context.Context, id string, in UpdateProductInput, imagePath string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", httperr.NotFound("there is no product whith this id.")
	}

	product, err := s.productRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return "", httperr.NotFound("there is no product whith this id.")
		}
		return "", httperr.Internal("Something went wrong, could not find the product.")
	}

	oldImagePath := product.Image
	product.ProductName = in.ProductName
	product.Description = in.Description
	product.Price = in.Price
	product.OnStock = in.OnStock
	product.Size = in.Size
	product.BestDesplay = in.BestDesplay
	product.Image = imagePath

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return "", httperr.NotFound("there is no product whith this id.")
		}
		return "", httperr.Internal("Something went wrong, could not update product.")
	}
	return oldImagePath, nil
}

// Delete removes a product and reports its image path for best-effort file
// cleanup. The category's product list is intentionally left untouched,
// matching the established behavior.
func (s *productService) Delete(ctx context.Context, id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", httperr.NotFound("there is no product whith this id.")
	}

	product, err := s.productRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return "", httperr.NotFound("there is no product whith this id.")
		}
		return "", httperr.Internal("Something went wrong, could not find the product.")
	}

	if err := s.productRepo.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return "", httperr.NotFound("there is no product whith this id.")
		}
		return "", httperr.Internal("Something went wrong, could not delete product.")
	}
	return product.Image, nil
}
