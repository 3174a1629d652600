package service

import (
	"context"
	"errors"

	"craftmarket/internal/domain"
	"craftmarket/internal/httperr"
	"craftmarket/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateOrderInput carries the validated fields for a new order.
type CreateOrderInput struct {
	UserName        string
	UserEmail       string
	UserPhoneNumber string
	UserAdress      string
	ProductsIds     []string
}

// OrderService implements order operations. The order price is a snapshot of
// the referenced products' prices at creation time; it is never recomputed.
type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateState(ctx context.Context, id string, state string) error
	Delete(ctx context.Context, id string) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{orderRepo: orderRepo, productRepo: productRepo}
}

// Create resolves every referenced product, sums their current prices into
// the snapshot, and persists the order. The per-product lookups and the final
// save are deliberately not one transaction: the lookups are read-only, so a
// failure mid-loop leaves nothing to roll back.
func (s *orderService) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	var price float64
	productIDs := make([]primitive.ObjectID, 0, len(in.ProductsIds))

	for _, id := range in.ProductsIds {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, httperr.NotFound("product not found.")
		}

		product, err := s.productRepo.FindByID(ctx, oid)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, httperr.NotFound("product not found.")
			}
			return nil, httperr.Internal("Something went wrong, could not find product.")
		}

		price += product.Price
		productIDs = append(productIDs, oid)
	}

	order := &domain.Order{
		UserName:        in.UserName,
		UserEmail:       in.UserEmail,
		UserPhoneNumber: in.UserPhoneNumber,
		UserAdress:      in.UserAdress,
		ProductsIds:     productIDs,
		Price:           price,
		OrderState:      domain.DefaultOrderState,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, httperr.Internal("Something went wrong, could not save the data.")
	}
	return order, nil
}

// ListAll returns every order; an empty collection is 404 like the product
// listings.
func (s *orderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, httperr.Internal("Something went wrong, could not find the orders.")
	}
	if len(orders) == 0 {
		return nil, httperr.NotFound("there is no orders")
	}
	return orders, nil
}

// GetByID returns a single order; absent orders are 404.
func (s *orderService) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, httperr.NotFound("there is no order whith this id.")
	}

	order, err := s.orderRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, httperr.NotFound("there is no order whith this id.")
		}
		return nil, httperr.Internal("something went wrong, could not find the order")
	}
	return order, nil
}

// UpdateState overwrites the order's state after confirming it exists.
func (s *orderService) UpdateState(ctx context.Context, id string, state string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return httperr.NotFound("could not find the order")
	}

	if _, err := s.orderRepo.FindByID(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return httperr.NotFound("could not find the order")
		}
		return httperr.Internal("Something went wrong, could not find the order.")
	}

	if err := s.orderRepo.UpdateState(ctx, oid, state); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return httperr.NotFound("could not find the order")
		}
		return httperr.Internal("Something went wrong, could not save the Order.")
	}
	return nil
}

// Delete removes an order after confirming it exists.
func (s *orderService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return httperr.NotFound("could not find the order")
	}

	if err := s.orderRepo.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return httperr.NotFound("could not find the order")
		}
		return httperr.Internal("Something went wrong, could not delete order.")
	}
	return nil
}
