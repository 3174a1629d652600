package service

import (
	"context"
	"errors"

	"craftmarket/internal/domain"
	"craftmarket/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository doubles shared by the service tests.

type mockProductRepository struct {
	products  map[primitive.ObjectID]*domain.Product
	findErr   error
	createErr error
	updateErr error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[primitive.ObjectID]*domain.Product)}
}

func (m *mockProductRepository) CreateInCategory(ctx context.Context, product *domain.Product, categoryID primitive.ObjectID) error {
	if m.createErr != nil {
		return m.createErr
	}
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domain.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domain.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepository) FindBest(ctx context.Context) ([]domain.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domain.Product
	for _, p := range m.products {
		if p.BestDesplay {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) FindCreatedSince(ctx context.Context, date string) ([]domain.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domain.Product
	for _, p := range m.products {
		if p.CreationDate >= date {
			out = append(out, *p)
		}
	}
	return out, nil
}

type mockCategoryRepository struct {
	categories map[string]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[string]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.CategoryName]; ok {
		return repository.ErrCategoryAlreadyExists
	}
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	m.categories[category.CategoryName] = category
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	category, ok := m.categories[name]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

type mockUserRepository struct {
	users map[primitive.ObjectID]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[primitive.ObjectID]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

type mockOrderRepository struct {
	orders    map[primitive.ObjectID]*domain.Order
	createErr error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[primitive.ObjectID]*domain.Order)}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepository) UpdateState(ctx context.Context, id primitive.ObjectID, state string) error {
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.OrderState = state
	return nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

var errStoreDown = errors.New("store down")
