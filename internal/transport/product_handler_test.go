package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"craftmarket/internal/domain"
	"craftmarket/internal/httperr"
	"craftmarket/internal/middleware"
	"craftmarket/internal/service"
	"craftmarket/internal/upload"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type mockProductService struct {
	createErr    error
	created      *domain.Product
	deleteImage  string
	updateOldImg string
	lastImage    string
}

func (m *mockProductService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return nil, httperr.NotFound("there is no products")
}

func (m *mockProductService) ListBest(ctx context.Context) ([]domain.Product, error) {
	return nil, httperr.NotFound("there is no best products")
}

func (m *mockProductService) ListNew(ctx context.Context) ([]domain.Product, error) {
	return []domain.Product{}, nil
}

func (m *mockProductService) ListByCategory(ctx context.Context, categoryName string) ([]domain.Product, error) {
	return nil, httperr.NotFound("there is no products with this category")
}

func (m *mockProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return nil, httperr.NotFound("there is no product whith this id.")
}

func (m *mockProductService) Create(ctx context.Context, in service.CreateProductInput, creatorID string, imagePath string) (*domain.Product, error) {
	m.lastImage = imagePath
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = &domain.Product{
		ID:              primitive.NewObjectID(),
		ProductName:     in.ProductName,
		ProductCategory: in.ProductCategory,
		Description:     in.Description,
		Price:           in.Price,
		OnStock:         in.OnStock,
		Size:            in.Size,
		BestDesplay:     in.BestDesplay,
		Image:           imagePath,
	}
	return m.created, nil
}

func (m *mockProductService) Update(ctx context.Context, id string, in service.UpdateProductInput, imagePath string) (string, error) {
	m.lastImage = imagePath
	return m.updateOldImg, nil
}

func (m *mockProductService) Delete(ctx context.Context, id string) (string, error) {
	return m.deleteImage, nil
}

// injectUser stands in for the auth guard in handler tests.
func injectUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newProductRouter(t *testing.T, svc service.ProductService) (chi.Router, *upload.Store) {
	t.Helper()
	uploads, err := upload.NewStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create upload store: %v", err)
	}
	handler := NewProductHandler(svc, uploads, zap.NewNop())
	r := chi.NewRouter()
	handler.RegisterRoutes(r, injectUser(primitive.NewObjectID().Hex()))
	return r, uploads
}

func productForm(t *testing.T, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"productName":     "clogs",
		"productCategory": "shoes",
		"description":     "hand carved",
		"price":           "25.50",
		"onStock":         "3",
		"size":            "42",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withImage {
		part, err := writer.CreateFormFile("image", "clogs.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.WriteString(part, "png-bytes"); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	writer.Close()
	return &body, writer.FormDataContentType()
}

func TestCreateProductWithoutImageIsUnprocessable(t *testing.T) {
	svc := &mockProductService{}
	r, _ := newProductRouter(t, svc)

	body, contentType := productForm(t, false)
	req := httptest.NewRequest(http.MethodPost, "/api/products/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["message"] != invalidInputMessage {
		t.Errorf("unexpected message: %q", resp["message"])
	}
}

func TestCreateProductCommitsStagedImage(t *testing.T) {
	svc := &mockProductService{}
	r, _ := newProductRouter(t, svc)

	body, contentType := productForm(t, true)
	req := httptest.NewRequest(http.MethodPost, "/api/products/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(svc.lastImage); err != nil {
		t.Errorf("committed image should exist on disk: %v", err)
	}

	var resp map[string]domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["product"].ProductName != "clogs" {
		t.Errorf("unexpected product payload: %+v", resp["product"])
	}
}

func TestCreateProductDiscardsImageOnServiceFailure(t *testing.T) {
	svc := &mockProductService{createErr: httperr.NotFound("category not found.")}
	r, _ := newProductRouter(t, svc)

	body, contentType := productForm(t, true)
	req := httptest.NewRequest(http.MethodPost, "/api/products/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if _, err := os.Stat(svc.lastImage); !os.IsNotExist(err) {
		t.Error("staged image should be removed when the service rejects the create")
	}
}

func TestUpdateProductRemovesOldImage(t *testing.T) {
	svc := &mockProductService{}
	r, uploads := newProductRouter(t, svc)

	old, err := uploads.Stage(bytes.NewReader([]byte("old")), "old.png")
	if err != nil {
		t.Fatalf("stage old image: %v", err)
	}
	old.Commit()
	svc.updateOldImg = old.Path()

	body, contentType := productForm(t, true)
	req := httptest.NewRequest(http.MethodPatch, "/api/products/"+primitive.NewObjectID().Hex(), body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(old.Path()); !os.IsNotExist(err) {
		t.Error("replaced image should be removed after a successful update")
	}
	if _, err := os.Stat(svc.lastImage); err != nil {
		t.Errorf("new image should be committed: %v", err)
	}
}

func TestDeleteProductRemovesImageFile(t *testing.T) {
	svc := &mockProductService{}
	r, uploads := newProductRouter(t, svc)

	staged, err := uploads.Stage(bytes.NewReader([]byte("x")), "gone.png")
	if err != nil {
		t.Fatalf("stage image: %v", err)
	}
	staged.Commit()
	svc.deleteImage = staged.Path()

	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+primitive.NewObjectID().Hex(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := os.Stat(staged.Path()); !os.IsNotExist(err) {
		t.Error("image file should be unlinked after delete")
	}
}

func TestGetAllEmptyCatalogRendersNotFound(t *testing.T) {
	r, _ := newProductRouter(t, &mockProductService{})

	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["message"] != "there is no products" {
		t.Errorf("unexpected message: %q", resp["message"])
	}
}
