package transport

import (
	"errors"
	"net/http"

	"craftmarket/internal/domain"
	"craftmarket/internal/httperr"
	"craftmarket/internal/middleware"
	"craftmarket/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateCategoryRequest is the JSON payload for creating a category.
type CreateCategoryRequest struct {
	CategoryName string `json:"categoryName" validate:"required"`
}

// CategoryHandler is a thin passthrough over the category repository.
type CategoryHandler struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryRepo repository.CategoryRepository, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo, logger: logger}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/category", func(r chi.Router) {
		r.Get("/", h.GetAll)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
		})
	})
}

// GetAll handles listing every category.
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.List(r.Context())
	if err != nil {
		middleware.RenderError(w, httperr.Internal("Something went wrong, could not find the categories."))
		return
	}
	if len(categories) == 0 {
		middleware.RenderError(w, httperr.NotFound("there is no categories"))
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// Create handles category creation; names are unique.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Category validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, invalidInputMessage)
		return
	}

	category := &domain.Category{CategoryName: req.CategoryName}
	if err := h.categoryRepo.Create(r.Context(), category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "Category exists already.")
			return
		}
		middleware.RenderError(w, httperr.Internal("Something went wrong, could not save the category."))
		return
	}

	h.logger.Info("Category created", zap.String("category", category.CategoryName))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"category": category})
}
