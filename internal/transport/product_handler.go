package transport

import (
	"net/http"
	"strconv"

	"craftmarket/internal/middleware"
	"craftmarket/internal/service"
	"craftmarket/internal/upload"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	invalidInputMessage = "Invalid inputs passed, please check your data."
	maxUploadBytes      = 10 << 20
)

// productFormRequest is the multipart form shape for create and update.
type productFormRequest struct {
	ProductName     string  `validate:"required"`
	ProductCategory string  `validate:"required"`
	Description     string  `validate:"required"`
	Price           float64 `validate:"gt=0"`
	OnStock         int     `validate:"gte=0"`
	Size            string  `validate:"required"`
	BestDesplay     bool
}

// ProductHandler handles HTTP requests for catalog operations.
type ProductHandler struct {
	productService service.ProductService
	uploads        *upload.Store
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, uploads *upload.Store, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		uploads:        uploads,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.GetAll)
		r.Get("/best", h.GetBest)
		r.Get("/new", h.GetNew)
		r.Get("/category/{category}", h.GetByCategory)
		r.Get("/{id}", h.GetByID)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// GetAll handles listing the whole catalog.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListAll(r.Context())
	if err != nil {
		middleware.RenderError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// GetBest handles listing best-display products.
func (h *ProductHandler) GetBest(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListBest(r.Context())
	if err != nil {
		middleware.RenderError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"bestProducts": products})
}

// GetNew handles listing recently created products.
func (h *ProductHandler) GetNew(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListNew(r.Context())
	if err != nil {
		middleware.RenderError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"newProducts": products})
}

// GetByCategory handles listing the products linked to a category.
func (h *ProductHandler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		middleware.RenderError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// GetByID handles fetching a single product.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RenderError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// Create handles product creation: validate, stage the image, delegate to the
// service, and only commit the staged file once the write succeeded.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "Authentication failed!")
		return
	}

	form, err := h.parseProductForm(r, true)
	if err != nil {
		h.logger.Debug("Product form validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, invalidInputMessage)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.logger.Debug("Product image missing", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, invalidInputMessage)
		return
	}
	defer file.Close()

	staged, err := h.uploads.Stage(file, header.Filename)
	if err != nil {
		h.logger.Error("Failed to stage product image", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Something went wrong, could not save the data.")
		return
	}
	defer staged.Discard()

	product, err := h.productService.Create(r.Context(), service.CreateProductInput{
		ProductName:     form.ProductName,
		ProductCategory: form.ProductCategory,
		Description:     form.Description,
		Price:           form.Price,
		OnStock:         form.OnStock,
		Size:            form.Size,
		BestDesplay:     form.BestDesplay,
	}, userID, staged.Path())
	if err != nil {
		middleware.RenderError(w, err)
		return
	}

	staged.Commit()
	h.logger.Info("Product created",
		zap.String("product_id", product.ID.Hex()),
		zap.String("creator", userID),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"product": product})
}

// Update handles product updates. The replacement image is staged first; the
// old file is unlinked only after the database save commits.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseProductForm(r, false)
	if err != nil {
		h.logger.Debug("Product form validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, invalidInputMessage)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.logger.Debug("Product image missing", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, invalidInputMessage)
		return
	}
	defer file.Close()

	staged, err := h.uploads.Stage(file, header.Filename)
	if err != nil {
		h.logger.Error("Failed to stage product image", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Something went wrong, could not update product.")
		return
	}
	defer staged.Discard()

	oldImage, err := h.productService.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateProductInput{
		ProductName: form.ProductName,
		Description: form.Description,
		Price:       form.Price,
		OnStock:     form.OnStock,
		Size:        form.Size,
		BestDesplay: form.BestDesplay,
	}, staged.Path())
	if err != nil {
		middleware.RenderError(w, err)
		return
	}

	staged.Commit()
	if oldImage != staged.Path() {
		h.uploads.Remove(oldImage)
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product updated"})
}

// Delete handles product removal; the image file is unlinked best-effort
// after the document is gone.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	imagePath, err := h.productService.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RenderError(w, err)
		return
	}

	h.uploads.Remove(imagePath)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "deleted product"})
}

// parseProductForm reads and validates the multipart form fields shared by
// create and update. The category field is only required on create.
func (h *ProductHandler) parseProductForm(r *http.Request, requireCategory bool) (*productFormRequest, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, err
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		return nil, err
	}

	onStock, err := strconv.Atoi(r.FormValue("onStock"))
	if err != nil {
		return nil, err
	}

	bestDesplay := false
	if v := r.FormValue("bestDesplay"); v != "" {
		bestDesplay, err = strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
	}

	form := &productFormRequest{
		ProductName:     r.FormValue("productName"),
		ProductCategory: r.FormValue("productCategory"),
		Description:     r.FormValue("description"),
		Price:           price,
		OnStock:         onStock,
		Size:            r.FormValue("size"),
		BestDesplay:     bestDesplay,
	}
	if !requireCategory && form.ProductCategory == "" {
		// updates leave the category untouched, keep validation happy
		form.ProductCategory = "-"
	}

	if err := middleware.ValidateRequest(form); err != nil {
		return nil, err
	}
	return form, nil
}
