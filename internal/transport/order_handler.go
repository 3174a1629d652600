package transport

import (
	"net/http"

	"craftmarket/internal/middleware"
	"craftmarket/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateOrderRequest is the JSON payload for placing an order.
type CreateOrderRequest struct {
	UserName        string   `json:"userName" validate:"required"`
	UserEmail       string   `json:"userEmail" validate:"required,email"`
	UserPhoneNumber string   `json:"userPhoneNumber" validate:"required"`
	UserAdress      string   `json:"userAdress" validate:"required"`
	ProductsIds     []string `json:"productsIds" validate:"required,min=1,dive,required"`
}

// UpdateOrderStateRequest is the JSON payload for changing an order's state.
type UpdateOrderStateRequest struct {
	OrderState string `json:"orderState" validate:"required"`
}

// OrderHandler handles HTTP requests for order operations. Order endpoints
// are public: customers place orders without an account.
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, logger: logger}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Get("/{id}", h.GetByID)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.UpdateState)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles order placement with the snapshot price.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, invalidInputMessage)
		return
	}

	order, err := h.orderService.Create(r.Context(), service.CreateOrderInput{
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
		UserPhoneNumber: req.UserPhoneNumber,
		UserAdress:      req.UserAdress,
		ProductsIds:     req.ProductsIds,
	})
	if err != nil {
		middleware.RenderError(w, err)
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.Float64("price", order.Price),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"order": order})
}

// GetAll handles listing every order.
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListAll(r.Context())
	if err != nil {
		middleware.RenderError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetByID handles fetching a single order.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RenderError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}

// UpdateState handles overwriting an order's state.
func (h *OrderHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStateRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order state validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, invalidInputMessage)
		return
	}

	if err := h.orderService.UpdateState(r.Context(), chi.URLParam(r, "id"), req.OrderState); err != nil {
		middleware.RenderError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "state updated"})
}

// Delete handles order removal.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orderService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		middleware.RenderError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}
