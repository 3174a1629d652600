package transport

import (
	"net/http"

	"craftmarket/internal/middleware"
	"craftmarket/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SignupRequest is the JSON payload for account creation.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the JSON payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the identity and token returned by signup and login.
type AuthResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
	})
}

// Signup handles account creation.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Signup validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, invalidInputMessage)
		return
	}

	user, token, err := h.userService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		middleware.RenderError(w, err)
		return
	}

	h.logger.Info("User signed up", zap.String("user_id", user.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusCreated, AuthResponse{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Token:  token,
	})
}

// Login handles authentication.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, invalidInputMessage)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.RenderError(w, err)
		return
	}

	h.logger.Info("User logged in", zap.String("user_id", user.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusOK, AuthResponse{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Token:  token,
	})
}
