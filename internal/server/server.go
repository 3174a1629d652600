package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"craftmarket/internal/config"
	"craftmarket/internal/database"
	custommiddleware "craftmarket/internal/middleware"
	"craftmarket/internal/repository"
	"craftmarket/internal/service"
	"craftmarket/internal/transport"
	"craftmarket/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	client *mongo.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, client *mongo.Client, db *mongo.Database, uploads *upload.Store) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware())
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, database.Health(r.Context(), client))
	})

	// Uploaded images are served directly from disk
	router.Handle("/uploads/images/*", http.StripPrefix("/uploads/images/",
		http.FileServer(http.Dir(cfg.Upload.Dir))))

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	productService := service.NewProductService(productRepo, categoryRepo, userRepo)
	orderService := service.NewOrderService(orderRepo, productRepo)
	userService := service.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, uploads, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	categoryHandler := transport.NewCategoryHandler(categoryRepo, logger)
	userHandler := transport.NewUserHandler(userService, logger)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	// Register routes
	productHandler.RegisterRoutes(router, authMiddleware)
	orderHandler.RegisterRoutes(router)
	categoryHandler.RegisterRoutes(router, authMiddleware)
	userHandler.RegisterRoutes(router)

	// Unmatched routes get the fixed not-found message
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusNotFound, "Could not find this route.")
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		client: client,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.client.Disconnect(ctx); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
