package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketbay/shopfront/pkg/cache"
	"github.com/marketbay/shopfront/pkg/database"
	middleware "github.com/marketbay/shopfront/pkg/middlewares"
	"github.com/marketbay/shopfront/pkg/repositories"
	"github.com/marketbay/shopfront/services/admin-api/configs"
	"github.com/marketbay/shopfront/services/admin-api/internal/handlers"
	"github.com/marketbay/shopfront/services/admin-api/internal/services"
	"go.uber.org/zap"
)

// NewApp wires dependencies, builds the Gin engine, and returns an *http.Server and a cleanup func.
// It reads configuration from environment variables via configs.Load.
func NewApp(ctx context.Context, logger *zap.Logger) (*http.Server, func(), error) {
	// Load config
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, nil, err
	}

	// Initialize postgres db
	dbConfig := database.Config{
		PrimaryDSN:  cfg.PrimaryDbAddr,
		ReplicaDSNs: []string{cfg.ReplicaDbAddr},
		MaxConns:    cfg.MaxDbCons,
		MinConns:    cfg.MinDbCons,
	}
	db, disconnect, err := database.New(ctx, logger, dbConfig)
	if err != nil {
		return nil, nil, err
	}

	// Run migrations on primary
	if err := database.RunMigrations(logger, cfg.PrimaryDbAddr); err != nil {
		disconnect()
		return nil, nil, err
	}

	// Redis is shared with storefront-api for banner cache invalidation.
	redisClient, redisCloser, err := cache.New(ctx, cache.Config{
		Addr: cfg.RedisAddr,
	})
	if err != nil {
		disconnect()
		return nil, nil, err
	}

	// Repositories
	orderRepo := repositories.NewOrderRepository(db)
	productRepo := repositories.NewProductRepository(db)
	userRepo := repositories.NewUserRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	feedbackRepo := repositories.NewFeedbackRepository(db)

	// Services
	catalogService := services.NewCatalogAdminService(logger, productRepo, catalogRepo, redisClient)
	orderService := services.NewOrderAdminService(logger, db, orderRepo)
	moderationService := services.NewModerationService(logger, userRepo, feedbackRepo)

	// Handlers
	baseHandler := handlers.NewBaseHandler(logger)
	catalogHandler := handlers.NewCatalogAdminHandler(logger, catalogService)
	orderHandler := handlers.NewOrderAdminHandler(logger, orderService)
	moderationHandler := handlers.NewModerationHandler(logger, moderationService)

	// Router
	r := gin.Default()

	api := r.Group("/api/v1/admin")
	api.Use(middleware.TraceID(logger))
	api.Use(middleware.Metrics())

	catalogHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	moderationHandler.RegisterRoutes(api)
	baseHandler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	cleanup := func() {
		redisCloser()
		disconnect()
	}

	return srv, cleanup, nil
}
