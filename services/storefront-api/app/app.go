package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/cache"
	"github.com/marketbay/shopfront/pkg/database"
	middleware "github.com/marketbay/shopfront/pkg/middlewares"
	"github.com/marketbay/shopfront/pkg/repositories"
	"github.com/marketbay/shopfront/services/storefront-api/configs"
	"github.com/marketbay/shopfront/services/storefront-api/internal/handlers"
	"github.com/marketbay/shopfront/services/storefront-api/internal/services"
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

	// Redis backs the banner cache, webhook dedup, and the rate limiter
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

	// Payment-event pipeline: webhook -> kafka -> per-instance consumer ->
	// relay + mail notify. The relay is process-local, so each replica joins
	// its own consumer group and sees every event.
	publisher := services.NewPaymentEventPublisher(logger, ctx, cfg)
	relay := services.NewRelay(logger, cfg.PaymentWaitTTL)
	mailer := services.NewMailer(logger, cfg)
	consumer := services.NewPaymentEventConsumer(services.PaymentEventConsumerConfig{
		Context: ctx,
		Logger:  logger,
		Config:  cfg,
		GroupID: fmt.Sprintf("storefront-relay-%s", uuid.New().String()),
		Relay:   relay,
		Mailer:  mailer,
	})
	closeConsumer := consumer.Start()

	// Services
	orderService := services.NewOrderService(logger, db, orderRepo, productRepo, userRepo)
	webhookService := services.NewWebhookService(logger, cfg, db, orderRepo, userRepo, publisher, redisClient)
	catalogService := services.NewCatalogService(logger, cfg, productRepo, catalogRepo, redisClient)
	accountService := services.NewAccountService(logger, userRepo)
	feedbackService := services.NewFeedbackService(logger, feedbackRepo)

	webhookLimiter := pkg.NewDistributedLimiter(redisClient, "global:webhook_rate",
		cfg.WebhookRateLimit, cfg.WebhookRateBurst, time.Second, logger)

	// Handlers
	baseHandler := handlers.NewBaseHandler(logger)
	orderHandler := handlers.NewOrderHandler(logger, orderService)
	catalogHandler := handlers.NewCatalogHandler(logger, catalogService)
	accountHandler := handlers.NewAccountHandler(logger, accountService)
	feedbackHandler := handlers.NewFeedbackHandler(logger, feedbackService)
	paymentHandler := handlers.NewPaymentHandler(logger, webhookService, relay, webhookLimiter, cfg.PaymentWaitTTL)

	// Router
	r := gin.Default()

	api := r.Group("/api/v1")
	api.Use(middleware.TraceID(logger))
	api.Use(middleware.Metrics())

	orderHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api)
	accountHandler.RegisterRoutes(api)
	feedbackHandler.RegisterRoutes(api)
	paymentHandler.RegisterRoutes(api)
	baseHandler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	cleanup := func() {
		closeConsumer()
		relay.Close()
		publisher.Close()
		redisCloser()
		disconnect()
	}

	return srv, cleanup, nil
}
