package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/rafaelleal24/sales/docs"
	"github.com/rafaelleal24/sales/internal/adapters/config"
	"github.com/rafaelleal24/sales/internal/adapters/http"
	"github.com/rafaelleal24/sales/internal/adapters/http/controllers"
	"github.com/rafaelleal24/sales/internal/adapters/mongo"
	"github.com/rafaelleal24/sales/internal/adapters/mongo/repository"
	"github.com/rafaelleal24/sales/internal/adapters/outbox"
	"github.com/rafaelleal24/sales/internal/adapters/rabbitmq"
	"github.com/rafaelleal24/sales/internal/adapters/redis"
	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/service"
)

const healthCheckTimeout = 2 * time.Second

// @title       Sales API
// @version     1.0
// @description Customers, products and orders with stock reconciliation

// @host     localhost:8080
// @BasePath /

//go:generate swag init -d ../.. -g cmd/http/main.go -o ../../docs --parseInternal

func main() {
	// initialize config and logger
	cfg := config.NewConfig()
	err := logger.Initialize(logger.Options{
		CollectorEndpoint: cfg.Logger.Endpoint,
		ServiceName:       cfg.Logger.ServiceName,
		Production:        cfg.Logger.IsProduction,
		Level:             logger.ParseLevel(cfg.Logger.Level),
	})
	if err != nil {
		// logger not available yet, fall back to stderr
		fmt.Fprintln(os.Stderr, "failed to initialize logger: "+err.Error())
		os.Exit(1)
	}

	// cancelled on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mongoClient, err := mongo.NewConnection(cfg.Mongo)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to MongoDB", err, nil)
	}
	defer mongo.Disconnect(mongoClient)
	logger.Info(ctx, "Connected to MongoDB", map[string]any{"database": cfg.Mongo.Database})

	redisClient, err := redis.NewConnection(cfg.Redis)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to Redis", err, nil)
	}
	defer redisClient.Close()
	logger.Info(ctx, "Connected to Redis", nil)

	broker, err := rabbitmq.NewPublisher(cfg.RabbitMQ, cfg.Logger.ServiceName)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to RabbitMQ", err, nil)
	}
	defer broker.Close()
	logger.Info(ctx, "Connected to RabbitMQ", nil)

	// repositories
	database := mongoClient.Database(cfg.Mongo.Database)
	customerRepository := repository.NewCustomerRepository(database)
	productRepository := repository.NewProductRepository(database)
	outboxRepository := repository.NewOutboxRepository(database)
	orderRepository := repository.NewOrderRepository(database, outboxRepository)
	txManager := mongo.NewTransactionManager(mongoClient)

	// caches and rate limiter
	orderCache := redis.NewCache[domain.Order](redisClient, "order-cache")
	idempotencyCache := redis.NewCache[service.IdempotencyEntry[domain.Order]](redisClient, "idempotency-cache")
	rateLimiter := redis.NewRateLimiter(redisClient)

	outboxHandler := outbox.NewHandler(outboxRepository, broker, cfg.Outbox)
	go outboxHandler.Start(ctx)
	logger.Info(ctx, "Outbox handler started", map[string]any{"interval": cfg.Outbox.Interval.String(), "batch_size": cfg.Outbox.BatchSize})

	// services
	customerService := service.NewCustomerService(customerRepository)
	productService := service.NewProductService(productRepository)
	idempotencyService := service.NewIdempotencyService(
		idempotencyCache,
		cfg.Order.IdempotencyTTL,
		cfg.Order.IdempotencyPollEvery,
		cfg.Order.IdempotencyPollTimeout,
	)
	orderService := service.NewOrderService(
		orderRepository,
		productService,
		customerService,
		orderCache,
		idempotencyService,
		txManager,
		service.OrderSettings{MaxItems: cfg.Order.MaxItems, CacheTTL: cfg.Order.CacheTTL},
	)

	// controllers
	orderController := controllers.NewOrderController(orderService)
	productController := controllers.NewProductController(productService)
	customerController := controllers.NewCustomerController(customerService, orderService)
	healthController := controllers.NewHealthController(healthCheckTimeout,
		controllers.HealthChecker{Name: "mongodb", Check: mongo.HealthCheck(mongoClient)},
		controllers.HealthChecker{Name: "redis", Check: redisClient.Ping},
		controllers.HealthChecker{Name: "rabbitmq", Check: broker.HealthCheck},
	)

	router := http.NewRouter(healthController, orderController, productController, customerController, rateLimiter, cfg.RateLimit)

	err = router.ListenAndServe(ctx, cfg.HTTP)
	if err != nil {
		logger.Fatal(ctx, "Failed to start HTTP server", err, nil)
	}
	logger.Info(context.Background(), "HTTP server stopped", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := logger.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintln(os.Stderr, "logger shutdown error: "+err.Error())
	}
}
