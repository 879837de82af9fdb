package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/sales/internal/adapters/config"
	"github.com/rafaelleal24/sales/internal/adapters/http/controllers"
	"github.com/rafaelleal24/sales/internal/adapters/http/middleware"
	"github.com/rafaelleal24/sales/internal/core/logger"
)

type Router struct {
	healthController   *controllers.HealthController
	orderController    *controllers.OrderController
	productController  *controllers.ProductController
	customerController *controllers.CustomerController
	rateLimiter        middleware.RateLimiter
	rateLimit          config.RateLimitConfig
}

func NewRouter(
	healthController *controllers.HealthController,
	orderController *controllers.OrderController,
	productController *controllers.ProductController,
	customerController *controllers.CustomerController,
	rateLimiter middleware.RateLimiter,
	rateLimit config.RateLimitConfig,
) *Router {
	return &Router{
		healthController:   healthController,
		orderController:    orderController,
		productController:  productController,
		customerController: customerController,
		rateLimiter:        rateLimiter,
		rateLimit:          rateLimit,
	}
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	router.Use(middleware.RequestID())

	apiGroup := router.Group("/api")
	v1Group := apiGroup.Group("/v1")
	{
		v1Group.Use(middleware.LogRequest())
		v1Group.GET("/health", r.healthController.Health)
		v1Group.GET("/docs/doc.json", controllers.Docs)

		createOrderLimit := middleware.RateLimit(r.rateLimiter, r.rateLimit.CreateOrderLimit, r.rateLimit.CreateOrderWindow)
		v1Group.POST("/orders", createOrderLimit, r.orderController.CreateOrder)
		v1Group.GET("/orders/:id", r.orderController.GetOrderByID)

		v1Group.POST("/products", r.productController.CreateProduct)
		v1Group.GET("/products", r.productController.GetAll)
		v1Group.GET("/products/:id", r.productController.GetProductByID)

		v1Group.POST("/customers", r.customerController.CreateCustomer)
		v1Group.GET("/customers/:id", r.customerController.GetCustomer)
		v1Group.GET("/customers/:id/orders", r.customerController.GetCustomerOrders)
	}
}

// Handler builds the engine without starting a listener.
func (r *Router) Handler() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery())
	r.SetupRoutes(engine)
	return engine
}

func (r *Router) ListenAndServe(ctx context.Context, config config.HTTPConfig) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", config.BindInterface, config.Port),
		Handler: r.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(context.Background(), "http: graceful shutdown failed", err, nil)
		}
	}()

	logger.Info(ctx, "http: listening", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
