package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rafaelleal24/sales/internal/adapters/config"
	httpadapter "github.com/rafaelleal24/sales/internal/adapters/http"
	"github.com/rafaelleal24/sales/internal/adapters/http/controllers"
	"github.com/rafaelleal24/sales/internal/adapters/http/handlers"
	"github.com/rafaelleal24/sales/internal/adapters/http/middleware"
	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/dto"
	"github.com/rafaelleal24/sales/internal/core/port/mock"
	"github.com/rafaelleal24/sales/internal/core/service"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
)

const (
	customerID = "65f1c0ffee0000000000c001"
	productA   = "65f1c0ffee0000000000a001"
	productB   = "65f1c0ffee0000000000b001"
	orderID    = "65f1c0ffee0000000000d001"
)

type stubLimiter struct {
	decision middleware.Decision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (middleware.Decision, error) {
	s.keys = append(s.keys, key)
	d := s.decision
	d.Limit = limit
	return d, s.err
}

type api struct {
	handler   http.Handler
	orders    *mock.MockOrderPort
	products  *mock.MockProductPort
	customers *mock.MockCustomerPort
	cache     *mock.MockCachePort[domain.Order]
	idem      *mock.MockCachePort[service.IdempotencyEntry[domain.Order]]
	tx        *mock.MockTransactionManager
	limiter   *stubLimiter
}

func newAPI(t *testing.T) *api {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	a := &api{
		orders:    mock.NewMockOrderPort(ctrl),
		products:  mock.NewMockProductPort(ctrl),
		customers: mock.NewMockCustomerPort(ctrl),
		cache:     mock.NewMockCachePort[domain.Order](ctrl),
		idem:      mock.NewMockCachePort[service.IdempotencyEntry[domain.Order]](ctrl),
		tx:        mock.NewMockTransactionManager(ctrl),
		limiter:   &stubLimiter{decision: middleware.Decision{Allowed: true, Remaining: 29}},
	}

	productService := service.NewProductService(a.products)
	customerService := service.NewCustomerService(a.customers)
	orderService := service.NewOrderService(
		a.orders,
		productService,
		customerService,
		a.cache,
		service.NewIdempotencyService[domain.Order](a.idem, time.Hour, 10*time.Millisecond, 100*time.Millisecond),
		a.tx,
		service.DefaultOrderSettings(),
	)

	router := httpadapter.NewRouter(
		controllers.NewHealthController(time.Second, controllers.HealthChecker{
			Name:  "mongodb",
			Check: func(context.Context) error { return nil },
		}),
		controllers.NewOrderController(orderService),
		controllers.NewProductController(productService),
		controllers.NewCustomerController(customerService, orderService),
		a.limiter,
		config.RateLimitConfig{CreateOrderLimit: 30, CreateOrderWindow: time.Minute},
	)
	a.handler = router.Handler()
	return a
}

func (a *api) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (a *api) expectCustomer() {
	a.customers.EXPECT().FindByID(gomock.Any(), domain.ID(customerID)).Return(&domain.Customer{
		ID: customerID, Name: "Ada", Email: "ada@example.com",
	}, nil)
}

func (a *api) expectPersist() {
	a.tx.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
	a.products.EXPECT().UpdateQuantity(gomock.Any(), gomock.Any()).Return(nil)
	a.orders.EXPECT().CreateWithOutbox(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, order *domain.Order, _ func(*domain.Order) domain.Event) error {
			order.ID = orderID
			for i := range order.Items {
				order.Items[i].ID = domain.ID(fmt.Sprintf("item-%d", i))
			}
			return nil
		})
	a.cache.EXPECT().Set(gomock.Any(), "order:"+orderID, gomock.Any(), gomock.Any()).Return(nil)
}

func orderBody(products ...map[string]any) map[string]any {
	return map[string]any{"customer_id": customerID, "products": products}
}

func line(id string, quantity int) map[string]any {
	return map[string]any{"id": id, "quantity": quantity}
}

func TestCreateOrder(t *testing.T) {
	t.Run("201 with snapshot prices and request id", func(t *testing.T) {
		a := newAPI(t)
		a.expectCustomer()
		a.products.EXPECT().FindAllByID(gomock.Any(), []domain.ID{productA, productB}).Return([]*domain.Product{
			{ID: productB, Name: "Mug", Price: domain.MustPrice("7.25"), Quantity: 3},
			{ID: productA, Name: "Pen", Price: domain.MustPrice("1.50"), Quantity: 10},
		}, nil)
		a.expectPersist()

		rec := a.do(t, http.MethodPost, "/api/v1/orders", orderBody(line(productA, 4), line(productB, 1)), nil)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "30", rec.Header().Get("X-RateLimit-Limit"))

		resp := decode[controllers.OrderResponse](t, rec)
		assert.Equal(t, orderID, resp.ID)
		assert.Equal(t, "Ada", resp.Customer.Name)
		require.Len(t, resp.Products, 2)
		assert.Equal(t, productA, resp.Products[0].ProductID)
		assert.True(t, resp.Products[0].Price.Equal(domain.MustPrice("1.50")))
		assert.Equal(t, 4, resp.Products[0].Quantity)
		assert.True(t, resp.Total.Equal(domain.MustPrice("13.25")), resp.Total.String())
	})

	t.Run("404 for unknown customer", func(t *testing.T) {
		a := newAPI(t)
		a.customers.EXPECT().FindByID(gomock.Any(), domain.ID(customerID)).
			Return(nil, serviceerrors.NewNotFoundError("entity not found"))

		rec := a.do(t, http.MethodPost, "/api/v1/orders", orderBody(line(productA, 1)), nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, string(serviceerrors.CodeCustomerNotFound), decode[handlers.ErrorResponse](t, rec).Code)
	})

	t.Run("404 for unknown product", func(t *testing.T) {
		a := newAPI(t)
		a.expectCustomer()
		a.products.EXPECT().FindAllByID(gomock.Any(), gomock.Any()).Return([]*domain.Product{
			{ID: productA, Name: "Pen", Price: domain.MustPrice("1"), Quantity: 10},
		}, nil)

		rec := a.do(t, http.MethodPost, "/api/v1/orders", orderBody(line(productA, 1), line(productB, 1)), nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		errResp := decode[handlers.ErrorResponse](t, rec)
		assert.Equal(t, string(serviceerrors.CodeProductNotFound), errResp.Code)
		assert.Contains(t, errResp.Error, productB)
	})

	t.Run("422 names the product and available quantity", func(t *testing.T) {
		a := newAPI(t)
		a.expectCustomer()
		a.products.EXPECT().FindAllByID(gomock.Any(), gomock.Any()).Return([]*domain.Product{
			{ID: productA, Name: "Pen", Price: domain.MustPrice("1"), Quantity: 2},
		}, nil)

		rec := a.do(t, http.MethodPost, "/api/v1/orders", orderBody(line(productA, 5)), nil)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		errResp := decode[handlers.ErrorResponse](t, rec)
		assert.Equal(t, string(serviceerrors.CodeInsufficientStock), errResp.Code)
		assert.Contains(t, errResp.Error, `"Pen"`)
		assert.Contains(t, errResp.Error, "2 available")
	})

	t.Run("409 on stock conflict", func(t *testing.T) {
		a := newAPI(t)
		a.expectCustomer()
		a.products.EXPECT().FindAllByID(gomock.Any(), gomock.Any()).Return([]*domain.Product{
			{ID: productA, Name: "Pen", Price: domain.MustPrice("1"), Quantity: 2},
		}, nil)
		a.tx.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
		a.products.EXPECT().UpdateQuantity(gomock.Any(), gomock.Any()).
			Return(serviceerrors.NewStockConflictError("stock changed"))

		rec := a.do(t, http.MethodPost, "/api/v1/orders", orderBody(line(productA, 1)), nil)

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, string(serviceerrors.CodeStockConflict), decode[handlers.ErrorResponse](t, rec).Code)
	})

	t.Run("400 for malformed body", func(t *testing.T) {
		a := newAPI(t)

		rec := a.do(t, http.MethodPost, "/api/v1/orders", map[string]any{"products": []any{}}, nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(serviceerrors.CodeInvalidRequest), decode[handlers.ErrorResponse](t, rec).Code)
	})

	t.Run("400 for zero quantity", func(t *testing.T) {
		a := newAPI(t)

		rec := a.do(t, http.MethodPost, "/api/v1/orders", orderBody(line(productA, 0)), nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("idempotency key replays the stored order", func(t *testing.T) {
		a := newAPI(t)
		fingerprint, err := service.Fingerprint(&dto.CreateOrderRequest{
			CustomerID: customerID,
			Products:   []dto.OrderProduct{{ProductID: productA, Quantity: 1}},
		})
		require.NoError(t, err)

		stored := &domain.Order{
			ID:       orderID,
			Customer: domain.Customer{ID: customerID, Name: "Ada"},
			Items:    []domain.OrderItem{{ID: "item-0", ProductID: productA, Price: domain.MustPrice("2"), Quantity: 1}},
		}
		a.idem.EXPECT().SetNX(gomock.Any(), "key-1", gomock.Any(), time.Hour).Return(false, nil)
		a.idem.EXPECT().Get(gomock.Any(), "key-1").Return(&service.IdempotencyEntry[domain.Order]{
			Status:      service.IdempotencyCompleted,
			Fingerprint: fingerprint,
			Result:      stored,
		}, nil)

		rec := a.do(t, http.MethodPost, "/api/v1/orders", orderBody(line(productA, 1)), map[string]string{
			controllers.IdempotencyKeyHeader: "key-1",
		})

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, orderID, decode[controllers.OrderResponse](t, rec).ID)
	})

	t.Run("idempotency key reused with another payload", func(t *testing.T) {
		a := newAPI(t)
		a.idem.EXPECT().SetNX(gomock.Any(), "key-1", gomock.Any(), time.Hour).Return(false, nil)
		a.idem.EXPECT().Get(gomock.Any(), "key-1").Return(&service.IdempotencyEntry[domain.Order]{
			Status:      service.IdempotencyCompleted,
			Fingerprint: "other",
		}, nil)

		rec := a.do(t, http.MethodPost, "/api/v1/orders", orderBody(line(productA, 1)), map[string]string{
			controllers.IdempotencyKeyHeader: "key-1",
		})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("429 when the limiter rejects", func(t *testing.T) {
		a := newAPI(t)
		a.limiter.decision = middleware.Decision{Allowed: false, RetryAfter: 1500 * time.Millisecond}

		rec := a.do(t, http.MethodPost, "/api/v1/orders", orderBody(line(productA, 1)), nil)

		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("Retry-After"))
		assert.Equal(t, "rate_limited", decode[handlers.ErrorResponse](t, rec).Code)
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		a := newAPI(t)
		a.limiter.err = errors.New("redis down")

		rec := a.do(t, http.MethodPost, "/api/v1/orders", map[string]any{}, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
