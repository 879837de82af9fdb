package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/dto"
	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/port"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
)

const (
	ORDER_MAX_ITEMS = 100
	orderCacheTTL   = 15 * time.Minute

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type OrderSettings struct {
	MaxItems int
	CacheTTL time.Duration
}

func DefaultOrderSettings() OrderSettings {
	return OrderSettings{MaxItems: ORDER_MAX_ITEMS, CacheTTL: orderCacheTTL}
}

type OrderService struct {
	orderRepository port.OrderPort
	productService  *ProductService
	customerService *CustomerService
	orderCache      port.CachePort[domain.Order]
	idempotency     *IdempotencyService[domain.Order]
	txManager       port.TransactionManager
	settings        OrderSettings
}

func NewOrderService(
	orderRepository port.OrderPort,
	productService *ProductService,
	customerService *CustomerService,
	orderCache port.CachePort[domain.Order],
	idempotency *IdempotencyService[domain.Order],
	txManager port.TransactionManager,
	settings OrderSettings,
) *OrderService {
	if settings.MaxItems <= 0 {
		settings.MaxItems = ORDER_MAX_ITEMS
	}
	if settings.CacheTTL <= 0 {
		settings.CacheTTL = orderCacheTTL
	}
	return &OrderService{
		orderRepository: orderRepository,
		productService:  productService,
		customerService: customerService,
		orderCache:      orderCache,
		idempotency:     idempotency,
		txManager:       txManager,
		settings:        settings,
	}
}

func (s *OrderService) getCacheKey(orderID domain.ID) string {
	return fmt.Sprintf("order:%s", orderID)
}

func (s *OrderService) cacheOrder(ctx context.Context, order *domain.Order) {
	if err := s.orderCache.Set(ctx, s.getCacheKey(order.ID), order, s.settings.CacheTTL); err != nil {
		logger.Error(ctx, "cache: set order failed", err, map[string]any{
			"order_id": order.ID,
		})
	}
}

func (s *OrderService) GetOrderByID(ctx context.Context, orderID domain.ID) (*domain.Order, error) {
	cached, err := s.orderCache.Get(ctx, s.getCacheKey(orderID))
	if err != nil {
		logger.Error(ctx, "cache: get order failed", err, map[string]any{
			"order_id": orderID,
		})
	}
	if cached != nil {
		logger.Debug(ctx, "order found in cache", map[string]any{
			"order_id": orderID,
		})
		return cached, nil
	}

	order, err := s.orderRepository.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.cacheOrder(ctx, order)
	return order, nil
}

func (s *OrderService) GetCustomerOrders(ctx context.Context, customerID domain.ID, query dto.ListOrdersQuery) ([]*domain.Order, error) {
	if query.Offset < 0 {
		return nil, serviceerrors.NewInvalidRequestError("offset cannot be negative")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	if _, err := s.customerService.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	return s.orderRepository.GetByCustomerID(ctx, customerID, int64(limit), int64(query.Offset))
}

func (s *OrderService) validateRequest(request *dto.CreateOrderRequest) error {
	if len(request.Products) == 0 {
		return serviceerrors.NewInvalidRequestError("order must contain at least one product")
	}
	if len(request.Products) > s.settings.MaxItems {
		return serviceerrors.NewUnprocessableEntityError("order items limit exceeded")
	}
	for _, p := range request.Products {
		if p.Quantity <= 0 {
			return serviceerrors.NewInvalidRequestError(fmt.Sprintf("quantity for product %s must be greater than zero", p.ProductID))
		}
	}
	return nil
}

func newOrderCreatedEvent(order *domain.Order) domain.Event {
	return domain.NewOrderCreatedEvent(order)
}

// processOrder validates the whole request against one stock snapshot before
// any write. Stock and order are then persisted in a single transaction.
func (s *OrderService) processOrder(ctx context.Context, request *dto.CreateOrderRequest) (*domain.Order, error) {
	if err := s.validateRequest(request); err != nil {
		return nil, err
	}

	customer, err := s.customerService.GetByID(ctx, request.CustomerID)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.productService.FindAllByID(ctx, domain.UniqueIDs(request.ProductIDs()))
	if err != nil {
		logger.Error(ctx, "product: batch lookup failed", err, map[string]any{
			"customer_id": request.CustomerID,
		})
		return nil, err
	}

	result, err := reconcile(request.Products, snapshots)
	if err != nil {
		logger.Warn(ctx, "order rejected", map[string]any{
			"customer_id": request.CustomerID,
			"reason":      err.Error(),
		})
		return nil, err
	}

	order := domain.NewOrder(*customer, result.items)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.productService.UpdateQuantity(txCtx, result.decrements); err != nil {
			return err
		}
		return s.orderRepository.CreateWithOutbox(txCtx, order, newOrderCreatedEvent)
	})
	if err != nil {
		logger.Error(ctx, "transaction: create order failed", err, map[string]any{
			"customer_id": request.CustomerID,
		})
		return nil, err
	}

	s.cacheOrder(ctx, order)

	logger.Info(ctx, "Order created successfully", map[string]any{
		"order_id": order.ID,
		"items":    len(order.Items),
		"total":    order.Total().String(),
	})
	return order, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, idempotencyKey string, request *dto.CreateOrderRequest) (*domain.Order, error) {
	if idempotencyKey == "" {
		return s.processOrder(ctx, request)
	}

	return s.idempotency.Do(ctx, idempotencyKey, request, func(ctx context.Context) (*domain.Order, error) {
		return s.processOrder(ctx, request)
	})
}
