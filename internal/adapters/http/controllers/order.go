package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rafaelleal24/sales/internal/adapters/http/handlers"
	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/dto"
	"github.com/rafaelleal24/sales/internal/core/service"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type OrderController struct {
	orderService *service.OrderService
}

type OrderCustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price" swaggertype:"string" example:"19.9"`
	Quantity  int             `json:"quantity"`
}

type OrderResponse struct {
	ID        string                `json:"id"`
	Customer  OrderCustomerResponse `json:"customer"`
	Products  []OrderItemResponse   `json:"products"`
	Total     decimal.Decimal       `json:"total" swaggertype:"string" example:"39.8"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func NewOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:        string(item.ID),
			ProductID: string(item.ProductID),
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}
	return OrderResponse{
		ID: string(order.ID),
		Customer: OrderCustomerResponse{
			ID:    string(order.Customer.ID),
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
		},
		Products:  items,
		Total:     order.Total(),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

func NewOrderResponses(orders []*domain.Order) []OrderResponse {
	response := make([]OrderResponse, len(orders))
	for i, order := range orders {
		response[i] = NewOrderResponse(order)
	}
	return response
}

func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder godoc
// @Summary     Create an order
// @Description Validates every requested product against current stock, then stores the order and the stock decrement together
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header   string                 false "Idempotency key"
// @Param       request         body     dto.CreateOrderRequest  true  "Order data"
// @Success     201             {object} OrderResponse
// @Failure     400             {object} handlers.ErrorResponse
// @Failure     404             {object} handlers.ErrorResponse
// @Failure     409             {object} handlers.ErrorResponse
// @Failure     422             {object} handlers.ErrorResponse
// @Failure     429             {object} handlers.ErrorResponse
// @Failure     500             {object} handlers.ErrorResponse
// @Router      /api/v1/orders [post]
func (orderController *OrderController) CreateOrder(c *gin.Context) {
	var request dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}
	idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
	order, err := orderController.orderService.CreateOrder(c.Request.Context(), idempotencyKey, &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewOrderResponse(order))
}

// GetOrderByID godoc
// @Summary     Get order by ID
// @Description Returns a single order by its ID
// @Tags        orders
// @Produce     json
// @Param       id  path     string true "Order ID"
// @Success     200 {object} OrderResponse
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/v1/orders/{id} [get]
func (orderController *OrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("id")
	if !domain.ValidateID(orderID) {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError("Invalid order ID"))
		return
	}
	order, err := orderController.orderService.GetOrderByID(c.Request.Context(), domain.ID(orderID))
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOrderResponse(order))
}
