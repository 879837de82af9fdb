package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/sales/internal/adapters/http/handlers"
	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/dto"
	"github.com/rafaelleal24/sales/internal/core/service"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
)

type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCustomerResponse(customer *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        string(customer.ID),
		Name:      customer.Name,
		Email:     customer.Email,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

type CustomerController struct {
	customerService *service.CustomerService
	orderService    *service.OrderService
}

func NewCustomerController(customerService *service.CustomerService, orderService *service.OrderService) *CustomerController {
	return &CustomerController{customerService: customerService, orderService: orderService}
}

// CreateCustomer godoc
// @Summary     Create a customer
// @Description Creates a new customer; emails are unique
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       request body     dto.CreateCustomerRequest true "Customer data"
// @Success     201     {object} CustomerResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     409     {object} handlers.ErrorResponse
// @Failure     500     {object} handlers.ErrorResponse
// @Router      /api/v1/customers [post]
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var request dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}
	customer, err := cc.customerService.Create(c.Request.Context(), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewCustomerResponse(customer))
}

// GetCustomer godoc
// @Summary     Get customer by ID
// @Tags        customers
// @Produce     json
// @Param       id  path     string true "Customer ID"
// @Success     200 {object} CustomerResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/v1/customers/{id} [get]
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	customer, err := cc.customerService.GetByID(c.Request.Context(), domain.ID(c.Param("id")))
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCustomerResponse(customer))
}

// GetCustomerOrders godoc
// @Summary     List a customer's orders
// @Description Newest first
// @Tags        customers
// @Produce     json
// @Param       id     path     string true  "Customer ID"
// @Param       limit  query    int    false "Page size (default 20, max 100)"
// @Param       offset query    int    false "Orders to skip"
// @Success     200    {array}  OrderResponse
// @Failure     400    {object} handlers.ErrorResponse
// @Failure     404    {object} handlers.ErrorResponse
// @Failure     500    {object} handlers.ErrorResponse
// @Router      /api/v1/customers/{id}/orders [get]
func (cc *CustomerController) GetCustomerOrders(c *gin.Context) {
	var query dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}
	orders, err := cc.orderService.GetCustomerOrders(c.Request.Context(), domain.ID(c.Param("id")), query)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOrderResponses(orders))
}
