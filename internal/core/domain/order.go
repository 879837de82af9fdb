package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        ID
	Customer  Customer
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID        ID
	ProductID ID
	Price     decimal.Decimal
	Quantity  int
}

func (o *OrderItem) Subtotal() decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// NewOrderItem captures the product's current price; callers never supply it.
func NewOrderItem(product *Product, quantity int) *OrderItem {
	return &OrderItem{
		ProductID: product.ID,
		Price:     product.Price,
		Quantity:  quantity,
	}
}

func CalculateTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (o *Order) Total() decimal.Decimal {
	return CalculateTotal(o.Items)
}

func NewOrder(customer Customer, items []OrderItem) *Order {
	now := time.Now()
	return &Order{
		Customer:  customer,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type OrderCreatedEvent struct {
	OrderID    ID                 `json:"order_id"`
	CustomerID ID                 `json:"customer_id"`
	Items      []OrderCreatedLine `json:"items"`
	Total      decimal.Decimal    `json:"total"`
	CreatedAt  time.Time          `json:"created_at"`
}

type OrderCreatedLine struct {
	ProductID ID              `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (e *OrderCreatedEvent) GetName() string {
	return "order.created"
}

func (e *OrderCreatedEvent) GetEntityName() string {
	return "order"
}

// NewOrderCreatedEvent reads the order's id, so build it after the id is assigned.
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	lines := make([]OrderCreatedLine, len(order.Items))
	for i, item := range order.Items {
		lines[i] = OrderCreatedLine{
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}
	return &OrderCreatedEvent{
		OrderID:    order.ID,
		CustomerID: order.Customer.ID,
		Items:      lines,
		Total:      order.Total(),
		CreatedAt:  order.CreatedAt,
	}
}
