package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the authoritative stock record for one catalog item. A value read
// from the store is a snapshot: its Quantity and Price are only valid for the
// reconciliation pass that read them.
type Product struct {
	ID        ID
	Name      string
	Price     decimal.Decimal
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewProduct(name string, price decimal.Decimal, quantity int) *Product {
	now := time.Now()
	return &Product{
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *Product) HasStock(quantity int) bool {
	return quantity <= p.Quantity
}
