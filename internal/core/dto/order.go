package dto

import "github.com/rafaelleal24/sales/internal/core/domain"

type OrderProduct struct {
	ProductID domain.ID `json:"id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID domain.ID      `json:"customer_id" binding:"required"`
	Products   []OrderProduct `json:"products"`
}

// ProductIDs lists the requested ids in request order, repetitions included.
func (r *CreateOrderRequest) ProductIDs() []domain.ID {
	ids := make([]domain.ID, len(r.Products))
	for i, p := range r.Products {
		ids[i] = p.ProductID
	}
	return ids
}

type ListOrdersQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
