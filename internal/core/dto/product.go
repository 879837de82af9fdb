package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price" swaggertype:"string" example:"19.90"`
	Quantity int             `json:"quantity" binding:"gte=0"`
}
