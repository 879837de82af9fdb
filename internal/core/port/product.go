package port

import (
	"context"

	"github.com/rafaelleal24/sales/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type ProductPort interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Product, error)
	GetAll(ctx context.Context) ([]*domain.Product, error)
	// FindAllByID returns the products that exist among ids, in no particular order.
	FindAllByID(ctx context.Context, ids []domain.ID) ([]*domain.Product, error)
	// UpdateQuantity writes absolute quantities and fails when a row no longer
	// holds its PreviousQuantity.
	UpdateQuantity(ctx context.Context, decrements []domain.StockDecrement) error
}
