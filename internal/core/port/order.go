package port

import (
	"context"

	"github.com/rafaelleal24/sales/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type OrderPort interface {
	// CreateWithOutbox assigns the order and item ids, then records event for relay.
	CreateWithOutbox(ctx context.Context, order *domain.Order, event func(*domain.Order) domain.Event) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Order, error)
	GetByCustomerID(ctx context.Context, customerID domain.ID, limit, offset int64) ([]*domain.Order, error)
}
