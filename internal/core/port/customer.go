package port

import (
	"context"

	"github.com/rafaelleal24/sales/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type CustomerPort interface {
	Create(ctx context.Context, customer *domain.Customer) error
	FindByID(ctx context.Context, id domain.ID) (*domain.Customer, error)
}
