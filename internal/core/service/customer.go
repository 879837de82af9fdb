package service

import (
	"context"

	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/dto"
	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/port"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
)

type CustomerService struct {
	customerRepository port.CustomerPort
}

func NewCustomerService(customerRepository port.CustomerPort) *CustomerService {
	return &CustomerService{customerRepository: customerRepository}
}

func (s *CustomerService) Create(ctx context.Context, request *dto.CreateCustomerRequest) (*domain.Customer, error) {
	customer := domain.NewCustomer(request.Name, request.Email)

	if err := s.customerRepository.Create(ctx, customer); err != nil {
		logger.Error(ctx, "customer: create failed", err, map[string]any{
			"email": request.Email,
		})
		return nil, err
	}

	logger.Info(ctx, "Customer created", map[string]any{"customer_id": customer.ID})
	return customer, nil
}

// GetByID treats a malformed id like an unknown one.
func (s *CustomerService) GetByID(ctx context.Context, id domain.ID) (*domain.Customer, error) {
	customer, err := s.customerRepository.FindByID(ctx, id)
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) ||
			serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			return nil, serviceerrors.NewCustomerNotFoundError(id.String())
		}
		logger.Error(ctx, "customer: find failed", err, map[string]any{
			"customer_id": id,
		})
		return nil, err
	}

	return customer, nil
}
