package service

import (
	"context"

	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/dto"
	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/port"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
)

type ProductService struct {
	productRepository port.ProductPort
}

func NewProductService(productRepository port.ProductPort) *ProductService {
	return &ProductService{productRepository: productRepository}
}

func (s *ProductService) CreateProduct(ctx context.Context, request *dto.CreateProductRequest) (*domain.Product, error) {
	if !request.Price.IsPositive() {
		return nil, serviceerrors.NewInvalidRequestError("price must be greater than zero")
	}
	if request.Quantity < 0 {
		return nil, serviceerrors.NewInvalidRequestError("quantity cannot be negative")
	}

	product := domain.NewProduct(request.Name, request.Price, request.Quantity)

	if err := s.productRepository.Create(ctx, product); err != nil {
		logger.Error(ctx, "product: create failed", err, map[string]any{
			"name":     request.Name,
			"price":    request.Price.String(),
			"quantity": request.Quantity,
		})
		return nil, err
	}

	logger.Info(ctx, "Product created", map[string]any{"product_id": product.ID})
	return product, nil
}

func (s *ProductService) GetByID(ctx context.Context, id domain.ID) (*domain.Product, error) {
	return s.productRepository.GetByID(ctx, id)
}

func (s *ProductService) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepository.GetAll(ctx)
}

func (s *ProductService) FindAllByID(ctx context.Context, ids []domain.ID) ([]*domain.Product, error) {
	return s.productRepository.FindAllByID(ctx, ids)
}

func (s *ProductService) UpdateQuantity(ctx context.Context, decrements []domain.StockDecrement) error {
	if len(decrements) == 0 {
		return nil
	}
	return s.productRepository.UpdateQuantity(ctx, decrements)
}
