package service

import (
	"fmt"
	"math"

	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/dto"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
)

type requestedProduct struct {
	id       domain.ID
	quantity int
}

// reconciliation holds the writes derived from one request and one stock snapshot.
// items and decrements share the same order: first occurrence in the request.
type reconciliation struct {
	items      []domain.OrderItem
	decrements []domain.StockDecrement
}

// mergeRequested sums the quantities of repeated ids so each product is checked
// against its snapshot once. Every quantity must be positive and the sums must fit in an int.
func mergeRequested(products []dto.OrderProduct) ([]requestedProduct, error) {
	index := make(map[domain.ID]int, len(products))
	merged := make([]requestedProduct, 0, len(products))
	for _, p := range products {
		if p.Quantity <= 0 {
			return nil, serviceerrors.NewInvalidRequestError(fmt.Sprintf("quantity for product %s must be greater than zero", p.ProductID))
		}
		if i, ok := index[p.ProductID]; ok {
			if p.Quantity > math.MaxInt-merged[i].quantity {
				return nil, serviceerrors.NewInvalidRequestError(fmt.Sprintf("quantity for product %s is too large", p.ProductID))
			}
			merged[i].quantity += p.Quantity
			continue
		}
		index[p.ProductID] = len(merged)
		merged = append(merged, requestedProduct{id: p.ProductID, quantity: p.Quantity})
	}
	return merged, nil
}

// reconcile matches requested products to snapshots by id. It never writes;
// the caller applies the result only when err is nil.
func reconcile(products []dto.OrderProduct, snapshots []*domain.Product) (*reconciliation, error) {
	requested, err := mergeRequested(products)
	if err != nil {
		return nil, err
	}

	byID := make(map[domain.ID]*domain.Product, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot == nil {
			continue
		}
		if _, ok := byID[snapshot.ID]; !ok {
			byID[snapshot.ID] = snapshot
		}
	}

	var missing []string
	for _, r := range requested {
		if _, ok := byID[r.id]; !ok {
			missing = append(missing, r.id.String())
		}
	}
	if len(missing) > 0 {
		return nil, serviceerrors.NewProductNotFoundError(missing)
	}

	result := &reconciliation{
		items:      make([]domain.OrderItem, 0, len(requested)),
		decrements: make([]domain.StockDecrement, 0, len(requested)),
	}
	for _, r := range requested {
		snapshot := byID[r.id]
		if !snapshot.HasStock(r.quantity) {
			return nil, serviceerrors.NewInsufficientStockError(snapshot.Name, snapshot.Quantity)
		}
		result.decrements = append(result.decrements, domain.NewStockDecrement(snapshot, r.quantity))
		result.items = append(result.items, *domain.NewOrderItem(snapshot, r.quantity))
	}

	return result, nil
}
