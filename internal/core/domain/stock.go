package domain

// StockDecrement sets a product's quantity to an absolute value.
// PreviousQuantity is the snapshot the value was derived from; stores use it
// to reject the write when the row changed after it was read.
type StockDecrement struct {
	ProductID        ID
	PreviousQuantity int
	NewQuantity      int
}

func NewStockDecrement(product *Product, requested int) StockDecrement {
	return StockDecrement{
		ProductID:        product.ID,
		PreviousQuantity: product.Quantity,
		NewQuantity:      product.Quantity - requested,
	}
}
