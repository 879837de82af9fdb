package document

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Document interface {
	GetID() primitive.ObjectID
}

// Prices are stored as Decimal128 so they keep their exact digits and sort numerically.

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	value, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("document: encode price %s: %w", d, err)
	}
	return value, nil
}

func fromDecimal128(value primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("document: decode price %s: %w", value, err)
	}
	return d, nil
}
