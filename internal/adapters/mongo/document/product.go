package document

import (
	"time"

	"github.com/rafaelleal24/sales/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func (doc ProductDocument) GetID() primitive.ObjectID {
	return doc.ID
}

func (doc *ProductDocument) ToDomain() (*domain.Product, error) {
	price, err := fromDecimal128(doc.Price)
	if err != nil {
		return nil, err
	}

	return &domain.Product{
		ID:        domain.ID(doc.ID.Hex()),
		Name:      doc.Name,
		Price:     price,
		Quantity:  doc.Quantity,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func ToProductDocument(p *domain.Product) (*ProductDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return nil, err
	}

	return &ProductDocument{
		Name:      p.Name,
		Price:     price,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}
