package document

import (
	"time"

	"github.com/rafaelleal24/sales/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CustomerDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (doc CustomerDocument) GetID() primitive.ObjectID {
	return doc.ID
}

func (doc *CustomerDocument) ToDomain() *domain.Customer {
	return &domain.Customer{
		ID:        domain.ID(doc.ID.Hex()),
		Name:      doc.Name,
		Email:     doc.Email,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func ToCustomerDocument(c *domain.Customer) *CustomerDocument {
	return &CustomerDocument{
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
