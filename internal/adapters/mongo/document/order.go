package document

import (
	"time"

	"github.com/rafaelleal24/sales/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderCustomerDocument is the customer as it was when the order was placed.
type OrderCustomerDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

type OrderItemDocument struct {
	ID        primitive.ObjectID   `bson:"_id"`
	ProductID primitive.ObjectID   `bson:"product_id"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
}

type OrderDocument struct {
	ID        primitive.ObjectID    `bson:"_id,omitempty"`
	Customer  OrderCustomerDocument `bson:"customer"`
	Items     []OrderItemDocument   `bson:"items"`
	Total     primitive.Decimal128  `bson:"total"`
	CreatedAt time.Time             `bson:"created_at"`
	UpdatedAt time.Time             `bson:"updated_at"`
}

func (doc OrderDocument) GetID() primitive.ObjectID {
	return doc.ID
}

func (doc *OrderDocument) ToDomain() (*domain.Order, error) {
	items := make([]domain.OrderItem, len(doc.Items))
	for i, itemDoc := range doc.Items {
		price, err := fromDecimal128(itemDoc.Price)
		if err != nil {
			return nil, err
		}
		items[i] = domain.OrderItem{
			ID:        domain.ID(itemDoc.ID.Hex()),
			ProductID: domain.ID(itemDoc.ProductID.Hex()),
			Price:     price,
			Quantity:  itemDoc.Quantity,
		}
	}

	return &domain.Order{
		ID: domain.ID(doc.ID.Hex()),
		Customer: domain.Customer{
			ID:    domain.ID(doc.Customer.ID.Hex()),
			Name:  doc.Customer.Name,
			Email: doc.Customer.Email,
		},
		Items:     items,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// ToOrderDocument always generates new order and item ids: a transaction
// retry must not reuse ids from an aborted attempt.
func ToOrderDocument(order *domain.Order) (*OrderDocument, error) {
	items := make([]OrderItemDocument, len(order.Items))
	for i, item := range order.Items {
		price, err := toDecimal128(item.Price)
		if err != nil {
			return nil, err
		}
		productID, _ := primitive.ObjectIDFromHex(string(item.ProductID))
		items[i] = OrderItemDocument{
			ID:        primitive.NewObjectID(),
			ProductID: productID,
			Price:     price,
			Quantity:  item.Quantity,
		}
	}

	total, err := toDecimal128(order.Total())
	if err != nil {
		return nil, err
	}

	customerID, _ := primitive.ObjectIDFromHex(string(order.Customer.ID))

	return &OrderDocument{
		ID: primitive.NewObjectID(),
		Customer: OrderCustomerDocument{
			ID:    customerID,
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
		},
		Items:     items,
		Total:     total,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}, nil
}
