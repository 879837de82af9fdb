package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rafaelleal24/sales/internal/adapters/mongo/document"
	"github.com/rafaelleal24/sales/internal/adapters/outbox"
	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/port"
)

type OrderRepository struct {
	*BaseRepository[document.OrderDocument]
	db         *mongo.Database
	collection *mongo.Collection
	outbox     outbox.Repository
}

func NewOrderRepository(db *mongo.Database, outbox outbox.Repository) port.OrderPort {
	baseRepo := NewBaseRepository[document.OrderDocument](db, "orders")

	repo := &OrderRepository{
		BaseRepository: baseRepo,
		db:             db,
		collection:     db.Collection("orders"),
		outbox:         outbox,
	}

	if err := repo.createIndexes(context.Background()); err != nil {
		logger.Error(context.Background(), "failed to create indexes", err, map[string]any{
			"collection": "orders",
		})
	}

	return repo
}

func (r *OrderRepository) createIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "customer._id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetUnique(false),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// CreateWithOutbox inserts order and the event built from it atomically. It
// joins the session carried by ctx, if any, and otherwise opens its own
// transaction.
func (r *OrderRepository) CreateWithOutbox(ctx context.Context, order *domain.Order, event func(*domain.Order) domain.Event) error {
	if mongo.SessionFromContext(ctx) != nil {
		return r.insertWithOutbox(ctx, order, event)
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, r.insertWithOutbox(sessCtx, order, event)
	})

	return err
}

func (r *OrderRepository) insertWithOutbox(ctx context.Context, order *domain.Order, event func(*domain.Order) domain.Event) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	doc, err := document.ToOrderDocument(order)
	if err != nil {
		return err
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return parseError(err)
	}

	order.ID = domain.ID(doc.ID.Hex())
	for i := range order.Items {
		order.Items[i].ID = domain.ID(doc.Items[i].ID.Hex())
	}

	entry, err := outbox.NewEntry(event(order))
	if err != nil {
		return err
	}

	return r.outbox.Insert(ctx, entry)
}

func (r *OrderRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Order, error) {
	doc, err := r.FindByID(ctx, string(id))
	if err != nil {
		return nil, err
	}

	return doc.ToDomain()
}

func (r *OrderRepository) GetByCustomerID(ctx context.Context, customerID domain.ID, limit, offset int64) ([]*domain.Order, error) {
	objectID, err := primitive.ObjectIDFromHex(string(customerID))
	if err != nil {
		return nil, parseError(err)
	}

	opts := options.Find().
		SetLimit(limit).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	filter := bson.M{"customer._id": objectID}

	docs, err := r.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, len(docs))
	for i := range docs {
		order, err := docs[i].ToDomain()
		if err != nil {
			return nil, err
		}
		orders[i] = order
	}

	return orders, nil
}
