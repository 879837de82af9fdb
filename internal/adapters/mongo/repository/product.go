package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rafaelleal24/sales/internal/adapters/mongo/document"
	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/port"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository struct {
	*BaseRepository[document.ProductDocument]
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) port.ProductPort {
	return &ProductRepository{
		BaseRepository: NewBaseRepository[document.ProductDocument](db, "products"),
		collection:     db.Collection("products"),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	doc, err := document.ToProductDocument(product)
	if err != nil {
		return err
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return parseError(err)
	}

	product.ID = domain.ID(result.InsertedID.(primitive.ObjectID).Hex())
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Product, error) {
	doc, err := r.FindByID(ctx, string(id))
	if err != nil {
		return nil, err
	}

	return doc.ToDomain()
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	docs, err := r.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	return toProducts(docs)
}

// FindAllByID skips ids that are not valid ObjectIDs; they can never match.
func (r *ProductRepository) FindAllByID(ctx context.Context, ids []domain.ID) ([]*domain.Product, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(string(id))
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}
	if len(objectIDs) == 0 {
		return []*domain.Product{}, nil
	}

	docs, err := r.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, err
	}

	return toProducts(docs)
}

// UpdateQuantity applies every decrement as a compare-and-set on the quantity
// read during reconciliation. A row that changed since then fails the whole
// call with a stock conflict; run it inside a transaction so earlier writes
// of the batch roll back.
func (r *ProductRepository) UpdateQuantity(ctx context.Context, decrements []domain.StockDecrement) error {
	if len(decrements) == 0 {
		return nil
	}

	now := time.Now()
	models := make([]mongo.WriteModel, len(decrements))
	for i, decrement := range decrements {
		objectID, err := primitive.ObjectIDFromHex(string(decrement.ProductID))
		if err != nil {
			return parseError(err)
		}
		models[i] = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": objectID, "quantity": decrement.PreviousQuantity}).
			SetUpdate(bson.M{"$set": bson.M{
				"quantity":   decrement.NewQuantity,
				"updated_at": now,
			}})
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return parseError(err)
	}

	if result.MatchedCount != int64(len(decrements)) {
		return serviceerrors.NewStockConflictError(fmt.Sprintf(
			"stock changed for %d of %d products while the order was placed",
			int64(len(decrements))-result.MatchedCount, len(decrements),
		))
	}

	return nil
}

func toProducts(docs []document.ProductDocument) ([]*domain.Product, error) {
	products := make([]*domain.Product, len(docs))
	for i := range docs {
		product, err := docs[i].ToDomain()
		if err != nil {
			return nil, err
		}
		products[i] = product
	}
	return products, nil
}
