package repository

import (
	"context"
	"fmt"

	"github.com/rafaelleal24/sales/internal/adapters/mongo/document"
	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/port"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CustomerRepository struct {
	*BaseRepository[document.CustomerDocument]
	collection *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) port.CustomerPort {
	repo := &CustomerRepository{
		BaseRepository: NewBaseRepository[document.CustomerDocument](db, "customers"),
		collection:     db.Collection("customers"),
	}

	if err := repo.createIndexes(context.Background()); err != nil {
		logger.Error(context.Background(), "failed to create indexes", err, map[string]any{
			"collection": "customers",
		})
	}

	return repo
}

func (r *CustomerRepository) createIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	doc := document.ToCustomerDocument(customer)

	result, err := r.collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return serviceerrors.NewConflictError(fmt.Sprintf("customer with email %s already exists", customer.Email))
	}
	if err != nil {
		return parseError(err)
	}

	customer.ID = domain.ID(result.InsertedID.(primitive.ObjectID).Hex())
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id domain.ID) (*domain.Customer, error) {
	doc, err := r.BaseRepository.FindByID(ctx, string(id))
	if err != nil {
		return nil, err
	}

	return doc.ToDomain(), nil
}
