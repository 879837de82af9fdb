package mongo

import (
	"context"

	"github.com/rafaelleal24/sales/internal/core/port"
	"go.mongodb.org/mongo-driver/mongo"
)

type TransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) port.TransactionManager {
	return &TransactionManager{client: client}
}

// WithTransaction runs fn in a transaction. fn may be called more than once
// when the server reports a transient error, so it must not keep state
// between attempts. A ctx that already carries a session joins it.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := tm.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})

	return err
}
