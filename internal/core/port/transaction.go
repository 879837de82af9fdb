package port

import "context"

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// TransactionManager runs fn atomically. Repositories called with the ctx passed
// to fn take part in the same transaction; fn may run more than once on
// transient errors, so it must not keep state between attempts.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
