package port

import (
	"context"

	"github.com/rafaelleal24/sales/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// Message is an already encoded event. ID is stable across redeliveries so
// consumers can drop duplicates.
type Message struct {
	ID         string
	EventName  string
	EntityName string
	Body       []byte
}

type BrokerPort interface {
	Publish(ctx context.Context, event domain.Event) error
	PublishMessage(ctx context.Context, message Message) error
	Close() error
}
