package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/rafaelleal24/sales/internal/core/domain"
)

type Entry struct {
	ID         string
	MessageID  string
	EventName  string
	EntityName string
	EventData  []byte
	Attempts   int
}

// NewEntry encodes event and gives it the message id used for every relay attempt.
func NewEntry(event domain.Event) (Entry, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Entry{}, fmt.Errorf("outbox: encode %s: %w", event.GetName(), err)
	}
	return Entry{
		MessageID:  uuid.NewString(),
		EventName:  event.GetName(),
		EntityName: event.GetEntityName(),
		EventData:  data,
	}, nil
}

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	FetchPending(ctx context.Context, limit int) ([]Entry, error)
	MarkFailed(ctx context.Context, id string, reason string) error
	Delete(ctx context.Context, id string) error
}
