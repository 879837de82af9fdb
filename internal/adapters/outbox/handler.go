package outbox

import (
	"context"
	"time"

	"github.com/rafaelleal24/sales/internal/adapters/config"
	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/port"
)

const (
	defaultInterval  = 500 * time.Millisecond
	defaultBatchSize = 100
)

// Handler relays outbox entries to the broker. Delivery is at least once: an
// entry is deleted only after the broker accepted it.
type Handler struct {
	outbox   Repository
	broker   port.BrokerPort
	interval time.Duration
	batch    int
}

// NewHandler falls back to the defaults for a non-positive interval or batch size.
func NewHandler(outbox Repository, broker port.BrokerPort, config config.OutboxConfig) *Handler {
	h := &Handler{
		outbox:   outbox,
		broker:   broker,
		interval: config.Interval,
		batch:    config.BatchSize,
	}
	if h.interval <= 0 {
		h.interval = defaultInterval
	}
	if h.batch <= 0 {
		h.batch = defaultBatchSize
	}
	return h
}

func (h *Handler) Start(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := h.Flush(ctx); err != nil {
				logger.Error(ctx, "outbox: failed to fetch pending events", err, map[string]any{
					"batch": h.batch,
				})
			}
		}
	}
}

// Flush relays one batch and reports how many entries reached the broker.
func (h *Handler) Flush(ctx context.Context) (int, error) {
	entries, err := h.outbox.FetchPending(ctx, h.batch)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, entry := range entries {
		attrs := map[string]any{
			"event_id":    entry.ID,
			"message_id":  entry.MessageID,
			"event_name":  entry.EventName,
			"entity_name": entry.EntityName,
			"attempts":    entry.Attempts,
		}

		err := h.broker.PublishMessage(ctx, port.Message{
			ID:         entry.MessageID,
			EventName:  entry.EventName,
			EntityName: entry.EntityName,
			Body:       entry.EventData,
		})
		if err != nil {
			logger.Error(ctx, "outbox: failed to publish event", err, attrs)
			if markErr := h.outbox.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
				logger.Error(ctx, "outbox: failed to record publish failure", markErr, attrs)
			}
			continue
		}

		published++
		logger.Debug(ctx, "outbox: event published", attrs)

		if err := h.outbox.Delete(ctx, entry.ID); err != nil {
			logger.Error(ctx, "outbox: failed to delete event after publish", err, attrs)
		}
	}

	return published, nil
}
