package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rafaelleal24/sales/internal/adapters/config"
	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/port"
)

// Publisher sends events to "exchange.<entity>" using the event name as
// routing key. A failed publish drops the channel and the next attempt redials.
type Publisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	config  config.RabbitMQConfig
	appID   string
}

func NewPublisher(cfg config.RabbitMQConfig, appID string) (*Publisher, error) {
	publisher := &Publisher{config: cfg, appID: appID}

	if err := publisher.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	return publisher, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.config.URL)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	for _, ec := range p.config.ExchangeConfigs {
		if err := ch.ExchangeDeclare(ec.Name, ec.Type, ec.Durable, ec.AutoDelete, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return fmt.Errorf("failed to declare exchange %s: %w", ec.Name, err)
		}
	}

	p.conn = conn
	p.channel = ch
	return nil
}

func (p *Publisher) reset() {
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

func ExchangeName(entityName string) string {
	return fmt.Sprintf("exchange.%s", entityName)
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		logger.Error(ctx, "publish: marshal event failed", err, map[string]any{
			"event_name":  event.GetName(),
			"entity_name": event.GetEntityName(),
		})
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.PublishMessage(ctx, port.Message{
		EventName:  event.GetName(),
		EntityName: event.GetEntityName(),
		Body:       body,
	})
}

func (p *Publisher) PublishMessage(ctx context.Context, message port.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	return p.publish(ctx, message)
}

func (p *Publisher) toPublishing(ctx context.Context, message port.Message) amqp.Publishing {
	headers := amqp.Table{"entity": message.EntityName}
	if requestID := logger.RequestIDFromContext(ctx); requestID != "" {
		headers["request_id"] = requestID
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         message.Body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    message.ID,
		Type:         message.EventName,
		AppId:        p.appID,
		Headers:      headers,
	}
}

func (p *Publisher) wait(ctx context.Context) error {
	timer := time.NewTimer(p.config.RetryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Publisher) publish(ctx context.Context, message port.Message) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	msg := p.toPublishing(ctx, message)
	exchange := ExchangeName(message.EntityName)

	var lastErr error
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := p.wait(ctx); err != nil {
				return err
			}
		}

		p.mu.Lock()

		if p.channel == nil {
			p.reset()
			if err := p.connect(); err != nil {
				p.mu.Unlock()
				lastErr = fmt.Errorf("reconnect failed: %w", err)
				logger.Error(ctx, "publish: reconnect failed", err, map[string]any{
					"attempt": attempt + 1,
				})
				continue
			}
		}

		err := p.channel.PublishWithContext(ctx, exchange, message.EventName, false, false, msg)
		if err != nil {
			p.channel = nil
			p.mu.Unlock()
			lastErr = err
			logger.Error(ctx, "publish: failed", err, map[string]any{
				"attempt":    attempt + 1,
				"message_id": message.ID,
			})
			continue
		}

		p.mu.Unlock()
		return nil
	}

	return fmt.Errorf("failed to publish after %d attempts: %w", p.config.MaxRetries+1, lastErr)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing channel: %w", err))
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing connection: %w", err))
		}
		p.conn = nil
	}
	return errors.Join(errs...)
}

func (p *Publisher) HealthCheck(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("connection is closed")
	}
	if p.channel == nil {
		return errors.New("channel is nil")
	}
	return nil
}
