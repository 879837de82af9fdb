package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rafaelleal24/sales/internal/adapters/config"
	"github.com/rafaelleal24/sales/internal/adapters/outbox"
	outboxmock "github.com/rafaelleal24/sales/internal/adapters/outbox/mock"
	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/port"
	portmock "github.com/rafaelleal24/sales/internal/core/port/mock"
	"go.uber.org/mock/gomock"
)

func setupHandler(t *testing.T, interval time.Duration) (*outbox.Handler, *outboxmock.MockRepository, *portmock.MockBrokerPort) {
	ctrl := gomock.NewController(t)
	broker := portmock.NewMockBrokerPort(ctrl)
	repo := outboxmock.NewMockRepository(ctrl)
	handler := outbox.NewHandler(repo, broker, config.OutboxConfig{
		Interval:  interval,
		BatchSize: 10,
	})
	return handler, repo, broker
}

func TestNewEntry(t *testing.T) {
	order := domain.NewOrder(domain.Customer{ID: "c1"}, []domain.OrderItem{{ProductID: "p1", Price: domain.MustPrice("2"), Quantity: 1}})
	order.ID = "o1"

	entry, err := outbox.NewEntry(domain.NewOrderCreatedEvent(order))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if entry.EventName != "order.created" || entry.EntityName != "order" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.MessageID == "" {
		t.Fatal("expected a message id")
	}
	if len(entry.EventData) == 0 {
		t.Fatal("expected encoded event data")
	}
}

func TestHandler_Flush(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes with the stored message id and deletes", func(t *testing.T) {
		handler, repo, broker := setupHandler(t, time.Hour)

		repo.EXPECT().FetchPending(gomock.Any(), 10).Return([]outbox.Entry{
			{ID: "1", MessageID: "m-1", EventName: "order.created", EntityName: "order", EventData: []byte(`{"order_id":"o1"}`)},
			{ID: "2", MessageID: "m-2", EventName: "order.created", EntityName: "order", EventData: []byte(`{"order_id":"o2"}`)},
		}, nil)
		gomock.InOrder(
			broker.EXPECT().PublishMessage(gomock.Any(), port.Message{
				ID: "m-1", EventName: "order.created", EntityName: "order", Body: []byte(`{"order_id":"o1"}`),
			}).Return(nil),
			repo.EXPECT().Delete(gomock.Any(), "1").Return(nil),
			broker.EXPECT().PublishMessage(gomock.Any(), port.Message{
				ID: "m-2", EventName: "order.created", EntityName: "order", Body: []byte(`{"order_id":"o2"}`),
			}).Return(nil),
			repo.EXPECT().Delete(gomock.Any(), "2").Return(nil),
		)

		published, err := handler.Flush(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if published != 2 {
			t.Fatalf("expected 2 published, got %d", published)
		}
	})

	t.Run("failed publish keeps the entry and records the attempt", func(t *testing.T) {
		handler, repo, broker := setupHandler(t, time.Hour)

		repo.EXPECT().FetchPending(gomock.Any(), 10).Return([]outbox.Entry{
			{ID: "1", MessageID: "m-1", EventName: "order.created", EntityName: "order"},
			{ID: "2", MessageID: "m-2", EventName: "order.created", EntityName: "order"},
		}, nil)
		broker.EXPECT().PublishMessage(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
		repo.EXPECT().MarkFailed(gomock.Any(), "1", "broker down").Return(errors.New("db down"))
		broker.EXPECT().PublishMessage(gomock.Any(), gomock.Any()).Return(nil)
		repo.EXPECT().Delete(gomock.Any(), "2").Return(nil)

		published, err := handler.Flush(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if published != 1 {
			t.Fatalf("expected 1 published, got %d", published)
		}
	})

	t.Run("delete failure still counts as published", func(t *testing.T) {
		handler, repo, broker := setupHandler(t, time.Hour)

		repo.EXPECT().FetchPending(gomock.Any(), 10).Return([]outbox.Entry{{ID: "1", MessageID: "m-1"}}, nil)
		broker.EXPECT().PublishMessage(gomock.Any(), gomock.Any()).Return(nil)
		repo.EXPECT().Delete(gomock.Any(), "1").Return(errors.New("delete failed"))

		published, err := handler.Flush(ctx)
		if err != nil || published != 1 {
			t.Fatalf("expected 1 published and no error, got %d, %v", published, err)
		}
	})

	t.Run("fetch error", func(t *testing.T) {
		handler, repo, _ := setupHandler(t, time.Hour)

		repo.EXPECT().FetchPending(gomock.Any(), 10).Return(nil, errors.New("db down"))

		if _, err := handler.Flush(ctx); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestHandler_StartRelaysOnTick(t *testing.T) {
	handler, repo, broker := setupHandler(t, 20*time.Millisecond)

	relayed := make(chan struct{})
	repo.EXPECT().FetchPending(gomock.Any(), 10).Return([]outbox.Entry{{ID: "1", MessageID: "m-1"}}, nil).Times(1)
	repo.EXPECT().FetchPending(gomock.Any(), 10).Return(nil, nil).AnyTimes()
	broker.EXPECT().PublishMessage(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().Delete(gomock.Any(), "1").DoAndReturn(func(context.Context, string) error {
		close(relayed)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		handler.Start(ctx)
		close(done)
	}()

	select {
	case <-relayed:
	case <-time.After(2 * time.Second):
		t.Fatal("entry was not relayed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not stop after context cancellation")
	}
}

func TestHandler_StartWithZeroConfigUsesDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := portmock.NewMockBrokerPort(ctrl)
	repo := outboxmock.NewMockRepository(ctrl)
	handler := outbox.NewHandler(repo, broker, config.OutboxConfig{Interval: 0, BatchSize: -1})

	polled := make(chan struct{})
	var once sync.Once
	repo.EXPECT().FetchPending(gomock.Any(), 100).DoAndReturn(func(context.Context, int) ([]outbox.Entry, error) {
		once.Do(func() { close(polled) })
		return nil, nil
	}).MinTimes(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		handler.Start(ctx)
		close(done)
	}()

	select {
	case <-polled:
	case <-time.After(3 * time.Second):
		t.Fatal("handler did not poll with the default interval")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not stop after context cancellation")
	}
}
