package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rafaelleal24/sales/internal/adapters/mongo/repository"
	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/port"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
)

var testCustomer = domain.Customer{ID: "ccddaabbee112233aabbccdd", Name: "Ada", Email: "ada@example.com"}

func newTestOrder(customer domain.Customer) *domain.Order {
	return domain.NewOrder(customer, []domain.OrderItem{
		{ProductID: "aabbccddee112233aabbccd1", Price: domain.MustPrice("10.00"), Quantity: 2},
		{ProductID: "aabbccddee112233aabbccd2", Price: domain.MustPrice("20.50"), Quantity: 1},
	})
}

func createTestOrder(t *testing.T, orderRepo port.OrderPort, customer domain.Customer) *domain.Order {
	t.Helper()
	order := newTestOrder(customer)
	if err := orderRepo.CreateWithOutbox(context.Background(), order, orderCreated); err != nil {
		t.Fatalf("setup: create order failed: %v", err)
	}
	return order
}

func orderCreated(order *domain.Order) domain.Event {
	return domain.NewOrderCreatedEvent(order)
}

func TestOrderRepository_CreateWithOutbox(t *testing.T) {
	freshDB := testClient.Database("test_order_create")
	outboxRepo := repository.NewOutboxRepository(freshDB)
	orderRepo := repository.NewOrderRepository(freshDB, outboxRepo)
	ctx := context.Background()

	t.Run("assigns ids and records the event", func(t *testing.T) {
		order := newTestOrder(testCustomer)

		if err := orderRepo.CreateWithOutbox(ctx, order, orderCreated); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !domain.ValidateID(string(order.ID)) {
			t.Fatalf("expected 24-char hex order ID, got %q", order.ID)
		}
		for i, item := range order.Items {
			if item.ID == "" {
				t.Fatalf("expected item[%d] ID to be assigned", i)
			}
		}

		entries, err := outboxRepo.FetchPending(ctx, 10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 outbox entry, got %d", len(entries))
		}
		if entries[0].EventName != "order.created" || entries[0].MessageID == "" {
			t.Fatalf("unexpected outbox entry %+v", entries[0])
		}

		var event domain.OrderCreatedEvent
		if err := json.Unmarshal(entries[0].EventData, &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if event.OrderID != order.ID {
			t.Fatalf("expected event for order %s, got %s", order.ID, event.OrderID)
		}
		if !event.Total.Equal(domain.MustPrice("40.50")) {
			t.Fatalf("expected total 40.50, got %s", event.Total)
		}
	})

	t.Run("event failure stores nothing", func(t *testing.T) {
		db := testClient.Database("test_order_create_rollback")
		outboxRepo := repository.NewOutboxRepository(db)
		orderRepo := repository.NewOrderRepository(db, outboxRepo)

		order := newTestOrder(testCustomer)
		err := orderRepo.CreateWithOutbox(ctx, order, func(*domain.Order) domain.Event { return unencodableEvent{} })
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		orders, err := orderRepo.GetByCustomerID(ctx, testCustomer.ID, 10, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(orders) != 0 {
			t.Fatalf("expected no orders after rollback, got %d", len(orders))
		}
	})
}

func TestOrderRepository_GetByID(t *testing.T) {
	outboxRepo := repository.NewOutboxRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB, outboxRepo)
	ctx := context.Background()

	t.Run("returns order with customer snapshot and prices", func(t *testing.T) {
		created := createTestOrder(t, orderRepo, testCustomer)

		found, err := orderRepo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found.ID != created.ID {
			t.Fatalf("expected id %s, got %s", created.ID, found.ID)
		}
		if found.Customer.ID != testCustomer.ID || found.Customer.Email != testCustomer.Email {
			t.Fatalf("unexpected customer %+v", found.Customer)
		}
		if len(found.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(found.Items))
		}
		if !found.Items[1].Price.Equal(domain.MustPrice("20.50")) {
			t.Fatalf("expected price 20.50, got %s", found.Items[1].Price)
		}
		if !found.Total().Equal(created.Total()) {
			t.Fatalf("expected total %s, got %s", created.Total(), found.Total())
		}
	})

	t.Run("returns not found for non-existing order", func(t *testing.T) {
		_, err := orderRepo.GetByID(ctx, "aabbccddee112233aabb0000")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			t.Fatalf("expected KindNotFound, got %v", err)
		}
	})

	t.Run("returns error for invalid ID", func(t *testing.T) {
		_, err := orderRepo.GetByID(ctx, "bad-id")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			t.Fatalf("expected KindInvalidRequest, got %v", err)
		}
	})
}

func TestOrderRepository_GetByCustomerID(t *testing.T) {
	freshDB := testClient.Database("test_order_by_customer")
	outboxRepo := repository.NewOutboxRepository(freshDB)
	orderRepo := repository.NewOrderRepository(freshDB, outboxRepo)
	ctx := context.Background()
	customer := domain.Customer{ID: "ccddaabbee112233aabbcc01", Name: "Lin", Email: "lin@example.com"}

	t.Run("returns empty list when no orders", func(t *testing.T) {
		orders, err := orderRepo.GetByCustomerID(ctx, customer.ID, 10, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(orders) != 0 {
			t.Fatalf("expected 0 orders, got %d", len(orders))
		}
	})

	t.Run("newest first with paging", func(t *testing.T) {
		var created []*domain.Order
		for range 3 {
			created = append(created, createTestOrder(t, orderRepo, customer))
			time.Sleep(5 * time.Millisecond)
		}
		createTestOrder(t, orderRepo, testCustomer)

		orders, err := orderRepo.GetByCustomerID(ctx, customer.ID, 2, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(orders) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(orders))
		}
		if orders[0].ID != created[2].ID {
			t.Fatalf("expected newest order %s first, got %s", created[2].ID, orders[0].ID)
		}

		rest, err := orderRepo.GetByCustomerID(ctx, customer.ID, 2, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rest) != 1 || rest[0].ID != created[0].ID {
			t.Fatalf("expected oldest order %s on second page, got %v", created[0].ID, rest)
		}
	})

	t.Run("returns error for invalid customer ID", func(t *testing.T) {
		_, err := orderRepo.GetByCustomerID(ctx, "bad-id", 10, 0)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			t.Fatalf("expected KindInvalidRequest, got %v", err)
		}
	})
}

type unencodableEvent struct {
	Callback func() `json:"callback"`
}

func (unencodableEvent) GetName() string       { return "test.unencodable" }
func (unencodableEvent) GetEntityName() string { return "test" }
