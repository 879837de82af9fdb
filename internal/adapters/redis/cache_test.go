package redis_test

import (
	"context"
	"testing"
	"time"

	adaptredis "github.com/rafaelleal24/sales/internal/adapters/redis"
	"github.com/rafaelleal24/sales/internal/core/domain"
	"github.com/rafaelleal24/sales/internal/core/service"
)

func TestCache_OrderRoundTrip(t *testing.T) {
	cache := adaptredis.NewCache[domain.Order](testClient, "orders-test")
	ctx := context.Background()

	order := &domain.Order{
		ID:       "aabbccddee112233aabbccdd",
		Customer: domain.Customer{ID: "ccddaabbee112233aabbccdd", Name: "Ana", Email: "ana@example.com"},
		Items: []domain.OrderItem{
			{ID: "i1", ProductID: "p1", Price: domain.MustPrice("19.90"), Quantity: 3},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := cache.Set(ctx, "order:"+string(order.ID), order, time.Minute); err != nil {
		t.Fatalf("expected no error on set, got %v", err)
	}

	got, err := cache.Get(ctx, "order:"+string(order.ID))
	if err != nil {
		t.Fatalf("expected no error on get, got %v", err)
	}
	if got == nil {
		t.Fatal("expected order, got nil")
	}
	if got.Customer.Email != "ana@example.com" {
		t.Fatalf("expected customer email to survive, got %q", got.Customer.Email)
	}
	if !got.Items[0].Price.Equal(domain.MustPrice("19.9")) {
		t.Fatalf("expected exact price 19.9, got %s", got.Items[0].Price)
	}
	if !got.Total().Equal(domain.MustPrice("59.7")) {
		t.Fatalf("expected total 59.7, got %s", got.Total())
	}
}

func TestCache_MissingAndExpired(t *testing.T) {
	cache := adaptredis.NewCache[domain.Order](testClient, "orders-expiry")
	ctx := context.Background()

	got, err := cache.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for missing key, got %+v, %v", got, err)
	}

	if err := cache.Set(ctx, "short", &domain.Order{ID: "o1"}, 100*time.Millisecond); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	got, err = cache.Get(ctx, "short")
	if err != nil || got != nil {
		t.Fatalf("expected expired entry to be gone, got %+v, %v", got, err)
	}
}

func TestCache_IdempotencyEntries(t *testing.T) {
	cache := adaptredis.NewCache[service.IdempotencyEntry[domain.Order]](testClient, "idempotency-test")
	ctx := context.Background()

	first := &service.IdempotencyEntry[domain.Order]{Status: service.IdempotencyProcessing, Fingerprint: "f1"}
	ok, err := cache.SetNX(ctx, "key", first, time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first claim to win, got %v, %v", ok, err)
	}

	second := &service.IdempotencyEntry[domain.Order]{Status: service.IdempotencyProcessing, Fingerprint: "f2"}
	ok, err = cache.SetNX(ctx, "key", second, time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second claim to lose, got %v, %v", ok, err)
	}

	stored, _ := cache.Get(ctx, "key")
	if stored == nil || stored.Fingerprint != "f1" {
		t.Fatalf("expected first claim to be kept, got %+v", stored)
	}

	if err := cache.Del(ctx, "key"); err != nil {
		t.Fatalf("expected no error on delete, got %v", err)
	}
	if stored, _ := cache.Get(ctx, "key"); stored != nil {
		t.Fatalf("expected key to be released, got %+v", stored)
	}
	if err := cache.Del(ctx, "never-set"); err != nil {
		t.Fatalf("expected deleting an absent key to succeed, got %v", err)
	}
}
