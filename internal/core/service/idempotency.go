package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/port"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
)

type IdempotencyStatus string

const (
	IdempotencyProcessing IdempotencyStatus = "processing"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

type IdempotencyEntry[T any] struct {
	Status      IdempotencyStatus `json:"status"`
	Fingerprint string            `json:"fingerprint"`
	Result      *T                `json:"result,omitempty"`
}

// IdempotencyService deduplicates requests carrying the same key. The first
// caller claims the key; later callers wait for its result or fail fast when
// the payload differs.
type IdempotencyService[T any] struct {
	store        port.CachePort[IdempotencyEntry[T]]
	ttl          time.Duration
	pollInterval time.Duration
	pollTimeout  time.Duration
}

const (
	defaultIdempotencyTTL         = 24 * time.Hour
	defaultIdempotencyPollEvery   = 100 * time.Millisecond
	defaultIdempotencyPollTimeout = 5 * time.Second
)

// NewIdempotencyService replaces non-positive durations with the defaults.
func NewIdempotencyService[T any](
	store port.CachePort[IdempotencyEntry[T]],
	ttl time.Duration,
	pollInterval time.Duration,
	pollTimeout time.Duration,
) *IdempotencyService[T] {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	if pollInterval <= 0 {
		pollInterval = defaultIdempotencyPollEvery
	}
	if pollTimeout <= 0 {
		pollTimeout = defaultIdempotencyPollTimeout
	}
	return &IdempotencyService[T]{
		store:        store,
		ttl:          ttl,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

func Fingerprint(payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("idempotency fingerprint: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Do runs fn at most once per key while the entry lives. A failed fn releases
// the key so the client can retry with it.
func (s *IdempotencyService[T]) Do(ctx context.Context, key string, payload any, fn func(ctx context.Context) (*T, error)) (*T, error) {
	fingerprint, err := Fingerprint(payload)
	if err != nil {
		return nil, err
	}

	existing, err := s.Claim(ctx, key, fingerprint)
	if err != nil {
		logger.Error(ctx, "idempotency: claim failed", err, map[string]any{
			"idempotency_key": key,
		})
		return nil, err
	}
	if existing != nil {
		logger.Info(ctx, "idempotency: replaying stored result", map[string]any{
			"idempotency_key": key,
		})
		return existing, nil
	}

	result, err := fn(ctx)
	if err != nil {
		s.Release(ctx, key)
		return nil, err
	}

	s.Complete(ctx, key, fingerprint, result)
	return result, nil
}

// Claim returns a nil result when the caller now owns the key.
func (s *IdempotencyService[T]) Claim(ctx context.Context, key, fingerprint string) (*T, error) {
	claimed, err := s.store.SetNX(ctx, key, &IdempotencyEntry[T]{
		Status:      IdempotencyProcessing,
		Fingerprint: fingerprint,
	}, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("idempotency claim failed: %w", err)
	}

	if claimed {
		return nil, nil
	}

	return s.awaitResult(ctx, key, fingerprint)
}

func (s *IdempotencyService[T]) Complete(ctx context.Context, key, fingerprint string, result *T) {
	err := s.store.Set(ctx, key, &IdempotencyEntry[T]{
		Status:      IdempotencyCompleted,
		Fingerprint: fingerprint,
		Result:      result,
	}, s.ttl)
	if err != nil {
		logger.Error(ctx, "idempotency: complete failed", err, map[string]any{
			"idempotency_key": key,
		})
	}
}

func (s *IdempotencyService[T]) Release(ctx context.Context, key string) {
	if err := s.store.Del(ctx, key); err != nil {
		logger.Error(ctx, "idempotency: release failed", err, map[string]any{
			"idempotency_key": key,
		})
	}
}

func (s *IdempotencyService[T]) inspect(ctx context.Context, key, fingerprint string) (*T, error) {
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if entry == nil {
		return nil, serviceerrors.NewConflictError("previous request failed, retry with the same key")
	}
	if entry.Fingerprint != fingerprint {
		return nil, serviceerrors.NewUnprocessableEntityError("idempotency key already used with a different payload")
	}
	if entry.Status == IdempotencyCompleted {
		return entry.Result, nil
	}
	return nil, nil
}

func (s *IdempotencyService[T]) awaitResult(ctx context.Context, key, fingerprint string) (*T, error) {
	result, err := s.inspect(ctx, key, fingerprint)
	if result != nil || err != nil {
		return result, err
	}

	deadline := time.NewTimer(s.pollTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, serviceerrors.NewConflictError("idempotency key still being processed, timed out")
		case <-ticker.C:
			result, err := s.inspect(ctx, key, fingerprint)
			if result != nil || err != nil {
				return result, err
			}
		}
	}
}
