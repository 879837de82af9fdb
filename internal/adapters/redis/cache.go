package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rafaelleal24/sales/internal/core/port"
)

// Cache stores JSON encoded values under "<namespace>:<key>".
type Cache[T any] struct {
	client    *Client
	namespace string
}

func NewCache[T any](client *Client, namespace string) port.CachePort[T] {
	return &Cache[T]{client: client, namespace: namespace}
}

func (c *Cache[T]) key(id string) string {
	return fmt.Sprintf("%s:%s", c.namespace, id)
}

func (c *Cache[T]) encode(value *T) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("redis cache %s: encode: %w", c.namespace, err)
	}
	return data, nil
}

// Get returns nil without error when the key is absent or expired.
func (c *Cache[T]) Get(ctx context.Context, id string) (*T, error) {
	data, err := c.client.Get(ctx, c.key(id))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("redis cache %s: decode: %w", c.namespace, err)
	}
	return &value, nil
}

func (c *Cache[T]) Set(ctx context.Context, id string, value *T, ttl time.Duration) error {
	data, err := c.encode(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(id), data, ttl)
}

func (c *Cache[T]) SetNX(ctx context.Context, id string, value *T, ttl time.Duration) (bool, error) {
	data, err := c.encode(value)
	if err != nil {
		return false, err
	}
	return c.client.SetNX(ctx, c.key(id), data, ttl)
}

func (c *Cache[T]) Del(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id))
}
