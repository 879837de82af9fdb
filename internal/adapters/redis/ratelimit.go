package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rafaelleal24/sales/internal/adapters/http/middleware"
)

// Fixed window counter. Returns the hit count and the window's remaining ttl in ms.
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {count, ttl}
`)

type RateLimiter struct {
	client *Client
}

func NewRateLimiter(client *Client) middleware.RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (middleware.Decision, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)
	values, err := rateLimitScript.Run(ctx, r.client.rdb, []string{redisKey}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return middleware.Decision{}, err
	}
	if len(values) != 2 {
		return middleware.Decision{}, fmt.Errorf("rate limit script returned %d values", len(values))
	}

	count, ttl := int(values[0]), values[1]
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	decision := middleware.Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
	}
	if !decision.Allowed && ttl > 0 {
		decision.RetryAfter = time.Duration(ttl) * time.Millisecond
	}
	return decision, nil
}
