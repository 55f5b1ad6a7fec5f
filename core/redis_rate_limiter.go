package core

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ RateLimiter = (*RedisRateLimiter)(nil)

// incrWithinLimit increments KEYS[1] unless it already reached ARGV[1].
// The window (ARGV[2], milliseconds) starts with the first increment.
var incrWithinLimit = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= tonumber(ARGV[1]) then
	return 0
end
current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 1
`)

// RedisRateLimiter shares deposit counters between service replicas.
type RedisRateLimiter struct {
	client    redis.Scripter
	keyPrefix string
}

func NewRedisRateLimiter(client redis.Scripter, keyPrefix string) *RedisRateLimiter {
	if keyPrefix == "" {
		keyPrefix = "media-rate:"
	}
	return &RedisRateLimiter{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *RedisRateLimiter) key(clientID string) string {
	return fmt.Sprintf("%s%s", r.keyPrefix, clientID)
}

func (r *RedisRateLimiter) CheckAndIncrement(ctx context.Context, clientID string, limit int, window time.Duration) error {
	if window <= 0 {
		return ErrInvalidRateWindow
	}

	allowed, err := incrWithinLimit.Run(ctx, r.client, []string{r.key(clientID)}, limit, window.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("rate limit %s: %w", clientID, err)
	}
	if allowed == 0 {
		return ErrRateLimitExceeded
	}
	return nil
}
