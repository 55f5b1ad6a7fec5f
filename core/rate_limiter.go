package core

import (
	"context"
	"time"
)

// RateLimiter counts deposits per client in fixed windows.
type RateLimiter interface {
	CheckAndIncrement(ctx context.Context, clientID string, limit int, window time.Duration) error
}
