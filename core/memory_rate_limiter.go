package core

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

var _ RateLimiter = (*MemoryRateLimiter)(nil)

// MemoryRateLimiter keeps per-client counters in process memory. Each
// counter expires together with its window.
type MemoryRateLimiter struct {
	mu       sync.Mutex
	counters *cache.Cache
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		counters: cache.New(cache.NoExpiration, time.Minute),
	}
}

func (r *MemoryRateLimiter) CheckAndIncrement(_ context.Context, clientID string, limit int, window time.Duration) error {
	if window <= 0 {
		return ErrInvalidRateWindow
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Add only succeeds when no live counter exists, i.e. a new window starts.
	if err := r.counters.Add(clientID, 1, window); err == nil {
		return nil
	}

	count, found := r.counters.Get(clientID)
	if !found {
		r.counters.Set(clientID, 1, window)
		return nil
	}
	if count.(int) >= limit {
		return ErrRateLimitExceeded
	}

	if _, err := r.counters.IncrementInt(clientID, 1); err != nil {
		// window ran out between Get and IncrementInt
		r.counters.Set(clientID, 1, window)
	}
	return nil
}
