package core

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter(t *testing.T) {
	r := NewMemoryRateLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, r.CheckAndIncrement(ctx, "a", 3, time.Hour))
	}
	assert.ErrorIs(t, r.CheckAndIncrement(ctx, "a", 3, time.Hour), ErrRateLimitExceeded)
	assert.NoError(t, r.CheckAndIncrement(ctx, "b", 3, time.Hour))
}

func TestMemoryRateLimiter_WindowResets(t *testing.T) {
	r := NewMemoryRateLimiter()
	ctx := context.Background()

	require.NoError(t, r.CheckAndIncrement(ctx, "a", 1, 20*time.Millisecond))
	assert.ErrorIs(t, r.CheckAndIncrement(ctx, "a", 1, 20*time.Millisecond), ErrRateLimitExceeded)

	time.Sleep(40 * time.Millisecond)
	assert.NoError(t, r.CheckAndIncrement(ctx, "a", 1, 20*time.Millisecond))
}

func TestRedisRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := NewRedisRateLimiter(client, "")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, r.CheckAndIncrement(ctx, "a", 2, time.Minute))
	}
	assert.ErrorIs(t, r.CheckAndIncrement(ctx, "a", 2, time.Minute), ErrRateLimitExceeded)
	assert.NoError(t, r.CheckAndIncrement(ctx, "b", 2, time.Minute))

	assert.True(t, mr.Exists("media-rate:a"))
	assert.Equal(t, time.Minute, mr.TTL("media-rate:a"))

	mr.FastForward(time.Minute + time.Second)
	assert.NoError(t, r.CheckAndIncrement(ctx, "a", 2, time.Minute))
}

func TestRedisRateLimiter_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	err := NewRedisRateLimiter(client, "p:").CheckAndIncrement(context.Background(), "a", 1, time.Minute)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimitExceeded)
}

func TestRateLimiter_RejectsNonPositiveWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	for name, r := range map[string]RateLimiter{
		"memory": NewMemoryRateLimiter(),
		"redis":  NewRedisRateLimiter(client, ""),
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, r.CheckAndIncrement(ctx, "a", 1, -time.Second), ErrInvalidRateWindow)
			assert.ErrorIs(t, r.CheckAndIncrement(ctx, "a", 1, 0), ErrInvalidRateWindow)
			require.NoError(t, r.CheckAndIncrement(ctx, "a", 1, time.Minute))
		})
	}
}
