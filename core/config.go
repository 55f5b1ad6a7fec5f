package core

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL is how long an untaken entry stays retrievable.
const DefaultTTL = time.Minute

type StoreConfig struct {
	TTL      time.Duration
	Now      func() time.Time
	NewToken TokenGenerator
	Logger   *zap.Logger
}

// NewExpiringStore builds a store, filling unset fields of cfg with defaults.
func NewExpiringStore[V any](cfg StoreConfig) *ExpiringStore[V] {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	newToken := cfg.NewToken
	if newToken == nil {
		newToken = UUIDTokens()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpiringStore[V]{
		data:     make(map[string]Entry[V]),
		ttl:      ttl,
		now:      nowFn,
		newToken: newToken,
		logger:   logger,
	}
}

type ManagerOptions struct {
	Secret         string
	TTL            time.Duration
	RedisAddr      string
	RedisKeyPrefix string
	RateLimit      int
	RateWindow     time.Duration
	Logger         *zap.Logger
}

// NewManagerWithOptions wires a Manager with an in-memory media store and,
// when RateLimit is set, a rate limiter backed by redis (RedisAddr) or by
// process memory.
func NewManagerWithOptions(opts ManagerOptions) (*Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var rateLimiter RateLimiter
	var closer func() error
	if opts.RateLimit > 0 {
		if opts.RedisAddr != "" {
			client := redis.NewClient(&redis.Options{
				Addr: opts.RedisAddr,
			})
			rateLimiter = NewRedisRateLimiter(client, opts.RedisKeyPrefix)
			closer = client.Close
		} else {
			rateLimiter = NewMemoryRateLimiter()
		}
	}

	rateWindow := opts.RateWindow
	if rateWindow <= 0 && opts.RateLimit > 0 {
		rateWindow = 1 * time.Hour
	}

	store := NewExpiringStore[Media](StoreConfig{
		TTL:    opts.TTL,
		Logger: logger.Named("store"),
	})

	m, err := NewManager(Config{
		Store:       store,
		Signer:      NewSigner(opts.Secret),
		RateLimiter: rateLimiter,
		RateLimit:   opts.RateLimit,
		RateWindow:  rateWindow,
		Logger:      logger,
	})
	if err != nil {
		if closer != nil {
			_ = closer()
		}
		return nil, err
	}
	m.closer = closer
	return m, nil
}
