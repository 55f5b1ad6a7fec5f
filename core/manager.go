package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// MediaStore is the part of ExpiringStore the Manager depends on.
type MediaStore interface {
	Insert(value Media) (Entry[Media], error)
	Take(token string) (Media, bool)
	Sweep()
	Len() int
	TTL() time.Duration
}

var _ MediaStore = (*ExpiringStore[Media])(nil)

// Manager hands out signed one-time links to media held in an expiring store.
type Manager struct {
	store       MediaStore
	signer      *Signer
	rateLimiter RateLimiter
	rateLimit   int
	rateWindow  time.Duration
	logger      *zap.Logger
	closer      func() error
}

type Config struct {
	Store       MediaStore
	Signer      *Signer
	RateLimiter RateLimiter
	RateLimit   int
	RateWindow  time.Duration
	Logger      *zap.Logger
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Signer == nil || len(cfg.Signer.secret) == 0 {
		return nil, fmt.Errorf("signing secret is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:       cfg.Store,
		signer:      cfg.Signer,
		rateLimiter: cfg.RateLimiter,
		rateLimit:   cfg.RateLimit,
		rateWindow:  cfg.RateWindow,
		logger:      logger,
	}, nil
}

// Share deposits media and returns a link that can be redeemed exactly once
// within the store TTL.
func (m *Manager) Share(ctx context.Context, clientID string, media Media) (Link, error) {
	if clientID == "" {
		return Link{}, fmt.Errorf("client id is required")
	}
	if err := media.validate(); err != nil {
		return Link{}, err
	}
	if media.ContentType == "" {
		media.ContentType = defaultContentType
	}

	// The quota counts attempts, so it is charged before the insert. A
	// rejected insert is not refunded.
	if m.rateLimiter != nil && m.rateLimit > 0 {
		if err := m.rateLimiter.CheckAndIncrement(ctx, clientID, m.rateLimit, m.rateWindow); err != nil {
			return Link{}, err
		}
	}

	entry, err := m.store.Insert(media)
	if err != nil {
		m.logger.Error("failed to store media", zap.String("client_id", clientID), zap.Error(err))
		return Link{}, err
	}
	token := entry.Token

	payload, err := EncodePayload(token, m.signer.Sign(token))
	if err != nil {
		return Link{}, err
	}

	m.logger.Debug("media shared",
		zap.String("client_id", clientID),
		zap.String("name", media.Name),
		zap.Int("size", len(media.Data)),
	)

	return Link{
		Token:     token,
		Payload:   payload,
		ExpiresAt: entry.InsertedAt.Add(m.store.TTL()),
	}, nil
}

// Redeem consumes the media behind payload. Unknown, expired and already
// redeemed links all yield ErrNotFound.
func (m *Manager) Redeem(_ context.Context, encoded string) (Media, error) {
	data, err := DecodePayload(encoded)
	if err != nil {
		return Media{}, err
	}
	if !m.signer.Verify(data.Token, data.Sig) {
		return Media{}, ErrBadSignature
	}

	media, ok := m.store.Take(data.Token)
	if !ok {
		return Media{}, ErrNotFound
	}
	return media, nil
}

// Sweep purges expired media. It is the target of the scheduled clean-up.
func (m *Manager) Sweep() {
	m.store.Sweep()
}

// Pending returns how many entries the store currently holds.
func (m *Manager) Pending() int {
	return m.store.Len()
}

// Close releases connections opened by NewManagerWithOptions.
func (m *Manager) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer()
}
