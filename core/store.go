package core

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpiringStore is an in-memory, single-use cache. Put hands out a token,
// Take consumes the value behind it, and anything not taken within the TTL
// is dropped.
//
// The zero value is ready to use with the defaults of NewExpiringStore.
//
// The store owns no goroutines or timers. Hosts that want stale entries
// purged even when nobody calls Take should invoke Sweep on a schedule (see
// ScheduleSweep).
type ExpiringStore[V any] struct {
	mu       sync.Mutex
	data     map[string]Entry[V]
	ttl      time.Duration
	now      func() time.Time
	newToken TokenGenerator
	logger   *zap.Logger
}

// Put stores value and returns its token. If the generated token collides
// with a live entry nothing is stored and the empty string is returned.
func (s *ExpiringStore[V]) Put(value V) string {
	token, err := s.TryPut(value)
	if err != nil {
		s.logger.Error("encountered duplicate key in expiring store", zap.Error(err))
		return ""
	}
	return token
}

// TryPut is Put with the duplicate condition reported as ErrDuplicateKey.
func (s *ExpiringStore[V]) TryPut(value V) (string, error) {
	e, err := s.Insert(value)
	return e.Token, err
}

// Insert is TryPut returning the stored entry, so callers can derive the
// expiry from the actual insertion time.
func (s *ExpiringStore[V]) Insert(value V) (Entry[V], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initLocked()

	token := s.newToken()
	now := s.now()
	if e, ok := s.data[token]; ok && !s.expired(e, now) {
		return Entry[V]{}, ErrDuplicateKey
	}
	e := Entry[V]{
		Token:      token,
		Value:      value,
		InsertedAt: now,
	}
	s.data[token] = e
	return e, nil
}

// Take removes and returns the value stored under token. The second result
// is false when the token is unknown, already taken or expired.
func (s *ExpiringStore[V]) Take(token string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initLocked()

	s.sweepLocked(s.now())

	e, ok := s.data[token]
	if !ok {
		var zero V
		return zero, false
	}
	delete(s.data, token)
	return e.Value, true
}

// Sweep drops every entry older than the TTL.
func (s *ExpiringStore[V]) Sweep() {
	s.mu.Lock()
	s.initLocked()
	n := s.sweepLocked(s.now())
	s.mu.Unlock()

	if n > 0 {
		s.logger.Debug("swept expired entries", zap.Int("count", n))
	}
}

// Len returns the number of entries held, including expired entries that
// have not been swept yet.
func (s *ExpiringStore[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// TTL returns the configured time-to-live.
func (s *ExpiringStore[V]) TTL() time.Duration {
	if s.ttl <= 0 {
		return DefaultTTL
	}
	return s.ttl
}

// initLocked fills in defaults for a zero-value store.
func (s *ExpiringStore[V]) initLocked() {
	if s.data == nil {
		s.data = make(map[string]Entry[V])
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newToken == nil {
		s.newToken = UUIDTokens()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
}

func (s *ExpiringStore[V]) sweepLocked(now time.Time) int {
	removed := 0
	for token, e := range s.data {
		if s.expired(e, now) {
			delete(s.data, token)
			removed++
		}
	}
	return removed
}

// expired reports whether e was inserted strictly before now-TTL.
func (s *ExpiringStore[V]) expired(e Entry[V], now time.Time) bool {
	return e.InsertedAt.Before(now.Add(-s.ttl))
}
