package core

import (
	"errors"
	"time"
)

// Entry is one stored value. InsertedAt is set once by Put and never changed.
type Entry[V any] struct {
	Token      string
	Value      V
	InsertedAt time.Time
}

var (
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrNotFound          = errors.New("media not found")
	ErrBadSignature      = errors.New("signature mismatch")
	ErrBadPayload        = errors.New("invalid payload")
	ErrInvalidMedia      = errors.New("invalid media")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrInvalidRateWindow = errors.New("rate window must be positive")
)
