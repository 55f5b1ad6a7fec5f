package core

import (
	"fmt"
	"time"
)

const defaultContentType = "application/octet-stream"

// Media is the object deposited behind a one-time link.
type Media struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

func (m Media) validate() error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%w: data is required", ErrInvalidMedia)
	}
	return nil
}

// Link is what a depositor hands out. Payload is the signed, URL-safe form
// of Token and is the only thing Redeem accepts.
type Link struct {
	Token     string    `json:"token"`
	Payload   string    `json:"payload"`
	ExpiresAt time.Time `json:"expires_at"`
}
