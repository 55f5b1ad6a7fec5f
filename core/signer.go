package core

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Signer binds tokens to a server secret so links cannot be forged from a
// guessed token alone.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) Sign(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *Signer) Verify(token, signature string) bool {
	if token == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(s.Sign(token)), []byte(signature))
}
