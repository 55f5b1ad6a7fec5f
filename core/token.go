package core

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// TokenGenerator returns a fresh, hard to guess token on each call.
type TokenGenerator func() string

// UUIDTokens generates random (version 4) UUID strings.
func UUIDTokens() TokenGenerator {
	return uuid.NewString
}

// NumericTokens generates tokens of n random decimal digits. Like uuid.New,
// the generator panics if the system random source fails.
func NumericTokens(n int) TokenGenerator {
	if n <= 0 {
		n = 20
	}
	ten := big.NewInt(10)
	return func() string {
		buf := make([]byte, n)
		for i := range buf {
			d, err := rand.Int(rand.Reader, ten)
			if err != nil {
				panic(err)
			}
			buf[i] = byte('0' + d.Int64())
		}
		return string(buf)
	}
}
