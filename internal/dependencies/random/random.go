package random

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// Random provides identifier and token generation that can be mocked for testing
type Random interface {
	// ID returns a new unique record identifier
	ID() string

	// Token returns an unguessable opaque token with the given prefix
	Token(prefix string) string
}

// CryptoRandom implements Random using uuid v4 and crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// ID returns a random UUID string
func (r *CryptoRandom) ID() string {
	return uuid.NewString()
}

// Token returns prefix followed by 32 random bytes, base64url encoded
func (r *CryptoRandom) Token(prefix string) string {
	b := make([]byte, 32)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
