package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const tokenBytes = 32

// RandomTokenSource issues opaque session tokens from the OS entropy pool.
// Tokens carry no encoded meaning; every session attribute is resolved
// server-side through the session store.
type RandomTokenSource struct{}

func NewRandomTokenSource() *RandomTokenSource {
	return &RandomTokenSource{}
}

func (RandomTokenSource) NewToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read token entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
