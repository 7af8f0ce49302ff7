package store

import (
	"crypto/rand"
	"fmt"
)

const (
	idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength   = 8

	// How many fresh tokens Append tries before giving up on a colliding id.
	MaxIDAttempts = 5
)

// NewID returns a short opaque upper-case alphanumeric token. Tokens are
// random, so callers that need uniqueness within a store must check for
// collisions and retry.
func NewID() (string, error) {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes for id: %w", err)
	}

	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf), nil
}
