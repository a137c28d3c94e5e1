// Package auth implements the authentication and authorization core:
// credential hashing, token issuance and verification, identity resolution,
// and the pure authorization policy functions.
package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultHashCost    = 12
	DefaultHashWorkers = 4
)

// Hasher performs one-way hashing and verification of account secrets.
// bcrypt is CPU-bound, so all hashing work runs under a weighted semaphore
// that bounds how many operations execute concurrently.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher returns a Hasher with the given bcrypt cost and concurrency
// bound. Out-of-range values fall back to the defaults.
func NewHasher(cost, maxConcurrent int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultHashWorkers
	}
	return &Hasher{cost: cost, sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

// Hash returns a salted bcrypt hash of secret. The salt is regenerated on
// every call, so repeated hashes of the same input differ while all of them
// verify. A failure here is an internal error and must abort the calling
// operation.
func (h *Hasher) Hash(ctx context.Context, secret string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("hash slot: %w", err)
	}
	defer h.sem.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify reports whether secret matches the bcrypt hash. The comparison is
// constant-time inside bcrypt. Malformed hash input never panics or errors
// out of this method; it simply verifies as false.
func (h *Hasher) Verify(ctx context.Context, secret, hashed string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}

// LooksHashed classifies a stored secret as bcrypt-hashed or legacy
// plaintext by structure alone: the "$2a$"/"$2b$"/"$2y$" version prefix,
// a two-digit cost marker, and the fixed encoded length. It never attempts
// verification. Anything that does not match is treated as plaintext.
func LooksHashed(value string) bool {
	if len(value) != 60 {
		return false
	}
	if value[0] != '$' || value[1] != '2' {
		return false
	}
	switch value[2] {
	case 'a', 'b', 'y':
	default:
		return false
	}
	if value[3] != '$' || value[6] != '$' {
		return false
	}
	return isDigit(value[4]) && isDigit(value[5])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
