// Package security holds the credential primitives: bcrypt password digests
// and HS256 bearer tokens.
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/authlab/auth-backend/internal/core/domain"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// BcryptHasher hashes passwords with bcrypt. The digest embeds the algorithm
// tag ($2a$, $2b$, $2y$), cost and salt, so any previously stored digest stays
// verifiable after the configured cost changes.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, clamped to bcrypt's bounds.
// A zero cost selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" || len(plain) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password must be 1-%d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest. A malformed digest is a mismatch.
func (h *BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// Cost returns the work factor used for new digests.
func (h *BcryptHasher) Cost() int {
	return h.cost
}
