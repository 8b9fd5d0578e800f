package ports

import (
	"time"

	"github.com/authlab/auth-backend/internal/core/domain"
)

// PasswordHasher produces and checks self-describing salted digests.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenClaims is the identity decoded from a verified access token.
type TokenClaims struct {
	Subject   string
	Role      domain.Role
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(subject string, role domain.Role, ttl time.Duration) (string, error)
	Verify(token string) (*TokenClaims, error)
}
