package ports

import (
	"context"

	"github.com/authlab/auth-backend/internal/core/domain"
)

// RegisterInput carries the fields accepted by registration.
type RegisterInput struct {
	Name     string
	Lastname string
	Email    string
	Role     domain.Role // empty defaults to domain.RoleUser
	Password string
}

// AccessToken is the result of a successful login.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Deactivate(ctx context.Context, id int64) error
	Login(ctx context.Context, email, password string) (*AccessToken, error)
	Logout(ctx context.Context) string
	Get(ctx context.Context, id int64) (*domain.User, error)
}
