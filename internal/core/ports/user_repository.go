package ports

import (
	"context"

	"github.com/authlab/auth-backend/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
// Lookups return domain.ErrUserNotFound when no row matches; a unique email
// violation surfaces as domain.ErrEmailConflict.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Insert stores a new user and returns it with the store-assigned ID.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// Save persists in-place changes to an existing user.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	Ping(ctx context.Context) error
}
