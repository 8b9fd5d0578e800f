package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/authlab/auth-backend/internal/core/domain"
	"github.com/authlab/auth-backend/internal/core/ports"
)

const (
	// AccessTokenTTL is the lifetime of tokens issued by Login.
	AccessTokenTTL = 5 * time.Minute
	TokenType      = "bearer"
	LogoutMessage  = "Logout successful"

	dummyPassword = "dummy-password-for-unknown-email"
)

// AuthService implements registration, profile maintenance and login.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	logger zerolog.Logger

	// dummyDigest is verified against on unknown emails so both login
	// failures pay for one hash comparison.
	dummyDigest string
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	digest, err := hasher.Hash(dummyPassword)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to precompute dummy password digest")
	}
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, logger: logger, dummyDigest: digest}
}

// Register creates an active user. An existing email is rejected up front; a
// concurrent registration that slips past the check is rejected by the store's
// unique constraint with the same error.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	email := strings.TrimSpace(in.Email)

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailConflict
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, &domain.User{
		Name:           in.Name,
		Lastname:       in.Lastname,
		Email:          email,
		HashedPassword: digest,
		Role:           role,
		IsActive:       true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Update overwrites only the fields present in patch. Email uniqueness is left
// to the store constraint.
func (s *AuthService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, *patch.Role)
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		patch.Email = &email
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return user, nil
	}

	patch.Apply(user)
	return s.repo.Save(ctx, user)
}

// Deactivate is the logical delete: the row stays, is_active becomes false.
func (s *AuthService) Deactivate(ctx context.Context, id int64) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	user.IsActive = false
	if _, err := s.repo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("user deactivated")
	return nil
}

// Login verifies credentials and issues a short-lived bearer token. Unknown
// email and wrong password yield the same error after the same amount of
// hashing work.
//
// is_active is not consulted here, so deactivated users can still log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AccessToken, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(strconv.FormatInt(user.ID, 10), user.Role, AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	return &ports.AccessToken{AccessToken: token, TokenType: TokenType}, nil
}

// Logout only acknowledges: tokens are stateless and expire on their own.
func (s *AuthService) Logout(_ context.Context) string {
	return LogoutMessage
}

func (s *AuthService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}
