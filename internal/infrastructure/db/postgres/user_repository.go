package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/authlab/auth-backend/internal/core/domain"
)

// uniqueViolation is the SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// DBTX is the subset of *sql.DB and *sql.Tx used by the repository.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, lastname, email, hashed_password, role, is_active, created_at, updated_at`

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	query :=
		`INSERT INTO users (name, lastname, email, hashed_password, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	created := *user
	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Lastname, user.Email, user.HashedPassword, string(user.Role), user.IsActive,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, translate("insert user", err)
	}
	return &created, nil
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	query :=
		`UPDATE users
		 SET name = $2, lastname = $3, email = $4, hashed_password = $5, role = $6, is_active = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`

	saved := *user
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Lastname, user.Email, user.HashedPassword, string(user.Role), user.IsActive,
	).Scan(&saved.UpdatedAt)
	if err != nil {
		return nil, translate("save user", err)
	}
	return &saved, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Lastname, &u.Email, &u.HashedPassword, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate("find user", err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}

// translate maps driver errors onto the domain taxonomy.
func translate(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrEmailConflict
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStorage, op, err)
}
