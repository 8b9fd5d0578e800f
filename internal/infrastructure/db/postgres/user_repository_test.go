package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authlab/auth-backend/internal/core/domain"
)

var columns = []string{"id", "name", "lastname", "email", "hashed_password", "role", "is_active", "created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(3), "Ann", "Lee", "ann@example.com", "$2a$digest", "admin", true, now, now))

	user, err := NewUserRepository(db).FindByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "$2a$digest", user.HashedPassword)
	assert.True(t, user.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := NewUserRepository(db).FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Insert(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Ann", "Lee", "ann@example.com", "$2a$digest", "user", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	in := &domain.User{Name: "Ann", Lastname: "Lee", Email: "ann@example.com", HashedPassword: "$2a$digest", Role: domain.RoleUser, IsActive: true}
	created, err := NewUserRepository(db).Insert(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, int64(0), in.ID, "input must not be mutated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Insert_UniqueViolation(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"})

	_, err := NewUserRepository(db).Insert(context.Background(), &domain.User{Email: "dup@example.com", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrEmailConflict)
}

func TestUserRepository_Save(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
		WithArgs(int64(5), "Ann", "Lee", "new@x.com", "$2a$digest", "user", false).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	saved, err := NewUserRepository(db).Save(context.Background(), &domain.User{
		ID: 5, Name: "Ann", Lastname: "Lee", Email: "new@x.com", HashedPassword: "$2a$digest", Role: domain.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, now, saved.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Save_EmailTaken(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err := NewUserRepository(db).Save(context.Background(), &domain.User{ID: 1, Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrEmailConflict)
}

func TestUserRepository_StorageErrorIsWrapped(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WillReturnError(errors.New("connection reset"))

	_, err := NewUserRepository(db).FindByEmail(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestUserRepository_Ping(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectPing()
	assert.NoError(t, NewUserRepository(db).Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.ErrorIs(t, NewUserRepository(db).Ping(context.Background()), domain.ErrStorage)
}

func TestMigrate_RunsEmbeddedMigrations(t *testing.T) {
	db, _ := newMock(t)

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, ".", gotDir)
}

func TestMigrate_PropagatesError(t *testing.T) {
	db, _ := newMock(t)

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	err := Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
