package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"client-updates-backend/internal/database"
	"client-updates-backend/internal/logging"
	"client-updates-backend/internal/user"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	userRepo := user.NewRepository(database.NewBunDB(sqlDB))
	return NewService(userRepo, &fakeTokenService{}, logging.NewLogger(true), 30*time.Minute), mock
}

func userRow(id uuid.UUID, name, email, passwordHash string, isActive bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "is_active", "created_at"}).
		AddRow(id, name, email, passwordHash, isActive, time.Now())
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{"missing name", "", "a@b.com", "password123", ErrNameRequired},
		{"missing email", "Alice", "", "password123", ErrEmailRequired},
		{"bad email", "Alice", "not-an-email", "password123", ErrInvalidEmailFormat},
		{"missing password", "Alice", "a@b.com", "", ErrPasswordRequired},
		{"short password", "Alice", "a@b.com", "short", ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterSuccess(t *testing.T) {
	svc, mock := newTestService(t)

	id := uuid.New()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(userRow(id, "Alice", "alice@example.com", "hash", true))

	created, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.True(t, created.IsActive)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key"`))

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).WillReturnError(sql.ErrNoRows)

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, mock := newTestService(t)

	hash, err := HashPassword("the-right-password")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(uuid.New(), "Alice", "alice@example.com", hash, true))

	// A wrong password fails exactly like an unknown email
	_, err = svc.Authenticate(context.Background(), "alice@example.com", "the-wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	svc, mock := newTestService(t)

	hash, err := HashPassword("password123")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(uuid.New(), "Alice", "alice@example.com", hash, false))

	_, err = svc.Authenticate(context.Background(), "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrInactiveAccount)
}

func TestLoginIssuesBearerToken(t *testing.T) {
	svc, mock := newTestService(t)

	hash, err := HashPassword("password123")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(uuid.New(), "Alice", "alice@example.com", hash, true))

	tokens, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "token", tokens.AccessToken)
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.Equal(t, int64((30 * time.Minute).Seconds()), tokens.ExpiresIn)
}

func TestAuthenticateEmptyCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
