package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"client-updates-backend/internal/user"
)

type fakeTokenService struct {
	claims *TokenClaims
	err    error
}

func (f *fakeTokenService) CreateToken(email string, duration time.Duration) (string, error) {
	return "token", nil
}

func (f *fakeTokenService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

type fakeUserResolver struct {
	user *user.User
	err  error
}

func (f *fakeUserResolver) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func runMiddleware(t *testing.T, m *Middleware, authHeader string) (*httptest.ResponseRecorder, *user.User) {
	t.Helper()

	var captured *user.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	m.RequireUser(next).ServeHTTP(rec, req)
	return rec, captured
}

func TestRequireUserMissingHeader(t *testing.T) {
	m := NewMiddleware(&fakeTokenService{}, &fakeUserResolver{})

	rec, _ := runMiddleware(t, m, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUserMalformedHeader(t *testing.T) {
	m := NewMiddleware(&fakeTokenService{}, &fakeUserResolver{})

	for _, header := range []string{"Bearer", "Basic abc", "Bearer a b", "justatoken"} {
		rec, _ := runMiddleware(t, m, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestRequireUserInvalidToken(t *testing.T) {
	m := NewMiddleware(&fakeTokenService{err: ErrInvalidToken}, &fakeUserResolver{})

	rec, _ := runMiddleware(t, m, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUserExpiredToken(t *testing.T) {
	m := NewMiddleware(&fakeTokenService{err: ErrExpiredToken}, &fakeUserResolver{})

	rec, _ := runMiddleware(t, m, "Bearer expired-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token_expired")
}

func TestRequireUserVanishedUser(t *testing.T) {
	tokens := &fakeTokenService{claims: &TokenClaims{Email: "gone@example.com"}}
	m := NewMiddleware(tokens, &fakeUserResolver{err: user.ErrNotFound})

	rec, _ := runMiddleware(t, m, "Bearer some-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUserSuccess(t *testing.T) {
	resolved := &user.User{
		ID:       uuid.New(),
		Name:     "Alice",
		Email:    "alice@example.com",
		IsActive: true,
	}
	tokens := &fakeTokenService{claims: &TokenClaims{Email: "alice@example.com"}}
	m := NewMiddleware(tokens, &fakeUserResolver{user: resolved})

	rec, captured := runMiddleware(t, m, "Bearer good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, resolved.ID, captured.ID)
}

func TestUserFromContextAbsent(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}
