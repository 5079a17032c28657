package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"client-updates-backend/internal/httputil"
	"client-updates-backend/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const userContextKey ContextKey = "current_user"

// Middleware is the access gateway for protected routes: it extracts the
// bearer token, validates it and resolves the embedded email to a user
// record. Handlers take the owner identity only from the request context,
// never from client-supplied bodies or paths.
type Middleware struct {
	tokenService TokenService
	users        UserResolver
}

func NewMiddleware(tokenService TokenService, users UserResolver) *Middleware {
	return &Middleware{tokenService: tokenService, users: users}
}

// RequireUser validates the access token and loads the calling user
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokenService.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		// The token may outlive the account it was issued for
		currentUser, err := m.users.GetByEmail(r.Context(), claims.Email)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid authentication credentials", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), currentUser)))
	})
}

// ContextWithUser returns a copy of ctx carrying the authenticated user
func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext extracts the authenticated user from the request context
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userContextKey).(*user.User)
	return u, ok
}
