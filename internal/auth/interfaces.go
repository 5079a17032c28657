package auth

import (
	"context"
	"time"

	"client-updates-backend/internal/user"
)

// TokenService defines the interface for token creation and validation.
// PasetoService (PASETO v4.local) is the production implementation.
type TokenService interface {
	CreateToken(email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// UserResolver resolves a token's email claim to a user record. Implemented
// by user.Repository.
type UserResolver interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}
