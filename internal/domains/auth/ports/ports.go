package ports

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email not verified")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrInvalidToken       = errors.New("token is invalid or expired")
)

// TokenRevoker is the access-token denylist. Revoked tokens stay listed at
// least until their expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Mailer delivers verification codes to account holders.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}
