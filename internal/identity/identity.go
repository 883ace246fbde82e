// Package identity verifies sessions issued by the external identity provider
// and resolves the caller's role from token claims.
package identity

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession means the token is missing, invalid or expired.
var ErrNoSession = errors.New("no valid session")

// Identity is the verified caller. Role is derived from claims on every
// request and never persisted.
type Identity struct {
	Sub   string
	Email string
	Name  string
	Role  string
}

// Tokens are the credentials kept in the session cookie.
type Tokens struct {
	IDToken      string
	RefreshToken string
	Expiry       time.Time
}

// Provider verifies and refreshes sessions.
type Provider interface {
	VerifySession(ctx context.Context, idToken string) (*Identity, error)
	RefreshSession(ctx context.Context, refreshToken string) (*Tokens, error)
}
