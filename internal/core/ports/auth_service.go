package ports

import (
	"context"
	"time"
)

// AuthResult is the outcome of register/login. Business failures are
// carried as data (Success=false plus Message); Token and Expiry are set
// only on success so the transport can issue the session cookie.
type AuthResult struct {
	Success bool
	Message string
	Token   string
	Expiry  time.Time
}

// SessionResult is the outcome of session validation. On any failure the
// transport must clear the client-side cookie.
type SessionResult struct {
	Success  bool
	Username string
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (AuthResult, error)
	Login(ctx context.Context, username, password string) (AuthResult, error)
	ValidateSession(ctx context.Context, token string) (SessionResult, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	Logout(ctx context.Context, token string) error
}
