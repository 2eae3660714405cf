package ports

import (
	"context"
	"time"

	"github.com/SpiritX-2025-CodeChefs/auth-api/internal/core/domain"
)

// CredentialStore defines the persistence contract for users and sessions.
// Lookups signal absence with domain.ErrUserNotFound / domain.ErrSessionNotFound;
// any other error is an infrastructure failure.
type CredentialStore interface {
	// CreateUser persists a new user and returns its generated id.
	// Returns domain.ErrUserExists when the username is already taken.
	CreateUser(ctx context.Context, username, passwordHash string) (string, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByID(ctx context.Context, id string) (*domain.User, error)

	// CreateSession persists a new session and returns the expiry the
	// store computed for it. Expiry is fixed at creation; no renewal.
	CreateSession(ctx context.Context, userID, token string) (time.Time, error)
	FindSession(ctx context.Context, token string) (*domain.Session, error)
	// DeleteSession removes the session, reporting whether one existed.
	DeleteSession(ctx context.Context, token string) (bool, error)
}
