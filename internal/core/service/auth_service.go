package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/SpiritX-2025-CodeChefs/auth-api/internal/core/domain"
	"github.com/SpiritX-2025-CodeChefs/auth-api/internal/core/ports"
)

// tokenBytes is the entropy of a session token: 32 random bytes,
// hex-encoded to 64 characters.
const tokenBytes = 32

const (
	msgUsernameTooShort = "username too short"
	msgPasswordTooWeak  = "password does not meet complexity rules"
	msgUsernameTaken    = "username already taken"
	msgBadCredentials   = "invalid username or password"
)

// AuthService implements registration, login, session validation,
// username availability, and logout over a CredentialStore.
type AuthService struct {
	store ports.CredentialStore
	now   func() time.Time
}

func NewAuthService(store ports.CredentialStore) *AuthService {
	return &AuthService{store: store, now: time.Now}
}

// Register creates an account and auto-authenticates it: a session is
// issued immediately so the caller can set the cookie without a separate
// login round-trip.
func (s *AuthService) Register(ctx context.Context, username, password string) (ports.AuthResult, error) {
	if !domain.ValidateUsername(username) {
		return ports.AuthResult{Message: msgUsernameTooShort}, nil
	}
	if !domain.ValidatePassword(password) {
		return ports.AuthResult{Message: msgPasswordTooWeak}, nil
	}

	_, err := s.store.FindUserByUsername(ctx, username)
	switch {
	case err == nil:
		return ports.AuthResult{Message: msgUsernameTaken}, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return ports.AuthResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ports.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.store.CreateUser(ctx, username, string(hash))
	if err != nil {
		// The username check above races with concurrent registrations;
		// the unique index is the authoritative arbiter.
		if errors.Is(err, domain.ErrUserExists) {
			return ports.AuthResult{Message: msgUsernameTaken}, nil
		}
		return ports.AuthResult{}, err
	}

	return s.issueSession(ctx, userID)
}

// Login verifies credentials and issues a fresh session. Unknown username
// and wrong password produce the same message so the endpoint cannot be
// used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (ports.AuthResult, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return ports.AuthResult{Message: msgBadCredentials}, nil
		}
		return ports.AuthResult{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ports.AuthResult{Message: msgBadCredentials}, nil
	}

	return s.issueSession(ctx, user.ID)
}

// ValidateSession resolves a session token to its username. Expired
// sessions are deleted on discovery. Any failure means the caller should
// clear the client-side cookie.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (ports.SessionResult, error) {
	if token == "" {
		return ports.SessionResult{}, nil
	}

	session, err := s.store.FindSession(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return ports.SessionResult{}, nil
		}
		return ports.SessionResult{}, err
	}

	if session.Expired(s.now()) {
		if _, err := s.store.DeleteSession(ctx, token); err != nil {
			return ports.SessionResult{}, err
		}
		return ports.SessionResult{}, nil
	}

	user, err := s.store.FindUserByID(ctx, session.UserID)
	if err != nil {
		// Dangling user reference is treated like an invalid session.
		if errors.Is(err, domain.ErrUserNotFound) {
			return ports.SessionResult{}, nil
		}
		return ports.SessionResult{}, err
	}

	return ports.SessionResult{Success: true, Username: user.Username}, nil
}

// UsernameAvailable reports whether the username could be registered.
// A name that fails the format rule is reported unavailable rather than
// rejected; this endpoint never fails for business reasons.
func (s *AuthService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if !domain.ValidateUsername(username) {
		return false, nil
	}
	_, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// Logout deletes the session if one exists. Idempotent: a missing or
// empty token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	_, err := s.store.DeleteSession(ctx, token)
	return err
}

func (s *AuthService) issueSession(ctx context.Context, userID string) (ports.AuthResult, error) {
	token, err := generateToken()
	if err != nil {
		return ports.AuthResult{}, err
	}
	expiry, err := s.store.CreateSession(ctx, userID, token)
	if err != nil {
		return ports.AuthResult{}, err
	}
	return ports.AuthResult{Success: true, Token: token, Expiry: expiry}, nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
