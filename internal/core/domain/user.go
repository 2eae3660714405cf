package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrSessionNotFound = errors.New("session not found")

// User models a registered account. The password is stored only as a
// bcrypt hash; the plaintext never leaves the service boundary.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Session is a server-side login session. Token doubles as the primary
// key and is mirrored to the client in the session cookie.
type Session struct {
	Token  string    `json:"token"`
	UserID string    `json:"user_id"`
	Expiry time.Time `json:"expiry"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return s.Expiry.Before(now)
}
