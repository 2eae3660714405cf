package domain

import (
	"strings"
	"unicode/utf8"
)

const usernameMinLength = 8

// passwordSpecials is the accepted special-character set.
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// ValidateUsername reports whether the username meets the format rule:
// at least 8 characters, with no charset restriction. Counted in runes,
// not bytes, so multibyte usernames are measured by what the user typed.
// Uniqueness is a store concern, not checked here.
func ValidateUsername(username string) bool {
	return utf8.RuneCountInString(username) >= usernameMinLength
}

// ValidatePassword reports whether the password contains at least one
// lowercase ASCII letter, one uppercase ASCII letter, and one special
// character. There is no length or digit requirement.
func ValidatePassword(password string) bool {
	var lower, upper, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return lower && upper && special
}
