// Package validation checks user-supplied registration and profile input.
package validation

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
)

const maxNameLen = 100

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password is not strong enough")
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrNameTooLong  = errors.New("name is too long")
)

// ValidEmail reports whether s looks like a deliverable email address.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// ParseAddress accepts display names; require the bare address.
	return addr.Address == s
}

// StrongPassword requires at least 8 characters with an upper-case
// letter, a lower-case letter, a digit, and a non-alphanumeric
// character.
func StrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		default:
			if !unicode.IsLetter(c) && !unicode.IsNumber(c) {
				hasSpecial = true
			}
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}

// ValidateRegistration checks a registration request's name, email,
// and password.
func ValidateRegistration(name, email, password string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if !StrongPassword(password) {
		return ErrWeakPassword
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLen {
		return ErrNameTooLong
	}
	return nil
}

// ValidateProfile checks a profile update's name and email.
func ValidateProfile(name, email string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLen {
		return ErrNameTooLong
	}
	return nil
}
