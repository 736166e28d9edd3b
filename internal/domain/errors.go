package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the targeted record does not exist (or no longer exists).
	ErrNotFound = errors.New("record not found")

	// ErrForbidden indicates the remote store rejected the operation for the
	// current identity. Authorization is enforced remotely, never locally.
	ErrForbidden = errors.New("operation forbidden for current identity")

	// ErrInvalidCredentials indicates a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail indicates sign-up with an already registered email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrWeakPassword indicates a password shorter than the minimum of 6 characters.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

// ValidationError reports required fields missing or malformed on create.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record: %s", strings.Join(e.Fields, ", "))
}

// IsAuthError reports whether err belongs to the authentication error class.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrWeakPassword)
}
