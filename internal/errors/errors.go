package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers "no such account", "no credential record"
	// and "wrong password" uniformly so a caller cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailAlreadyInUse = errors.New("email already in use")

	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports malformed caller input. Unlike the credential
// errors it is always safe to detail.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AccountLockedError replaces ErrInvalidCredentials once an account is
// locked. The lock state is deliberately disclosed: the attempt count is
// already observable through the generic error path, so hiding it only
// hurts the legitimate owner.
type AccountLockedError struct {
	RemainingMinutes int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minutes", e.RemainingMinutes)
}
