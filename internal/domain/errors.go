package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested identity or patient record does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials is the uniform denial for unknown usernames and wrong
	// passwords alike; callers cannot tell which check failed.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrRateLimited rejects a login attempt before any credential check runs.
	ErrRateLimited = errors.New("too many login attempts")
	// ErrNoSession covers missing, unknown, and already-evicted session tokens.
	ErrNoSession      = errors.New("no active session")
	ErrSessionExpired = errors.New("session expired")
	// ErrInsufficientRole denies an authenticated identity whose role snapshot
	// does not meet the operation's requirement.
	ErrInsufficientRole = errors.New("insufficient role")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	// ErrStorageUnavailable maps store timeouts and outages; the operation is
	// retryable by the caller and never silently swallowed.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError names the first patient field that failed normalization.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Unwrap keeps errors.Is(err, ErrInvalidInput) true for field-level failures.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func validationFailure(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
