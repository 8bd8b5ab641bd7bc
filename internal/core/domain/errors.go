package domain

import "errors"

var (
	ErrScriptNotFound     = errors.New("script not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthorized")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// ValidationError describes malformed client input. Message is safe to show
// to the caller as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError wraps msg in a *ValidationError.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
