package domain

import (
	"errors"
	"fmt"
)

// MinPasswordLength is the shortest new password accepted by the change
// password form.
const MinPasswordLength = 6

var (
	ErrNoSession          = errors.New("no session")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("new password and confirmation do not match")
	ErrPasswordTooShort   = fmt.Errorf("new password must be at least %d characters", MinPasswordLength)
	ErrFeatureUnavailable = errors.New("feature not available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidMonth       = errors.New("month must be formatted as YYYY-MM")
)

// BackendError is a non-2xx answer from the clinic backend. Message holds the
// response body text as the backend sent it.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}
