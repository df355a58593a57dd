// Package errs defines the typed errors raised by the service layer.
// The HTTP layer translates these into status codes with errors.As;
// anything unmatched falls through to a generic 500.
package errs

import "fmt"

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "Validation Failed"
}

// NotFoundError indicates a referenced User or Group does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NotFoundf builds a NotFoundError with a formatted message.
func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError indicates a uniqueness violation: duplicate email, phone
// number, or group membership.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Conflictf builds a ConflictError with a formatted message.
func Conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// AuthError indicates failed credential verification. The message is
// identical whether the email is unknown or the password is wrong, so
// responses never reveal which emails are registered.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// ErrInvalidCredentials is returned for every login failure.
var ErrInvalidCredentials = &AuthError{Message: "Invalid email or password"}
