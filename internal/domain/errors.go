package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error leaving a service wraps exactly one of these.
var (
	ErrValidation            = errors.New("validation error")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidToken          = errors.New("invalid token")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrDuplicateIdentity     = errors.New("duplicate identity")
	ErrPersistence           = errors.New("persistence error")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Error is a kinded error with a message that is safe to show the caller.
// Cause, when set, is for logs only.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func Duplicate(msg string) error {
	return &Error{Kind: ErrDuplicateIdentity, Message: msg}
}

// Persistence wraps a store failure. op names what was attempted
// ("save submission") and becomes the caller-facing diagnostic.
func Persistence(op string, cause error) error {
	return &Error{Kind: ErrPersistence, Message: "failed to " + op, Cause: cause}
}

// Message returns the caller-facing text of err, or "" if err carries none.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
