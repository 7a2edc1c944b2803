package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the service layer hands to the HTTP layer wraps one of these.
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrBadCredentials  = errors.New("bad credentials")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
)

// Error is a client-facing failure: Kind selects the status code, Message is returned verbatim.
type Error struct {
	Kind    error
	Message string
}

func NewError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func Validation(format string, args ...any) *Error {
	return NewError(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return NewError(ErrNotFound, format, args...)
}
