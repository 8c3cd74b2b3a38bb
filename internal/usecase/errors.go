package usecase

import (
	"errors"
	"fmt"

	"media-catalog/pkg/utils"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a client-facing message tagged with one of the error kinds.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error { return newError(ErrNotFound, format, args...) }

func conflict(format string, args ...any) error { return newError(ErrConflict, format, args...) }

func forbidden(format string, args ...any) error { return newError(ErrForbidden, format, args...) }

func unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

func invalid(format string, args ...any) error { return newError(ErrValidation, format, args...) }

// validate runs the struct tags on req and returns a validation error
// carrying the per-field messages.
func validate(req any) error {
	errs := utils.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	return &Error{
		Kind:    ErrValidation,
		Message: "validation failed: " + utils.FormatValidationErrors(errs),
		Fields:  errs,
	}
}
