package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every error surfaced by the service layer matches exactly one
// of these through errors.Is.
var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")
	ErrStore        = errors.New("store")
)

// Error carries a kind, a client-facing message and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error   { return &Error{Kind: ErrValidation, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }
func Forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }

// Store wraps an underlying store failure. The cause is kept for logs only.
func Store(op string, err error) error {
	return &Error{Kind: ErrStore, Message: "internal error", Err: fmt.Errorf("%s: %w", op, err)}
}

// Wrap returns err unchanged when it already has a kind, otherwise it is
// classified as a store failure.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Store(op, err)
}

// HTTPStatus maps an error kind to a response status.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// KindOf returns the kind name used in error responses.
func KindOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind.Error()
	}
	return ErrStore.Error()
}

// Message returns the text that is safe to show to the caller.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
