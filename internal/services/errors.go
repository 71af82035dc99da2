package services

import (
	"errors"
	"fmt"

	"github.com/KC-426/aeonaxy/internal/store"
)

// Error kinds returned by every service operation. Anything that is not
// one of these is an unexpected failure.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Error carries a caller-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Message returns the caller-facing message of a service error, or "" for
// unexpected errors.
func Message(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return ""
}

// translate maps repository sentinels onto service errors. An empty
// message leaves that sentinel unmapped. Other errors are wrapped with op
// and surface as unexpected.
func translate(op string, err error, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case notFound != "" && errors.Is(err, store.ErrNotFound):
		return fail(ErrNotFound, notFound)
	case conflict != "" && errors.Is(err, store.ErrConflict):
		return fail(ErrConflict, conflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
