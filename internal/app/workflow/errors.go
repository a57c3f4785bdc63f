package workflow

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrValidation             = errors.New("validation failed")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrNotFound               = errors.New("not found")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrNotificationDelivery   = errors.New("notification delivery failed")
)

// Error carries the operation that failed and a human-readable message
// alongside its kind.
type Error struct {
	Kind error
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func newErr(kind error, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Kind returns the error kind wrapped by err, or nil if err carries none.
func Kind(err error) error {
	for _, k := range []error{
		ErrValidation,
		ErrForbidden,
		ErrInvalidTransition,
		ErrNotFound,
		ErrConcurrentModification,
		ErrNotificationDelivery,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Message returns the human-readable part of a workflow error, falling back
// to err.Error() for anything else.
func Message(err error) string {
	var we *Error
	if errors.As(err, &we) && we.Msg != "" {
		return we.Msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
