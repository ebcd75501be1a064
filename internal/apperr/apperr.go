// Package apperr defines the application error type shared by every package.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so that callers at the edge (HTTP, CLI) can decide
// how to surface it.
type Kind string

const (
	KindInternal          Kind = "internal"
	KindValidation        Kind = "validation"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
	KindSessionNotActive  Kind = "session_not_active"
	KindExpired           Kind = "expired"
)

// Error is a sentinel-friendly error. Package-level values are declared once
// and specialised with Fmt or Wrap; errors.Is matches the specialised copy
// against its sentinel.
type Error struct {
	Cause   error
	Message string
	Kind    Kind
	Context []any
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Context) > 0 {
		msg = fmt.Sprintf(msg, e.Context...)
	}

	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}

	return msg
}

// Fmt returns a copy of the error with its message formatted using args.
func (e *Error) Fmt(args ...any) *Error {
	ne := *e
	ne.Context = args

	return &ne
}

// Wrap returns a copy of the error that wraps err.
func (e *Error) Wrap(err error) *Error {
	ne := *e
	ne.Cause = err

	return &ne
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel this error was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Message == e.Message && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e.Kind != "" {
		return e.Kind
	}

	return KindInternal
}
