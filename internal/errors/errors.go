// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so the request lifecycle can tell a rejected query apart
// from a broken backend or a dropped connection.
//
// The package supports wrapping underlying errors while maintaining error kind information.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Validation indicates the backend rejected the statements or parameters.
	Validation Kind = "validation"
	// Unexpected indicates an unknown status or a malformed success body.
	Unexpected Kind = "unexpected"
	// Network indicates the request never produced an HTTP response.
	Network Kind = "network"
	// DiagramRender indicates a diagram source could not be converted.
	DiagramRender Kind = "diagram_render"
	// Decode indicates a malformed shareable token.
	Decode Kind = "decode"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code when the error came from a response.
	Status int
	Err    error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// NewValidation returns a validation error carrying the backend message verbatim.
func NewValidation(msg string) *E {
	return &E{Kind: Validation, Message: msg}
}

// NewUnexpected returns an error for a response the client cannot interpret.
// The message includes both the status code and the raw body.
func NewUnexpected(status int, body string) *E {
	return &E{Kind: Unexpected, Status: status, Message: fmt.Sprintf("unexpected status %d: %s", status, body)}
}

// KindOf reports the kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the text shown to the user for err.
// Typed errors yield their Message; anything else yields err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *E
	if stderrors.As(err, &e) {
		if e.Kind == Network && e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Message
	}
	return err.Error()
}
