// Package apperr defines the request-scoped failure taxonomy surfaced to
// API callers: NotFound, InvalidArgument, Conflict, Unauthorized.
//
// Errors carry a machine-readable code into the GraphQL response via the
// extensions map (graphql-go recognizes the ExtendedError interface).
// Store packages keep their own sentinel errors; resolvers translate
// them into these kinds at the boundary.
package apperr

import (
	"errors"
)

// Kind classifies a failure for the caller.
type Kind string

const (
	NotFound        Kind = "NOT_FOUND"
	InvalidArgument Kind = "BAD_USER_INPUT"
	Conflict        Kind = "CONFLICT"
	Unauthorized    Kind = "UNAUTHENTICATED"
)

// Error is a caller-visible failure with a stable code.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, not exposed to the caller
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Extensions satisfies graphql-go's gqlerrors.ExtendedError so the code
// appears under extensions.code in the response.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Kind)}
}

// New builds an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind with a wrapped cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the Kind carried by err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
