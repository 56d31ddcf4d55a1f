package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so callers can decide how to react
// (reject, retry, or report not-found) without parsing messages.
// The HTTP adapter maps these kinds to status codes.
type ErrorKind string

const (
	// KindInvalidArgument marks malformed or out-of-range input. Caller's fault, never retried.
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"

	// KindInvalidState marks an operation not permitted in the aggregate's
	// current state (e.g. cancelling an executed order).
	KindInvalidState ErrorKind = "INVALID_STATE"

	// KindInsufficientFunds marks a withdrawal exceeding the cash balance.
	KindInsufficientFunds ErrorKind = "INSUFFICIENT_FUNDS"

	// KindInsufficientQuantity marks a holding reduction exceeding the held quantity.
	KindInsufficientQuantity ErrorKind = "INSUFFICIENT_QUANTITY"

	// KindNotFound marks a referenced aggregate that does not exist.
	KindNotFound ErrorKind = "NOT_FOUND"

	// KindConcurrencyConflict marks a lost race on a shared aggregate.
	// The whole use case is safe to retry.
	KindConcurrencyConflict ErrorKind = "CONCURRENCY_CONFLICT"

	// KindUnavailable marks a collaborator (storage, publisher) that could not be reached.
	KindUnavailable ErrorKind = "UNAVAILABLE"
)

// Error is a domain error tagged with a kind.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a tagged domain error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err, or any error it wraps, is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var domainErr *Error
	return errors.As(err, &domainErr) && domainErr.Kind == kind
}

// KindOf returns the kind of err if it is (or wraps) a domain error,
// or the empty string otherwise.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}
