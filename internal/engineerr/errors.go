// Package engineerr defines the typed error kinds the drive engine raises
// (spec §7) and their mapping onto HTTP status codes (spec §6).
package engineerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an engine error the way spec §7 enumerates them.
type Kind int

// Error kinds, in the order spec §7 lists them.
const (
	KindValidation Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindRate
	KindExternalUnavailable
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindRate:
		return "RATE_LIMITED"
	case KindExternalUnavailable:
		return "EXTERNAL_UNAVAILABLE"
	case KindInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// HTTPStatus maps a Kind onto the status code spec §6 assigns it.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRate:
		return http.StatusTooManyRequests
	case KindExternalUnavailable:
		return http.StatusNotImplemented
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error is the concrete error type every engine operation returns on
// failure. It carries enough detail to render both the HTTP response body
// and a machine-readable code, without ever being logged-and-swallowed
// (spec §7, "Propagation").
type Error struct {
	Kind       Kind
	Field      string // populated for KindValidation
	Message    string
	RetryAfter int // seconds, populated for KindRate
	cause      error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// Validation builds a KindValidation error for a malformed request field.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// Unauthenticated builds a KindUnauthenticated error.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Forbidden builds a KindForbidden error with the reason the check failed.
func Forbidden(reason string) *Error {
	return &Error{Kind: KindForbidden, Message: reason}
}

// NotFound builds a KindNotFound error naming the missing kind ("folder",
// "permission", ...).
func NotFound(kind string) *Error {
	return &Error{Kind: KindNotFound, Message: kind + " not found"}
}

// Conflict builds a KindConflict error with the reason (naming collision,
// already-redeemed placeholder, owner-transfer already pending).
func Conflict(reason string) *Error {
	return &Error{Kind: KindConflict, Message: reason}
}

// Rate builds a KindRate error carrying the retry-after window in seconds.
func Rate(retryAfterSeconds int) *Error {
	return &Error{Kind: KindRate, Message: "rate limited", RetryAfter: retryAfterSeconds}
}

// ExternalUnavailable builds a KindExternalUnavailable error wrapping the
// downstream failure (webhook or asset-store HTTP call).
func ExternalUnavailable(cause error) *Error {
	return &Error{Kind: KindExternalUnavailable, Message: "downstream unavailable", cause: cause}
}

// Internal builds a KindInternal error for invariant violations. cause may
// be nil.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, engineerr.Forbidden("")) to test kind only.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}

	return e.Kind == other.Kind
}
