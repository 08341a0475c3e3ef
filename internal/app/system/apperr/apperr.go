// internal/app/system/apperr/apperr.go

// Package apperr defines the error taxonomy shared by stores, policies, and
// feature handlers. Stores and policies return these typed errors; the HTTP
// layer maps them to status codes in one place (system/httpjson).
//
// Kinds:
//   - Validation: missing or malformed input (required fields, date
//     ordering, length bounds, bad enum values, membership violations).
//   - NotFound: entity absent or owned by another company. Cross-tenant
//     lookups deliberately report NotFound so tenant boundaries never leak.
//   - Forbidden: role or ownership mismatch within the correct company.
//   - Conflict: uniqueness violation (duplicate key, second Active sprint)
//     or a referential block on delete.
//   - InvalidTransition: illegal state-machine edge, named as "from → to".
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalidTransition
)

// Error is a classified, caller-facing error. Message is safe to surface to
// the client: it names the offending field, member, or transition but never
// another tenant's data.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation creates a KindValidation error.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden creates a KindForbidden error.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a KindConflict error.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition creates a KindInvalidTransition error naming the edge.
func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("invalid status transition from %s to %s", from, to),
	}
}

// KindOf returns the Kind of err, or 0 if err is not an apperr.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsValidation reports whether err is a Validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsForbidden reports whether err is a Forbidden error.
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsInvalidTransition reports whether err is an InvalidTransition error.
func IsInvalidTransition(err error) bool { return KindOf(err) == KindInvalidTransition }
