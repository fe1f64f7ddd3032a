// Package errs defines the error taxonomy shared by the store, the cache
// layer, and the record services.
//
// Every failure raised inside the core carries one of five kinds:
//
//   - KindValidation: missing or malformed input (nil payload, non-positive id)
//   - KindNotFound: an id did not resolve to a record, or a bulk update
//     affected zero rows
//   - KindBusinessRule: the operation is well-formed but violates a policy,
//     such as the per-account card limit
//   - KindAuthorizationDenied: the guard rejected the caller
//   - KindInternal: store or cache transport failures, left unclassified
//
// Callers at the boundary may collapse some distinctions (for example mapping
// both NotFound and AuthorizationDenied to 404), but inside this module the
// kinds stay distinct.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindNotFound            Kind = "not_found"
	KindBusinessRule        Kind = "business_rule"
	KindAuthorizationDenied Kind = "authorization_denied"
	KindInternal            Kind = "internal"
)

// Error is the concrete error type carried across the core. It keeps the
// kind alongside the message so boundaries can branch without string
// matching.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validationf reports missing or malformed caller input.
func Validationf(format string, args ...any) *Error {
	return newf(KindValidation, format, args...)
}

// NotFoundf reports that an id did not resolve to an existing record.
func NotFoundf(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

// BusinessRulef reports an operation rejected by policy.
func BusinessRulef(format string, args ...any) *Error {
	return newf(KindBusinessRule, format, args...)
}

// Forbiddenf reports an authorization denial. It is never conflated with
// NotFound: "not yours" and "doesn't exist" are different answers.
func Forbiddenf(format string, args ...any) *Error {
	return newf(KindAuthorizationDenied, format, args...)
}

// Internal wraps an unclassified transport failure from the store or cache.
func Internal(err error, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind carried by err, or KindInternal for errors raised
// outside this taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return is(err, KindValidation) }

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return is(err, KindNotFound) }

// IsBusinessRule reports whether err is a business-rule violation.
func IsBusinessRule(err error) bool { return is(err, KindBusinessRule) }

// IsForbidden reports whether err is an authorization denial.
func IsForbidden(err error) bool { return is(err, KindAuthorizationDenied) }
