// Package errors carries the typed error codes that services return and the
// HTTP layer renders. Anything without a code renders as INTERNAL_ERROR.
package errors

import (
	stdErrors "errors"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeOutOfStock    Code = "OUT_OF_STOCK"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
	CodeUnavailable   Code = "SERVICE_UNAVAILABLE"
)

// Metadata describes how a code surfaces over HTTP. Client errors (4xx) show
// their own message; server errors show PublicMessage only.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
	ExposeMessage  bool
}

func meta(status int, public string, details bool) Metadata {
	return Metadata{
		HTTPStatus:     status,
		Retryable:      status >= http.StatusInternalServerError,
		PublicMessage:  public,
		DetailsAllowed: details,
		ExposeMessage:  status < http.StatusInternalServerError,
	}
}

var codes = map[Code]Metadata{
	CodeValidation:    meta(http.StatusBadRequest, "validation failed", true),
	CodeUnauthorized:  meta(http.StatusUnauthorized, "authentication required", false),
	CodeForbidden:     meta(http.StatusForbidden, "access denied", false),
	CodeNotFound:      meta(http.StatusNotFound, "resource not found", false),
	CodeConflict:      meta(http.StatusConflict, "conflict detected", false),
	CodeOutOfStock:    meta(http.StatusBadRequest, "insufficient stock", true),
	CodeStateConflict: meta(http.StatusUnprocessableEntity, "state transition disallowed", true),
	CodeIdempotency:   meta(http.StatusConflict, "idempotency key reused", true),
	CodeRateLimit:     meta(http.StatusTooManyRequests, "rate limit exceeded", false),
	CodeInternal:      meta(http.StatusInternalServerError, "internal server error", false),
	CodeDependency:    meta(http.StatusInternalServerError, "dependency unavailable", true),
	CodeUnavailable:   meta(http.StatusServiceUnavailable, "service unavailable", false),
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	if m, ok := codes[code]; ok {
		return m
	}
	return codes[CodeInternal]
}

// Error is a coded error. The zero value is not useful; use New or Wrap.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap keeps err reachable through errors.Is/As. A nil err behaves like New.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

// WithDetails attaches structured details, rendered only for codes that allow them.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := string(e.code) + ": " + e.message
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error by code, so errors.Is(err, New(CodeNotFound, "")) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.code == t.code
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}

// PublicMessage is the message safe to show the caller for err.
func PublicMessage(err error) string {
	typed := As(err)
	m := MetadataFor(typed.Code())
	if typed != nil && m.ExposeMessage && typed.message != "" {
		return typed.message
	}
	return m.PublicMessage
}
