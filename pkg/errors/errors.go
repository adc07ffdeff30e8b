// Package errors carries the typed error codes shared by services and the
// HTTP layer. Services pick a Code; responses.WriteError turns it into a
// status and envelope using the metadata table below.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation            Code = "VALIDATION_ERROR"
	CodeUnauthorized          Code = "UNAUTHORIZED"
	CodeForbidden             Code = "FORBIDDEN"
	CodeNotFound              Code = "NOT_FOUND"
	CodeConflict              Code = "CONFLICT"
	CodeInconsistentReference Code = "INCONSISTENT_REFERENCE"
	CodeIdempotency           Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit             Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal              Code = "INTERNAL_ERROR"
	CodeDependency            Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code is presented to clients.
type Metadata struct {
	HTTPStatus    int
	Retryable     bool
	PublicMessage string
	// ExposeMessage lets the service message replace PublicMessage.
	ExposeMessage  bool
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:            {http.StatusBadRequest, false, "validation failed", true, true},
	CodeUnauthorized:          {http.StatusUnauthorized, false, "authentication required", true, false},
	CodeForbidden:             {http.StatusForbidden, false, "access denied", true, false},
	CodeNotFound:              {http.StatusNotFound, false, "resource not found", true, false},
	CodeConflict:              {http.StatusConflict, true, "conflict detected", true, false},
	CodeInconsistentReference: {http.StatusInternalServerError, false, "cart references an unavailable product", false, true},
	CodeIdempotency:           {http.StatusConflict, false, "idempotency key reused", true, true},
	CodeRateLimit:             {http.StatusTooManyRequests, false, "rate limit exceeded", true, false},
	CodeInternal:              {http.StatusInternalServerError, true, "internal server error", false, false},
	CodeDependency:            {http.StatusServiceUnavailable, true, "dependency unavailable", false, true},
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is an immutable coded error. WithDetails returns a copy.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a code to err. A nil err behaves like New.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
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

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.details = details
	return &clone
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}
	return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error by code, so errors.Is(err, New(CodeConflict, ""))
// works across wrapping.
func (e *Error) Is(target error) bool {
	var other *Error
	if !stdErrors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.code == other.code
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf reports the code of err. Untyped errors are CodeInternal; nil is "".
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	return As(err).Code()
}

// IsCode reports whether err carries a typed error with the provided code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
