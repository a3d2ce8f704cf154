// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for Kigo.

Every operation of the transactional core returns either a success payload or
one of the error kinds declared here. The kind travels in [AppError.Code] so
callers branch on a stable tag instead of parsing message strings.

Architecture:

  - AppError: A struct containing machine-readable Code and a client-safe message.
  - Taxonomy: One constructor per error kind (Unauthenticated, ValidationError, ...).
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Error Kinds

// Machine-readable codes, one per error kind.
const (
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeForbidden           = "FORBIDDEN"
	CodeConflict            = "CONFLICT"
	CodeInvalidOperation    = "INVALID_OPERATION"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeTransactionConflict = "TRANSACTION_CONFLICT"
	CodeUpstreamFailure     = "UPSTREAM_FAILURE"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the Kigo API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// Unauthenticated creates a 401 [AppError] for a request without a verified actor.
func Unauthenticated(msg string) *AppError {
	if msg == "" {
		msg = "User must be authenticated"
	}
	return &AppError{
		Code:       CodeUnauthenticated,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Haiku") // Returns "Haiku not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// InvalidOperation creates a 422 [AppError] for well-formed requests that
// describe an operation the domain does not allow (e.g. following yourself).
func InvalidOperation(msg string) *AppError {
	return &AppError{
		Code:       CodeInvalidOperation,
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// RateLimitExceeded creates a 429 [AppError] for a throttled actor.
func RateLimitExceeded() *AppError {
	return &AppError{
		Code:       CodeRateLimitExceeded,
		Message:    "Rate limit exceeded. Please try again later.",
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// TransactionConflict creates a 503 [AppError] once the transaction runner has
// exhausted its retries against concurrent writers.
func TransactionConflict(cause error) *AppError {
	return &AppError{
		Code:       CodeTransactionConflict,
		Message:    "The request conflicted with a concurrent update. Please retry.",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// UpstreamFailure creates a 502 [AppError] for a failing external dependency.
func UpstreamFailure(msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeUpstreamFailure,
		Message:    msg,
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
