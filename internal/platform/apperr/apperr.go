// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

/*
Package apperr defines the centralized error handling framework for TruyenHay.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct pairing an HTTP status with a client-safe message.
  - Wire shape: Clients only ever receive {"message": "..."} — there is no
    machine-readable code field in the public contract.
  - Mapping: Explicit constructors per HTTP status class.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the TruyenHay API.
//
// It carries an HTTP status code, a client-safe message, and an optional
// underlying cause.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Message is a human-readable description safe to return to the client.
	// User-facing messages are Vietnamese where the site contract requires it.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] with the given client message.
//
// Example:
//
//	apperr.NotFound("Không tìm thấy truyện")
func NotFound(msg string) *AppError {
	return &AppError{
		Message:    msg,
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// BadRequest creates a 400 [AppError] for invalid or rejected input.
func BadRequest(msg string) *AppError {
	return &AppError{
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// BadRequestWithCause creates a 400 [AppError] that also records an underlying cause.
//
// It exists for the mutation paths where persistence failures are surfaced to
// the caller as 400-class responses while the real error still reaches the logs.
func BadRequestWithCause(msg string, cause error) *AppError {
	return &AppError{
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Cause:      cause,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Message:    "Đã xảy ra lỗi, vui lòng thử lại sau",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
