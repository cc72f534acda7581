// Copyright 2025 The Weft Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an [Error] into one of the pipeline's failure categories.
// Every kind carries a fixed HTTP status code; the kind, not the status,
// is the unit callers should branch on.
type Kind int

const (
	// KindInternal is an uncaught or unexpected failure (500).
	KindInternal Kind = iota

	// KindBadRequest is a malformed, oversized, or unsupported request body (400).
	KindBadRequest

	// KindNotFound means no route matched the request (404).
	KindNotFound

	// KindUnauthorized means the request lacks valid credentials (401).
	KindUnauthorized

	// KindForbidden means the credentials are valid but not sufficient (403).
	KindForbidden

	// KindValidation is a bad-request specialization carrying a structured
	// detail list (400).
	KindValidation

	// KindPayloadTooLarge means body buffering exceeded a configured limit (413).
	KindPayloadTooLarge

	// KindMalformedBody means a decoder rejected the body's syntax (400).
	KindMalformedBody

	// KindNoResponseSent means a handler chain completed without writing a
	// response (500). Synthesized by the dispatcher, never by handlers.
	KindNoResponseSent

	// KindResponseAlreadySent means a response method was invoked after the
	// response had already been written (500).
	KindResponseAlreadySent
)

// String returns the snake_case name of the kind, used as the error code in
// serialized responses.
func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindMalformedBody:
		return "malformed_body"
	case KindNoResponseSent:
		return "no_response_sent"
	case KindResponseAlreadySent:
		return "response_already_sent"
	default:
		return "internal"
	}
}

// status maps a kind to its fixed HTTP status code.
func (k Kind) status() int {
	switch k {
	case KindBadRequest, KindValidation, KindMalformedBody:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Error is the tagged error value used throughout the pipeline. It replaces
// an exception hierarchy with a single struct: a [Kind], a human message, and
// an optional structured detail payload.
//
// Errors are values, not control-flow-only signals: every Error can be
// serialized into the default error response shape via [Format].
//
// Example:
//
//	if user == nil {
//	    return httperror.NotFound("user %q does not exist", id)
//	}
type Error struct {
	Kind    Kind   // Failure category; fixes the HTTP status code
	Message string // Human-readable message included in the response body
	Details any    // Optional structured payload (e.g. validation details)
	Err     error  // Optional underlying cause, not exposed to clients
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns the status code fixed by the error's kind.
func (e *Error) HTTPStatus() int { return e.Kind.status() }

// Code returns the stable machine-readable code for the error's kind.
func (e *Error) Code() string { return e.Kind.String() }

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around an underlying cause.
// The cause is preserved for errors.Is/As but never serialized to clients.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// BadRequest creates a 400 error.
func BadRequest(format string, args ...any) *Error {
	return New(KindBadRequest, format, args...)
}

// NotFound creates a 404 error.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// Unauthorized creates a 401 error.
func Unauthorized(format string, args ...any) *Error {
	return New(KindUnauthorized, format, args...)
}

// Forbidden creates a 403 error.
func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

// Validation creates a 400 error carrying a structured detail list.
//
// Example:
//
//	return httperror.Validation("invalid payload", []map[string]string{
//	    {"field": "email", "reason": "must not be empty"},
//	})
func Validation(message string, details any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// PayloadTooLarge creates a 413 error.
func PayloadTooLarge(format string, args ...any) *Error {
	return New(KindPayloadTooLarge, format, args...)
}

// MalformedBody creates a 400 error for bodies a decoder could not parse.
func MalformedBody(format string, args ...any) *Error {
	return New(KindMalformedBody, format, args...)
}

// Internal creates a 500 error.
func Internal(format string, args ...any) *Error {
	return New(KindInternal, format, args...)
}

// From coerces any error into an *Error. If err is or wraps an *Error it is
// returned as-is; otherwise it is wrapped as KindInternal so that unexpected
// failures never leak raw messages with a misleading status.
func From(err error) *Error {
	var herr *Error
	if errors.As(err, &herr) {
		return herr
	}
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// IsKind reports whether err is or wraps an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var herr *Error
	return errors.As(err, &herr) && herr.Kind == kind
}
