package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity, file or path does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown format, language or MIME type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotConfigured indicates a remote source has no configuration.
	ErrNotConfigured = errors.New("not configured")

	// Authentication Errors.

	// ErrAuthInvalid indicates the remote API rejected the credentials (HTTP 401).
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrTokenRefreshFailed indicates the token endpoint did not issue a token.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Upstream Errors.

	// ErrUpstream indicates a remote API answered with a non-2xx status.
	ErrUpstream = errors.New("upstream API error")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// maxErrorBody is the number of response body characters kept on an UpstreamError.
const maxErrorBody = 500

// UpstreamError describes a non-2xx answer from a remote API.
type UpstreamError struct {
	// Service names the remote API (dataverse, graph, gmail).
	Service string

	// Status is the HTTP status code.
	Status int

	// Body is the response body, truncated.
	Body string
}

// NewUpstreamError builds an UpstreamError, truncating the body.
func NewUpstreamError(service string, status int, body string) *UpstreamError {
	return &UpstreamError{
		Service: service,
		Status:  status,
		Body:    Truncate(body, maxErrorBody),
	}
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.Status, e.Body)
}

// Unwrap lets errors.Is match ErrUpstream, or ErrAuthInvalid for 401.
func (e *UpstreamError) Unwrap() error {
	if e.Status == 401 {
		return ErrAuthInvalid
	}
	return ErrUpstream
}
