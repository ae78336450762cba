package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	if errors.Is(err, domain.ErrAuthInvalid) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusUnauthorized
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// WrapError converts a Google API error to a domain.UpstreamError so the
// tool layer reports it like any other remote failure.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("gmail: %w", err)
	}

	body := gerr.Message
	if body == "" {
		body = gerr.Body
	}
	upstream := domain.NewUpstreamError("gmail", gerr.Code, body)
	if gerr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, upstream)
	}
	return upstream
}
