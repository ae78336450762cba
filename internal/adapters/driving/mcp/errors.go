// Package mcp provides an MCP (Model Context Protocol) server adapter for implkit.
// It exposes the extraction pipeline and the customer store as tools that
// AI assistants call to turn documents and remote records into
// tool-ready text.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/normalisers/pdf"
)

// ErrMissingExtractionService is returned when the extraction service is not provided.
var ErrMissingExtractionService = errors.New("mcp: extraction service is required")

// ErrMissingCustomerService is returned when the customer service is not provided.
var ErrMissingCustomerService = errors.New("mcp: customer service is required")

// describeError turns a failure into the text returned to the client.
func describeError(err error) string {
	var upstream *domain.UpstreamError
	isUpstream := errors.As(err, &upstream)

	switch {
	case errors.Is(err, domain.ErrAuthInvalid):
		service := "the remote API"
		if isUpstream {
			service = upstream.Service
		}
		return fmt.Sprintf("Error: %s rejected the access token (HTTP 401). "+
			"The cached token has been discarded. Check the client credentials "+
			"in the config file or IMPLKIT_* environment variables, then retry.", service)
	case errors.Is(err, domain.ErrTokenRefreshFailed):
		return fmt.Sprintf("Error: %v. Check the client ID, secret and tenant "+
			"in the config file or IMPLKIT_* environment variables.", err)
	case errors.Is(err, pdf.ErrPDFToolNotFound):
		return fmt.Sprintf("Error: %v\n\n%s", err, pdf.InstallInstructions())
	case errors.Is(err, domain.ErrRateLimited):
		return fmt.Sprintf("Error: %v. Wait a moment before retrying.", err)
	case isUpstream:
		if upstream.Body == "" {
			return fmt.Sprintf("Error: %s API returned HTTP %d", upstream.Service, upstream.Status)
		}
		return fmt.Sprintf("Error: %s API returned HTTP %d: %s", upstream.Service, upstream.Status, upstream.Body)
	}
	return "Error: " + err.Error()
}
