package mcp

import (
	"github.com/custodia-labs/implkit/internal/core/ports/driving"
	"github.com/custodia-labs/implkit/internal/metrics"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Extraction runs the file, inline and remote extraction tools.
	Extraction driving.ExtractionService

	// Customers backs the customer, environment and checklist tools.
	Customers driving.CustomerService

	// Metrics records tool calls. Optional.
	Metrics *metrics.Metrics
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Extraction == nil {
		return ErrMissingExtractionService
	}
	if p.Customers == nil {
		return ErrMissingCustomerService
	}
	return nil
}
