package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for implkit resources.
	uriScheme = "implkit://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing customers.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "customers",
		Name:        "customers",
		Description: "All customers in the store",
		MIMEType:    "application/json",
	}, s.handleCustomersResource)

	// Template for customer checklists.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "customers/{customerId}/checklist",
		Name:        "customer-checklist",
		Description: "Implementation checklist of a specific customer",
		MIMEType:    "application/json",
	}, s.handleChecklistResource)

	// Template for customer assessments.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "customers/{customerId}/assessment",
		Name:        "customer-assessment",
		Description: "Readiness assessment of a specific customer",
		MIMEType:    "text/markdown",
	}, s.handleAssessmentResource)
}

// handleCustomersResource returns all customers.
func (s *Server) handleCustomersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	customers, err := s.ports.Customers.List(ctx, domain.CustomerFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	// Build simplified customer list.
	type customerInfo struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
		URI    string `json:"uri"`
	}

	infos := make([]customerInfo, len(customers))
	for i := range customers {
		infos[i] = customerInfo{
			ID:     customers[i].ID,
			Name:   customers[i].Name,
			Status: string(customers[i].Status),
			URI:    uriScheme + "customers/" + customers[i].ID + "/checklist",
		}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleChecklistResource returns the checklist of a specific customer.
func (s *Server) handleChecklistResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract customerId from URI: implkit://customers/{customerId}/checklist
	customerID := extractCustomerID(req.Params.URI, "/checklist")
	if customerID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	items, err := s.ports.Customers.Checklist(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("getting checklist: %w", err)
	}

	return jsonResource(req.Params.URI, items)
}

// handleAssessmentResource returns the assessment of a specific customer.
func (s *Server) handleAssessmentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	customerID := extractCustomerID(req.Params.URI, "/assessment")
	if customerID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	md, err := s.ports.Customers.Assessment(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("generating assessment: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     md,
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCustomerID extracts the customer ID from a URI like
// implkit://customers/{customerId}{suffix}.
func extractCustomerID(uri, suffix string) string {
	const prefix = uriScheme + "customers/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(uri, suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
