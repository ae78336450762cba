package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driving"
)

// ListCustomersInput is the input schema for the list_customers tool.
type ListCustomersInput struct {
	Status     string `json:"status,omitempty" jsonschema:"prospect, implementation, live or on-hold"`
	Industry   string `json:"industry,omitempty" jsonschema:"industry, matched case-insensitively"`
	Region     string `json:"region,omitempty" jsonschema:"region, matched case-insensitively"`
	Query      string `json:"query,omitempty" jsonschema:"text searched in customer names and notes"`
	Format     string `json:"format,omitempty" jsonschema:"output format: json, markdown, summary, key-value or csv"`
	TargetTool string `json:"targetTool,omitempty" jsonschema:"name of the tool that will consume the output"`
}

// CustomerIDInput is the input schema for tools addressing one customer.
type CustomerIDInput struct {
	CustomerID string `json:"customerId" jsonschema:"customer ID"`
	Format     string `json:"format,omitempty" jsonschema:"output format: json, markdown, summary, key-value or csv"`
	TargetTool string `json:"targetTool,omitempty" jsonschema:"name of the tool that will consume the output"`
}

// AddCustomerInput is the input schema for the add_customer tool.
type AddCustomerInput struct {
	Name         string `json:"name" jsonschema:"customer name"`
	Industry     string `json:"industry,omitempty" jsonschema:"industry"`
	Region       string `json:"region,omitempty" jsonschema:"region"`
	Status       string `json:"status,omitempty" jsonschema:"prospect, implementation, live or on-hold (default prospect)"`
	ContactName  string `json:"contactName,omitempty" jsonschema:"main contact name"`
	ContactEmail string `json:"contactEmail,omitempty" jsonschema:"main contact email address"`
	GoLiveDate   string `json:"goLiveDate,omitempty" jsonschema:"planned go-live date, YYYY-MM-DD"`
	Notes        string `json:"notes,omitempty" jsonschema:"free-form notes"`
}

// UpdateCustomerInput is the input schema for the update_customer tool.
// Omitted fields are left unchanged.
type UpdateCustomerInput struct {
	CustomerID string  `json:"customerId" jsonschema:"customer ID"`
	Name       *string `json:"name,omitempty" jsonschema:"customer name"`
	Industry   *string `json:"industry,omitempty" jsonschema:"industry"`
	Region     *string `json:"region,omitempty" jsonschema:"region"`
	Status     *string `json:"status,omitempty" jsonschema:"prospect, implementation, live or on-hold"`
	GoLiveDate *string `json:"goLiveDate,omitempty" jsonschema:"planned go-live date, YYYY-MM-DD"`
	Notes      *string `json:"notes,omitempty" jsonschema:"free-form notes"`
}

// AddEnvironmentInput is the input schema for the add_environment tool.
type AddEnvironmentInput struct {
	CustomerID string `json:"customerId" jsonschema:"customer ID"`
	Name       string `json:"name" jsonschema:"environment name"`
	Type       string `json:"type" jsonschema:"development, test, uat or production"`
	URL        string `json:"url,omitempty" jsonschema:"environment URL"`
	Region     string `json:"region,omitempty" jsonschema:"hosting region"`
	Version    string `json:"version,omitempty" jsonschema:"application version"`
}

// UpdateChecklistItemInput is the input schema for the update_checklist_item tool.
// Omitted fields are left unchanged.
type UpdateChecklistItemInput struct {
	CustomerID string  `json:"customerId" jsonschema:"customer ID"`
	ItemID     string  `json:"itemId" jsonschema:"checklist item ID"`
	Status     *string `json:"status,omitempty" jsonschema:"pending, in-progress, done or blocked"`
	Owner      *string `json:"owner,omitempty" jsonschema:"person responsible"`
	DueDate    *string `json:"dueDate,omitempty" jsonschema:"due date, YYYY-MM-DD"`
	Notes      *string `json:"notes,omitempty" jsonschema:"free-form notes"`
}

// GenerateAssessmentInput is the input schema for the generate_assessment tool.
type GenerateAssessmentInput struct {
	CustomerID string `json:"customerId" jsonschema:"customer ID"`
}

func (s *Server) registerCustomerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_customers",
		Description: "List customers, optionally filtered by status, industry, region or text",
	}, s.handleListCustomers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_customer",
		Description: "Show one customer",
	}, s.handleGetCustomer)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_customer",
		Description: "Add a customer and create its default implementation checklist",
	}, s.handleAddCustomer)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_customer",
		Description: "Update fields of a customer",
	}, s.handleUpdateCustomer)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_environments",
		Description: "List the environments of a customer",
	}, s.handleListEnvironments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_environment",
		Description: "Register an environment for a customer",
	}, s.handleAddEnvironment)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_checklist",
		Description: "Show the implementation checklist of a customer",
	}, s.handleGetChecklist)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_checklist_item",
		Description: "Update the status, owner, due date or notes of a checklist item",
	}, s.handleUpdateChecklistItem)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_assessment",
		Description: "Generate a markdown readiness assessment for a customer",
	}, s.handleGenerateAssessment)
}

// renderStore formats store records through the extraction formatter.
func (s *Server) renderStore(records []*domain.Record, out driving.OutputOptions) (*driving.Output, error) {
	result := domain.NewExtractionResult(domain.SourceStore, time.Now())
	for _, rec := range records {
		result.Add(rec)
	}
	return s.ports.Extraction.Render(result, out)
}

// confirm prefixes a rendered record with a one-line confirmation.
func (s *Server) confirm(message string, rec *domain.Record) (*driving.Output, error) {
	out, err := s.renderStore([]*domain.Record{rec}, driving.OutputOptions{Format: string(domain.FormatKeyValue)})
	if err != nil {
		return nil, err
	}
	out.Text = message + "\n\n" + out.Text
	return out, nil
}

func (s *Server) handleListCustomers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListCustomersInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "list_customers", func(ctx context.Context) (*driving.Output, error) {
		filter := domain.CustomerFilter{
			Status:   domain.CustomerStatus(input.Status),
			Industry: input.Industry,
			Region:   input.Region,
			Query:    input.Query,
		}
		customers, err := s.ports.Customers.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		records := make([]*domain.Record, len(customers))
		for i := range customers {
			records[i] = customers[i].ToRecord()
		}
		return s.renderStore(records, outputOptions(input.Format, input.TargetTool))
	})
}

func (s *Server) handleGetCustomer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CustomerIDInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "get_customer", func(ctx context.Context) (*driving.Output, error) {
		c, err := s.ports.Customers.Get(ctx, input.CustomerID)
		if err != nil {
			return nil, err
		}
		return s.renderStore([]*domain.Record{c.ToRecord()}, outputOptions(input.Format, input.TargetTool))
	})
}

func (s *Server) handleAddCustomer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddCustomerInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "add_customer", func(ctx context.Context) (*driving.Output, error) {
		c, err := s.ports.Customers.Add(ctx, domain.Customer{
			Name:         input.Name,
			Industry:     input.Industry,
			Region:       input.Region,
			Status:       domain.CustomerStatus(input.Status),
			ContactName:  input.ContactName,
			ContactEmail: input.ContactEmail,
			GoLiveDate:   input.GoLiveDate,
			Notes:        input.Notes,
		})
		if err != nil {
			return nil, err
		}
		return s.confirm(fmt.Sprintf("Added customer %s (%s).", c.Name, c.ID), c.ToRecord())
	})
}

func (s *Server) handleUpdateCustomer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateCustomerInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "update_customer", func(ctx context.Context) (*driving.Output, error) {
		update := driving.CustomerUpdate{
			Name:       input.Name,
			Industry:   input.Industry,
			Region:     input.Region,
			GoLiveDate: input.GoLiveDate,
			Notes:      input.Notes,
		}
		if input.Status != nil {
			status := domain.CustomerStatus(*input.Status)
			update.Status = &status
		}
		c, err := s.ports.Customers.Update(ctx, input.CustomerID, update)
		if err != nil {
			return nil, err
		}
		return s.confirm(fmt.Sprintf("Updated customer %s (%s).", c.Name, c.ID), c.ToRecord())
	})
}

func (s *Server) handleListEnvironments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CustomerIDInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "list_environments", func(ctx context.Context) (*driving.Output, error) {
		envs, err := s.ports.Customers.Environments(ctx, input.CustomerID)
		if err != nil {
			return nil, err
		}
		records := make([]*domain.Record, len(envs))
		for i := range envs {
			records[i] = envs[i].ToRecord()
		}
		return s.renderStore(records, outputOptions(input.Format, input.TargetTool))
	})
}

func (s *Server) handleAddEnvironment(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddEnvironmentInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "add_environment", func(ctx context.Context) (*driving.Output, error) {
		env, err := s.ports.Customers.AddEnvironment(ctx, domain.Environment{
			CustomerID: input.CustomerID,
			Name:       input.Name,
			Type:       domain.EnvironmentType(input.Type),
			URL:        input.URL,
			Region:     input.Region,
			Version:    input.Version,
		})
		if err != nil {
			return nil, err
		}
		return s.confirm(fmt.Sprintf("Added environment %s (%s).", env.Name, env.ID), env.ToRecord())
	})
}

func (s *Server) handleGetChecklist(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CustomerIDInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "get_checklist", func(ctx context.Context) (*driving.Output, error) {
		items, err := s.ports.Customers.Checklist(ctx, input.CustomerID)
		if err != nil {
			return nil, err
		}
		records := make([]*domain.Record, len(items))
		for i := range items {
			records[i] = items[i].ToRecord()
		}
		return s.renderStore(records, outputOptions(input.Format, input.TargetTool))
	})
}

func (s *Server) handleUpdateChecklistItem(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateChecklistItemInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "update_checklist_item", func(ctx context.Context) (*driving.Output, error) {
		update := domain.ChecklistUpdate{
			Owner:   input.Owner,
			DueDate: input.DueDate,
			Notes:   input.Notes,
		}
		if input.Status != nil {
			status := domain.ChecklistStatus(*input.Status)
			update.Status = &status
		}
		item, err := s.ports.Customers.UpdateChecklistItem(ctx, input.CustomerID, input.ItemID, update)
		if err != nil {
			return nil, err
		}
		return s.confirm(fmt.Sprintf("Updated checklist item %q.", item.Title), item.ToRecord())
	})
}

func (s *Server) handleGenerateAssessment(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateAssessmentInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "generate_assessment", func(ctx context.Context) (*driving.Output, error) {
		md, err := s.ports.Customers.Assessment(ctx, input.CustomerID)
		if err != nil {
			return nil, err
		}
		return &driving.Output{Text: md}, nil
	})
}
