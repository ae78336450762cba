package mcp

import (
	"context"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/core/ports/driving"
)

// mockExtractionService is a mock implementation of driving.ExtractionService.
type mockExtractionService struct {
	out *driving.Output
	err error

	kind        driving.FileKind
	path        string
	input       string
	opts        domain.ExtractOptions
	output      driving.OutputOptions
	backend     string
	mailQuery   driven.MailQuery
	tabQuery    driven.TabularQuery
	rendered    *domain.ExtractionResult
	renderCalls int
}

func (m *mockExtractionService) result() (*driving.Output, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.out != nil {
		return m.out, nil
	}
	return &driving.Output{Text: "ok"}, nil
}

func (m *mockExtractionService) ExtractFile(
	_ context.Context,
	kind driving.FileKind,
	path string,
	opts domain.ExtractOptions,
	out driving.OutputOptions,
) (*driving.Output, error) {
	m.kind, m.path, m.opts, m.output = kind, path, opts, out
	return m.result()
}

func (m *mockExtractionService) ExtractJSON(
	_ context.Context,
	input string,
	opts domain.ExtractOptions,
	out driving.OutputOptions,
) (*driving.Output, error) {
	m.input, m.opts, m.output = input, opts, out
	return m.result()
}

func (m *mockExtractionService) QueryMail(
	_ context.Context,
	backend string,
	q driven.MailQuery,
	out driving.OutputOptions,
) (*driving.Output, error) {
	m.backend, m.mailQuery, m.output = backend, q, out
	return m.result()
}

func (m *mockExtractionService) QueryDataverse(
	_ context.Context,
	q driven.TabularQuery,
	out driving.OutputOptions,
) (*driving.Output, error) {
	m.tabQuery, m.output = q, out
	return m.result()
}

func (m *mockExtractionService) FormatData(
	_ context.Context,
	data string,
	out driving.OutputOptions,
) (*driving.Output, error) {
	m.input, m.output = data, out
	return m.result()
}

// Render reports the record count and the first record's id.
func (m *mockExtractionService) Render(
	result *domain.ExtractionResult,
	out driving.OutputOptions,
) (*driving.Output, error) {
	m.rendered, m.output = result, out
	m.renderCalls++
	result.Finalize()
	text := fmt.Sprintf("%d records", len(result.Records))
	if len(result.Records) > 0 {
		if id, ok := result.Records[0].Get("id"); ok {
			text += fmt.Sprintf(", first %v", id)
		}
	}
	return &driving.Output{Text: text, Result: result}, nil
}

func (m *mockExtractionService) MailBackends() []string {
	return []string{"graph"}
}

// mockCustomerService is a mock implementation of driving.CustomerService.
type mockCustomerService struct {
	customers    []domain.Customer
	customer     *domain.Customer
	environments []domain.Environment
	environment  *domain.Environment
	checklist    []domain.ChecklistItem
	item         *domain.ChecklistItem
	assessment   string
	err          error

	filter          domain.CustomerFilter
	id              string
	added           domain.Customer
	update          driving.CustomerUpdate
	addedEnv        domain.Environment
	itemID          string
	checklistUpdate domain.ChecklistUpdate
}

func (m *mockCustomerService) List(_ context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	m.filter = filter
	return m.customers, m.err
}

func (m *mockCustomerService) Get(_ context.Context, id string) (*domain.Customer, error) {
	m.id = id
	return m.customer, m.err
}

func (m *mockCustomerService) Add(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	m.added = c
	if m.err != nil {
		return nil, m.err
	}
	c.ID = "c-new"
	return &c, nil
}

func (m *mockCustomerService) Update(_ context.Context, id string, update driving.CustomerUpdate) (*domain.Customer, error) {
	m.id, m.update = id, update
	return m.customer, m.err
}

func (m *mockCustomerService) Environments(_ context.Context, customerID string) ([]domain.Environment, error) {
	m.id = customerID
	return m.environments, m.err
}

func (m *mockCustomerService) AddEnvironment(_ context.Context, env domain.Environment) (*domain.Environment, error) {
	m.addedEnv = env
	return m.environment, m.err
}

func (m *mockCustomerService) Checklist(_ context.Context, customerID string) ([]domain.ChecklistItem, error) {
	m.id = customerID
	return m.checklist, m.err
}

func (m *mockCustomerService) UpdateChecklistItem(
	_ context.Context,
	customerID, itemID string,
	update domain.ChecklistUpdate,
) (*domain.ChecklistItem, error) {
	m.id, m.itemID, m.checklistUpdate = customerID, itemID, update
	return m.item, m.err
}

func (m *mockCustomerService) Assessment(_ context.Context, customerID string) (string, error) {
	m.id = customerID
	return m.assessment, m.err
}

func newTestServer(t *testing.T, ext *mockExtractionService, cust *mockCustomerService) *Server {
	t.Helper()
	if ext == nil {
		ext = &mockExtractionService{}
	}
	if cust == nil {
		cust = &mockCustomerService{}
	}
	server, err := NewServer(&Ports{Extraction: ext, Customers: cust})
	require.NoError(t, err)
	return server
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}
