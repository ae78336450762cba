package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driving"
	"github.com/custodia-labs/implkit/internal/metrics"
	"github.com/custodia-labs/implkit/internal/normalisers/pdf"
)

func TestServer_handleExtractPDF(t *testing.T) {
	ext := &mockExtractionService{out: &driving.Output{Text: "**Source:** pdf"}}
	server := newTestServer(t, ext, nil)

	res, out, err := server.handleExtractPDF(context.Background(), nil, ExtractPDFInput{
		Path:          "/docs/report.pdf",
		Pages:         "1-3",
		IncludeTables: true,
		Format:        "markdown",
		TargetTool:    "generate_assessment",
	})
	require.NoError(t, err)
	assert.Nil(t, out)

	assert.Equal(t, "**Source:** pdf", resultText(t, res))
	assert.Equal(t, driving.KindPDF, ext.kind)
	assert.Equal(t, "/docs/report.pdf", ext.path)
	assert.Equal(t, domain.ExtractOptions{Pages: "1-3", IncludeTables: true}, ext.opts)
	assert.Equal(t, driving.OutputOptions{Format: "markdown", TargetTool: "generate_assessment"}, ext.output)
}

func TestServer_handleExtractFileKinds(t *testing.T) {
	ctx := context.Background()
	ext := &mockExtractionService{}
	server := newTestServer(t, ext, nil)

	_, _, err := server.handleExtractEmail(ctx, nil, ExtractEmailInput{Path: "/mail/a.eml"})
	require.NoError(t, err)
	assert.Equal(t, driving.KindEmail, ext.kind)

	_, _, err = server.handleExtractFile(ctx, nil, ExtractFileInput{Path: "/src/main.go"})
	require.NoError(t, err)
	assert.Equal(t, driving.KindAuto, ext.kind)

	_, _, err = server.handleExtractCode(ctx, nil, ExtractCodeInput{Path: "/src/app.ts", Language: "typescript", Mode: "exports"})
	require.NoError(t, err)
	assert.Equal(t, driving.KindCode, ext.kind)
	assert.Equal(t, domain.ModeExports, ext.opts.Mode)
	assert.Equal(t, "typescript", ext.opts.Language)
}

func TestServer_handleExtractCode_InvalidMode(t *testing.T) {
	ext := &mockExtractionService{}
	server := newTestServer(t, ext, nil)

	res, _, err := server.handleExtractCode(context.Background(), nil, ExtractCodeInput{Path: "/src/a.go", Mode: "everything"})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), `Error: unsupported type: code mode "everything"`)
	assert.Empty(t, ext.path)
}

func TestServer_handleExtractJSON(t *testing.T) {
	ext := &mockExtractionService{}
	server := newTestServer(t, ext, nil)

	_, _, err := server.handleExtractJSON(context.Background(), nil, ExtractJSONInput{
		Input:   "~/data.yaml",
		Path:    "items.*",
		Flatten: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "~/data.yaml", ext.input)
	assert.Equal(t, domain.ExtractOptions{Path: "items.*", Flatten: true}, ext.opts)
}

func TestServer_handleQueryMail(t *testing.T) {
	ext := &mockExtractionService{}
	server := newTestServer(t, ext, nil)

	_, _, err := server.handleQueryMail(context.Background(), nil, QueryMailInput{
		Backend:    "gmail",
		Search:     "invoice",
		Folder:     "inbox",
		UnreadOnly: true,
		Max:        5,
	})
	require.NoError(t, err)
	assert.Equal(t, "gmail", ext.backend)
	assert.Equal(t, "invoice", ext.mailQuery.Search)
	assert.Equal(t, "inbox", ext.mailQuery.Folder)
	assert.True(t, ext.mailQuery.UnreadOnly)
	assert.Equal(t, 5, ext.mailQuery.Max)
}

func TestServer_handleQueryDataverse(t *testing.T) {
	ext := &mockExtractionService{}
	server := newTestServer(t, ext, nil)

	_, _, err := server.handleQueryDataverse(context.Background(), nil, QueryDataverseInput{
		Entity: "accounts",
		Select: "name, revenue,,statecode ",
		Filter: "statecode eq 0",
		Top:    20,
	})
	require.NoError(t, err)
	assert.Equal(t, "accounts", ext.tabQuery.Entity)
	assert.Equal(t, []string{"name", "revenue", "statecode"}, ext.tabQuery.Select)
	assert.Equal(t, "statecode eq 0", ext.tabQuery.Filter)
	assert.Equal(t, 20, ext.tabQuery.Top)
}

func TestServer_call_RecordsMetrics(t *testing.T) {
	m := metrics.New()
	result := domain.NewExtractionResult(domain.SourceDataverse, fixedTime)
	result.Add(domain.RecordOf("name", "a"))
	result.Add(domain.RecordOf("name", "b"))
	result.Warn("stopped after 5 pages; more records available")
	result.Finalize()

	ext := &mockExtractionService{out: &driving.Output{Text: "rows", Result: result}}
	server, err := NewServer(&Ports{Extraction: ext, Customers: &mockCustomerService{}, Metrics: m})
	require.NoError(t, err)

	_, _, err = server.handleQueryDataverse(context.Background(), nil, QueryDataverseInput{Entity: "accounts"})
	require.NoError(t, err)

	ext.err = errors.New("boom")
	ext.out = nil
	res, _, err := server.handleQueryDataverse(context.Background(), nil, QueryDataverseInput{Entity: "accounts"})
	require.NoError(t, err)
	assert.Equal(t, "Error: boom", resultText(t, res))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			key := mf.GetName()
			for _, label := range metric.GetLabel() {
				key += "," + label.GetName() + "=" + label.GetValue()
			}
			if metric.GetCounter() != nil {
				values[key] = metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["implkit_tool_calls_total,status=ok,tool=query_dataverse"])
	assert.Equal(t, 1.0, values["implkit_tool_calls_total,status=error,tool=query_dataverse"])
	assert.Equal(t, 2.0, values["implkit_records_extracted_total,source=dataverse"])
	assert.Equal(t, 1.0, values["implkit_extraction_warnings_total,source=dataverse"])
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "plain error",
			err:      fmt.Errorf("%w: /tmp/missing.pdf", domain.ErrNotFound),
			contains: []string{"Error: not found: /tmp/missing.pdf"},
		},
		{
			name:     "unauthorised upstream",
			err:      domain.NewUpstreamError("graph", 401, `{"error":"InvalidAuthenticationToken"}`),
			contains: []string{"Error: graph rejected the access token (HTTP 401)", "cached token has been discarded"},
		},
		{
			name:     "wrapped auth error",
			err:      fmt.Errorf("list messages: %w", domain.ErrAuthInvalid),
			contains: []string{"Error: the remote API rejected the access token"},
		},
		{
			name:     "upstream error with body",
			err:      domain.NewUpstreamError("dataverse", 400, "Could not find a property named 'foo'"),
			contains: []string{"Error: dataverse API returned HTTP 400: Could not find a property named 'foo'"},
		},
		{
			name:     "upstream error without body",
			err:      domain.NewUpstreamError("gmail", 503, ""),
			contains: []string{"Error: gmail API returned HTTP 503"},
		},
		{
			name:     "token refresh failure",
			err:      fmt.Errorf("%w: dataverse: invalid_client", domain.ErrTokenRefreshFailed),
			contains: []string{"Error: token refresh failed: dataverse: invalid_client", "client ID"},
		},
		{
			name:     "rate limited",
			err:      fmt.Errorf("%w: %w", domain.ErrRateLimited, domain.NewUpstreamError("graph", 429, "")),
			contains: []string{"Error: rate limited", "Wait a moment"},
		},
		{
			name:     "pdf tool missing",
			err:      pdf.ErrPDFToolNotFound,
			contains: []string{"Error: pdftotext not found", pdf.InstallInstructions()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := describeError(tt.err)
			for _, want := range tt.contains {
				assert.Contains(t, msg, want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
}
