package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/core/ports/driving"
	"github.com/custodia-labs/implkit/internal/logger"
)

// ExtractPDFInput is the input schema for the extract_pdf tool.
type ExtractPDFInput struct {
	Path          string `json:"path" jsonschema:"absolute path to the PDF file"`
	Pages         string `json:"pages,omitempty" jsonschema:"page selection such as 1-5,8 or all (default all)"`
	IncludeTables bool   `json:"includeTables,omitempty" jsonschema:"detect tables from the page layout"`
	Format        string `json:"format,omitempty" jsonschema:"output format: json, markdown, summary, key-value or csv"`
	TargetTool    string `json:"targetTool,omitempty" jsonschema:"name of the tool that will consume the output"`
}

// ExtractEmailInput is the input schema for the extract_email tool.
type ExtractEmailInput struct {
	Path       string `json:"path" jsonschema:"absolute path to the .eml file"`
	Format     string `json:"format,omitempty" jsonschema:"output format: json, markdown, summary, key-value or csv"`
	TargetTool string `json:"targetTool,omitempty" jsonschema:"name of the tool that will consume the output"`
}

// ExtractJSONInput is the input schema for the extract_json tool.
type ExtractJSONInput struct {
	Input      string `json:"input" jsonschema:"inline JSON, or an absolute path to a .json, .yaml or .yml file"`
	Path       string `json:"path,omitempty" jsonschema:"dot path selecting a sub-node, e.g. data.items.*.name"`
	Flatten    bool   `json:"flatten,omitempty" jsonschema:"collapse nested objects into dot-notation keys"`
	Format     string `json:"format,omitempty" jsonschema:"output format: json, markdown, summary, key-value or csv"`
	TargetTool string `json:"targetTool,omitempty" jsonschema:"name of the tool that will consume the output"`
}

// ExtractCodeInput is the input schema for the extract_code tool.
type ExtractCodeInput struct {
	Path       string `json:"path" jsonschema:"absolute path to the source file"`
	Language   string `json:"language,omitempty" jsonschema:"language override: typescript, javascript, python, csharp, java, go, rust or xpp"`
	Mode       string `json:"mode,omitempty" jsonschema:"structure, imports, exports, comments or full (default structure)"`
	Format     string `json:"format,omitempty" jsonschema:"output format: json, markdown, summary, key-value or csv"`
	TargetTool string `json:"targetTool,omitempty" jsonschema:"name of the tool that will consume the output"`
}

// ExtractFileInput is the input schema for the extract_file tool.
type ExtractFileInput struct {
	Path       string `json:"path" jsonschema:"absolute path to the file; the extractor is chosen from the extension"`
	Format     string `json:"format,omitempty" jsonschema:"output format: json, markdown, summary, key-value or csv"`
	TargetTool string `json:"targetTool,omitempty" jsonschema:"name of the tool that will consume the output"`
}

// QueryMailInput is the input schema for the query_mail tool.
type QueryMailInput struct {
	Backend     string `json:"backend,omitempty" jsonschema:"graph or gmail (default: the first configured backend)"`
	Mailbox     string `json:"mailbox,omitempty" jsonschema:"mailbox address (default: the configured mailbox)"`
	Search      string `json:"search,omitempty" jsonschema:"free-text search"`
	Folder      string `json:"folder,omitempty" jsonschema:"mail folder (graph) or label (gmail)"`
	UnreadOnly  bool   `json:"unreadOnly,omitempty" jsonschema:"only unread messages"`
	Max         int    `json:"max,omitempty" jsonschema:"maximum number of messages (default 10, at most 50)"`
	IncludeBody bool   `json:"includeBody,omitempty" jsonschema:"include the full plain-text body instead of a preview"`
	Format      string `json:"format,omitempty" jsonschema:"output format: json, markdown, summary, key-value or csv"`
	TargetTool  string `json:"targetTool,omitempty" jsonschema:"name of the tool that will consume the output"`
}

// QueryDataverseInput is the input schema for the query_dataverse tool.
type QueryDataverseInput struct {
	Entity     string `json:"entity" jsonschema:"entity set name, e.g. accounts"`
	Select     string `json:"select,omitempty" jsonschema:"comma-separated columns to return"`
	Filter     string `json:"filter,omitempty" jsonschema:"OData filter expression"`
	OrderBy    string `json:"orderBy,omitempty" jsonschema:"OData orderby expression"`
	Expand     string `json:"expand,omitempty" jsonschema:"OData expand expression"`
	Top        int    `json:"top,omitempty" jsonschema:"maximum number of records (default 50, at most 500)"`
	Flatten    bool   `json:"flatten,omitempty" jsonschema:"collapse expanded objects into dot-notation keys"`
	Format     string `json:"format,omitempty" jsonschema:"output format: json, markdown, summary, key-value or csv"`
	TargetTool string `json:"targetTool,omitempty" jsonschema:"name of the tool that will consume the output"`
}

// FormatDataInput is the input schema for the format_data tool.
type FormatDataInput struct {
	Data       string `json:"data" jsonschema:"JSON records, or a json envelope produced by another tool"`
	Format     string `json:"format,omitempty" jsonschema:"output format: json, markdown, summary, key-value or csv"`
	TargetTool string `json:"targetTool,omitempty" jsonschema:"name of the tool that will consume the output"`
}

// toolFunc produces the output of one tool call.
type toolFunc func(ctx context.Context) (*driving.Output, error)

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_pdf",
		Description: "Extract text from a PDF file, one record per page, optionally with detected tables",
	}, s.handleExtractPDF)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_email",
		Description: "Extract headers, plain-text body and attachment names from an .eml file",
	}, s.handleExtractEmail)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_json",
		Description: "Split inline JSON or a JSON/YAML file into records, optionally selecting a path and flattening",
	}, s.handleExtractJSON)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_code",
		Description: "Extract classes, functions, imports, exports or comments from a source file",
	}, s.handleExtractCode)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_file",
		Description: "Extract records from any supported file, choosing the extractor from the file extension",
	}, s.handleExtractFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_mail",
		Description: "List messages from a Microsoft 365 (Graph) or Gmail mailbox",
	}, s.handleQueryMail)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_dataverse",
		Description: "Read records from a Dataverse table through the OData Web API",
	}, s.handleQueryDataverse)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "format_data",
		Description: "Render JSON records as json, markdown, summary, key-value or csv for another tool",
	}, s.handleFormatData)

	s.registerCustomerTools()
}

// call runs fn for tool, records the call and turns any failure into an
// error message. The returned result always carries text.
func (s *Server) call(ctx context.Context, tool string, fn toolFunc) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	out, err := fn(ctx)
	elapsed := time.Since(start)

	s.ports.Metrics.ObserveToolCall(tool, err != nil, elapsed)
	if err != nil {
		logger.Warn("%s failed after %s: %v", tool, elapsed.Round(time.Millisecond), err)
		return textResult(describeError(err)), nil, nil
	}

	if out.Result != nil {
		meta := out.Result.Metadata
		s.ports.Metrics.ObserveExtraction(string(meta.Source), meta.RecordCount, len(meta.Warnings))
		logger.Debug("%s: %d records from %s as %s in %s",
			tool, meta.RecordCount, meta.Source, meta.OutputFormat, elapsed.Round(time.Millisecond))
	}
	return textResult(out.Text), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func outputOptions(format, targetTool string) driving.OutputOptions {
	return driving.OutputOptions{Format: format, TargetTool: targetTool}
}

func (s *Server) handleExtractPDF(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractPDFInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "extract_pdf", func(ctx context.Context) (*driving.Output, error) {
		opts := domain.ExtractOptions{Pages: input.Pages, IncludeTables: input.IncludeTables}
		return s.ports.Extraction.ExtractFile(ctx, driving.KindPDF, input.Path, opts,
			outputOptions(input.Format, input.TargetTool))
	})
}

func (s *Server) handleExtractEmail(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractEmailInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "extract_email", func(ctx context.Context) (*driving.Output, error) {
		return s.ports.Extraction.ExtractFile(ctx, driving.KindEmail, input.Path, domain.ExtractOptions{},
			outputOptions(input.Format, input.TargetTool))
	})
}

func (s *Server) handleExtractJSON(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractJSONInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "extract_json", func(ctx context.Context) (*driving.Output, error) {
		opts := domain.ExtractOptions{Path: input.Path, Flatten: input.Flatten}
		return s.ports.Extraction.ExtractJSON(ctx, input.Input, opts, outputOptions(input.Format, input.TargetTool))
	})
}

func (s *Server) handleExtractCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractCodeInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "extract_code", func(ctx context.Context) (*driving.Output, error) {
		mode, err := domain.ParseCodeMode(input.Mode)
		if err != nil {
			return nil, err
		}
		opts := domain.ExtractOptions{Language: input.Language, Mode: mode}
		return s.ports.Extraction.ExtractFile(ctx, driving.KindCode, input.Path, opts,
			outputOptions(input.Format, input.TargetTool))
	})
}

func (s *Server) handleExtractFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractFileInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "extract_file", func(ctx context.Context) (*driving.Output, error) {
		return s.ports.Extraction.ExtractFile(ctx, driving.KindAuto, input.Path, domain.ExtractOptions{},
			outputOptions(input.Format, input.TargetTool))
	})
}

func (s *Server) handleQueryMail(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryMailInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "query_mail", func(ctx context.Context) (*driving.Output, error) {
		q := driven.MailQuery{
			Mailbox:     input.Mailbox,
			Search:      input.Search,
			Folder:      input.Folder,
			UnreadOnly:  input.UnreadOnly,
			Max:         input.Max,
			IncludeBody: input.IncludeBody,
		}
		return s.ports.Extraction.QueryMail(ctx, input.Backend, q, outputOptions(input.Format, input.TargetTool))
	})
}

func (s *Server) handleQueryDataverse(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryDataverseInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "query_dataverse", func(ctx context.Context) (*driving.Output, error) {
		q := driven.TabularQuery{
			Entity:  input.Entity,
			Select:  splitList(input.Select),
			Filter:  input.Filter,
			OrderBy: input.OrderBy,
			Expand:  input.Expand,
			Top:     input.Top,
			Flatten: input.Flatten,
		}
		return s.ports.Extraction.QueryDataverse(ctx, q, outputOptions(input.Format, input.TargetTool))
	})
}

func (s *Server) handleFormatData(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FormatDataInput,
) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, "format_data", func(ctx context.Context) (*driving.Output, error) {
		return s.ports.Extraction.FormatData(ctx, input.Data, outputOptions(input.Format, input.TargetTool))
	})
}

// splitList splits a comma-separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
