package format

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

func TestFormat_RecordsResolutionInMetadata(t *testing.T) {
	f := New(DefaultHeuristics())
	result := newResult(domain.SourceJSON, domain.RecordOf("a", 1))

	out, err := f.Format(result, Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.FormatKeyValue, result.Metadata.OutputFormat)
	assert.Empty(t, result.Metadata.TargetTool)
	assert.Equal(t, "a: 1", out)
}

func TestFormat_TargetRecordedEvenWhenExplicitWins(t *testing.T) {
	f := New(DefaultHeuristics())
	result := newResult(domain.SourceJSON, domain.RecordOf("a", 1))

	_, err := f.Format(result, Options{Format: domain.FormatCSV, TargetTool: "generate_assessment"})
	require.NoError(t, err)

	assert.Equal(t, domain.FormatCSV, result.Metadata.OutputFormat)
	assert.Equal(t, "generate_assessment", result.Metadata.TargetTool)
}

func TestFormat_UnknownTargetFallsBackToHeuristic(t *testing.T) {
	f := New(DefaultHeuristics())
	result := newResult(domain.SourceJSON)

	out, err := f.Format(result, Options{TargetTool: "send_invoice"})
	require.NoError(t, err)

	assert.Equal(t, domain.FormatJSON, result.Metadata.OutputFormat)
	assert.Equal(t, "send_invoice", result.Metadata.TargetTool)
	assert.NotContains(t, out, "mappedFields")
}

func TestFormat_MappedFieldsOnlyInJSON(t *testing.T) {
	f := New(DefaultHeuristics())

	jsonResult := newResult(domain.SourceInline, domain.RecordOf("Name", "Acme", "industry", "Retail"))
	out, err := f.Format(jsonResult, Options{TargetTool: "add_customer"})
	require.NoError(t, err)

	var doc struct {
		Metadata     domain.Metadata `json:"metadata"`
		MappedFields map[string]any  `json:"mappedFields"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "add_customer", doc.Metadata.TargetTool)
	assert.Equal(t, domain.FormatJSON, doc.Metadata.OutputFormat)
	assert.Equal(t, "Acme", doc.MappedFields["name"])
	assert.Equal(t, "Retail", doc.MappedFields["industry"])
	goLive, present := doc.MappedFields["goLiveDate"]
	assert.True(t, present)
	assert.Nil(t, goLive)

	kvResult := newResult(domain.SourceInline, domain.RecordOf("status", "done"))
	out, err = f.Format(kvResult, Options{TargetTool: "update_checklist_item"})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatKeyValue, kvResult.Metadata.OutputFormat)
	assert.Equal(t, "status: done", out)
}

func TestFormat_FinalizesRecordCount(t *testing.T) {
	f := New(DefaultHeuristics())
	result := domain.NewExtractionResult(domain.SourceJSON, fixedTime)
	result.Records = append(result.Records, domain.RecordOf("a", 1), domain.RecordOf("a", 2))

	_, err := f.Format(result, Options{Format: domain.FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Metadata.RecordCount)
}

func TestFormat_ZeroRecordsCSV(t *testing.T) {
	f := New(DefaultHeuristics())
	result := newResult(domain.SourceDataverse)

	out, err := f.Format(result, Options{TargetTool: "export_records"})
	require.NoError(t, err)
	assert.Equal(t, "# source: dataverse | extracted: 2024-03-01T12:00:00Z | records: 0\n(no data)", out)
}
