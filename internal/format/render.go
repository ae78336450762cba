package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// Summary limits.
const (
	maxHistogramValues = 5
	maxSummaryValue    = 100
)

// Render writes result in format f. mapped is only used by the json
// rendering.
func Render(result *domain.ExtractionResult, f domain.Format, mapped *domain.Record) (string, error) {
	switch f {
	case domain.FormatJSON:
		return renderJSON(result, mapped)
	case domain.FormatMarkdown:
		return renderMarkdown(result), nil
	case domain.FormatSummary:
		return renderSummary(result), nil
	case domain.FormatKeyValue:
		return renderKeyValue(result), nil
	case domain.FormatCSV:
		return renderCSV(result)
	}
	return "", fmt.Errorf("%w: format %q", domain.ErrUnsupportedType, f)
}

type jsonDocument struct {
	Metadata     domain.Metadata  `json:"metadata"`
	Records      []*domain.Record `json:"records"`
	MappedFields *domain.Record   `json:"mappedFields,omitempty"`
}

func renderJSON(result *domain.ExtractionResult, mapped *domain.Record) (string, error) {
	records := result.Records
	if records == nil {
		records = []*domain.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonDocument{
		Metadata:     result.Metadata,
		Records:      records,
		MappedFields: mapped,
	}); err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func renderMarkdown(result *domain.ExtractionResult) string {
	var b strings.Builder
	m := result.Metadata
	fmt.Fprintf(&b, "**Source:** %s | **Extracted:** %s | **Records:** %d\n",
		m.Source, timestamp(m), len(result.Records))

	if len(result.Records) == 0 {
		b.WriteString("\nNo records found.\n")
	}
	for i, rec := range result.Records {
		fmt.Fprintf(&b, "\n## Record %d\n\n", i+1)
		for _, k := range rec.Keys() {
			v, _ := rec.Get(k)
			fmt.Fprintf(&b, "- **%s**: %s\n", k, valueText(v))
		}
	}

	if len(m.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range m.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderKeyValue(result *domain.ExtractionResult) string {
	var b strings.Builder
	multi := len(result.Records) > 1

	if len(result.Records) == 0 {
		b.WriteString("No records found.\n")
	}
	for i, rec := range result.Records {
		if multi {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "=== Record %d ===\n", i+1)
		}
		for _, k := range rec.Keys() {
			v, _ := rec.Get(k)
			fmt.Fprintf(&b, "%s: %s\n", k, valueText(v))
		}
	}

	writeWarningLines(&b, result.Metadata.Warnings)
	return strings.TrimRight(b.String(), "\n")
}

func writeWarningLines(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("\nWarnings:\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
}

func renderCSV(result *domain.ExtractionResult) (string, error) {
	var b strings.Builder
	m := result.Metadata
	fmt.Fprintf(&b, "# source: %s | extracted: %s | records: %d\n", m.Source, timestamp(m), len(result.Records))

	if len(result.Records) == 0 {
		b.WriteString("(no data)")
		return b.String(), nil
	}

	header := fieldOrder(result.Records)
	writeCSVRow(&b, header)
	row := make([]string, len(header))
	for _, rec := range result.Records {
		for i, k := range header {
			v, ok := rec.Get(k)
			row[i] = cellText(v, ok)
		}
		writeCSVRow(&b, row)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// writeCSVRow writes one newline-terminated row. Fields are quoted only
// when they hold a comma, a double quote or a line break; encoding/csv
// would also quote leading spaces.
func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if strings.ContainsAny(f, ",\"\r\n") {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
			continue
		}
		b.WriteString(f)
	}
	b.WriteByte('\n')
}

// fieldOrder is the union of record keys in first-seen order.
func fieldOrder(records []*domain.Record) []string {
	seen := make(map[string]bool)
	var order []string
	for _, rec := range records {
		for _, k := range rec.Keys() {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}
	return order
}

func renderSummary(result *domain.ExtractionResult) string {
	var b strings.Builder
	m := result.Metadata
	fmt.Fprintf(&b, "Extracted %d record(s) from %s at %s.\n", len(result.Records), m.Source, timestamp(m))

	if len(result.Records) == 0 {
		b.WriteString("No records found.\n")
	}
	for _, field := range fieldOrder(result.Records) {
		fmt.Fprintf(&b, "- %s: %s\n", field, summariseField(result.Records, field))
	}

	if len(m.Warnings) > 0 {
		fmt.Fprintf(&b, "Warnings: %s\n", strings.Join(m.Warnings, "; "))
	}
	return strings.TrimRight(b.String(), "\n")
}

type valueCount struct {
	value string
	count int
	first int
}

// summariseField describes the values of one field across records.
func summariseField(records []*domain.Record, field string) string {
	carriers := 0
	var last any
	counts := make(map[string]*valueCount)
	for _, rec := range records {
		v, ok := rec.Get(field)
		if !ok {
			continue
		}
		carriers++
		last = v
		if v == nil {
			continue
		}
		s := valueText(v)
		if c, ok := counts[s]; ok {
			c.count++
		} else {
			counts[s] = &valueCount{value: s, count: 1, first: len(counts)}
		}
	}

	switch {
	case carriers == 1:
		return domain.Truncate(valueText(last), maxSummaryValue)
	case len(counts) > maxHistogramValues:
		return fmt.Sprintf("%d distinct values", len(counts))
	case len(counts) == 0:
		return fmt.Sprintf("null in %d records", carriers)
	}

	hist := make([]*valueCount, 0, len(counts))
	for _, c := range counts {
		hist = append(hist, c)
	}
	sort.Slice(hist, func(i, j int) bool {
		if hist[i].count != hist[j].count {
			return hist[i].count > hist[j].count
		}
		return hist[i].first < hist[j].first
	})
	parts := make([]string, len(hist))
	for i, c := range hist {
		parts[i] = fmt.Sprintf("%s (%d)", domain.Truncate(c.value, maxSummaryValue), c.count)
	}
	return strings.Join(parts, ", ")
}
