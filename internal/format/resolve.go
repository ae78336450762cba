package format

import (
	"unicode/utf8"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// Heuristics holds the thresholds of the data-shape heuristic.
type Heuristics struct {
	// MaxKeyValueDepth is the deepest single record still shown as key-value.
	MaxKeyValueDepth int `toml:"max_key_value_depth"`

	// MinCSVRecords is exceeded by flat record sets rendered as CSV.
	MinCSVRecords int `toml:"min_csv_records"`

	// LongTextChars is exceeded by a string value that selects markdown.
	LongTextChars int `toml:"long_text_chars"`
}

// DefaultHeuristics returns the standard thresholds.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		MaxKeyValueDepth: 2,
		MinCSVRecords:    3,
		LongTextChars:    200,
	}
}

// Resolve picks the output format: explicit wins, then the target tool's
// preferred format, then the heuristic.
func (h Heuristics) Resolve(records []*domain.Record, explicit domain.Format, target domain.TargetTool) domain.Format {
	if explicit != "" {
		return explicit
	}
	if f, ok := target.PreferredFormat(); ok {
		return f
	}
	return h.Infer(records)
}

// Infer applies the data-shape heuristic.
func (h Heuristics) Infer(records []*domain.Record) domain.Format {
	switch {
	case len(records) == 0:
		return domain.FormatJSON
	case len(records) == 1:
		if RecordDepth(records[0]) > h.MaxKeyValueDepth {
			return domain.FormatJSON
		}
		return domain.FormatKeyValue
	}

	if len(records) > h.MinCSVRecords && allFlat(records) {
		return domain.FormatCSV
	}
	if h.hasLongText(records) {
		return domain.FormatMarkdown
	}
	return domain.FormatJSON
}

// Depth is the nesting depth of v. Scalars and empty containers are 0;
// an object or sequence is one more than its deepest element.
func Depth(v any) int {
	if obj, ok := domain.AsObject(v); ok {
		deepest := -1
		for _, k := range obj.Keys() {
			child, _ := obj.Get(k)
			if d := Depth(child); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	}
	if seq, ok := domain.AsSequence(v); ok {
		deepest := -1
		for _, el := range seq {
			if d := Depth(el); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	}
	return 0
}

// RecordDepth is the deepest value of a record.
func RecordDepth(r *domain.Record) int {
	deepest := 0
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		if d := Depth(v); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// allFlat reports whether no record holds a keyed structure. Sequences
// count as flat.
func allFlat(records []*domain.Record) bool {
	for _, r := range records {
		for _, k := range r.Keys() {
			v, _ := r.Get(k)
			if _, nested := domain.AsObject(v); nested {
				return false
			}
		}
	}
	return true
}

func (h Heuristics) hasLongText(records []*domain.Record) bool {
	for _, r := range records {
		for _, k := range r.Keys() {
			v, _ := r.Get(k)
			if s, ok := v.(string); ok && utf8.RuneCountInString(s) > h.LongTextChars {
				return true
			}
		}
	}
	return false
}
