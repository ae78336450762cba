package pdf

import (
	"regexp"
	"strings"
)

// columnGap separates cells in pdftotext -layout output.
var columnGap = regexp.MustCompile(`\s{2,}`)

// DetectTables finds runs of at least two consecutive lines that split
// into the same number (>= 2) of space-aligned columns. Each table is a
// sequence of rows, each row a sequence of cell strings.
func DetectTables(layout string) []any {
	var tables []any
	var rows []any
	cols := 0

	flush := func() {
		if len(rows) >= 2 {
			tables = append(tables, rows)
		}
		rows = nil
		cols = 0
	}

	for _, line := range strings.Split(layout, "\n") {
		cells := splitCells(line)
		if len(cells) < 2 {
			flush()
			continue
		}
		if cols != 0 && len(cells) != cols {
			flush()
		}
		cols = len(cells)
		row := make([]any, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		rows = append(rows, row)
	}
	flush()
	return tables
}

func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return columnGap.Split(line, -1)
}
