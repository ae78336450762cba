package pdf

import (
	"sort"
	"strconv"
	"strings"
)

// SelectPages resolves a page range expression such as "1-5,8,10-12" or
// "all" against a document of total pages. Tokens that are not numbers or
// ranges are dropped. Pages past the end are returned separately.
func SelectPages(expr string, total int) (selected, beyond []int) {
	expr = strings.TrimSpace(expr)
	if expr == "" || strings.EqualFold(expr, "all") {
		selected = make([]int, total)
		for i := range selected {
			selected[i] = i + 1
		}
		return selected, nil
	}

	seen := make(map[int]bool)
	for _, tok := range strings.Split(expr, ",") {
		tok = strings.TrimSpace(tok)
		lo, hi, ok := parseToken(tok)
		if !ok {
			continue
		}
		for p := lo; p <= hi; p++ {
			seen[p] = true
		}
	}

	for p := range seen {
		if p > total {
			beyond = append(beyond, p)
		} else {
			selected = append(selected, p)
		}
	}
	sort.Ints(selected)
	sort.Ints(beyond)
	return selected, beyond
}

// maxRange stops "1-999999999" from allocating a huge set.
const maxRange = 10_000

func parseToken(tok string) (lo, hi int, ok bool) {
	if first, last, isRange := strings.Cut(tok, "-"); isRange {
		a, errA := strconv.Atoi(strings.TrimSpace(first))
		b, errB := strconv.Atoi(strings.TrimSpace(last))
		if errA != nil || errB != nil || a < 1 || b < a || b-a > maxRange {
			return 0, 0, false
		}
		return a, b, true
	}
	p, err := strconv.Atoi(tok)
	if err != nil || p < 1 {
		return 0, 0, false
	}
	return p, p, true
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
