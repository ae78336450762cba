package records

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// Wildcard fans a path out over every element of a sequence.
const Wildcard = "*"

var bracketSegment = regexp.MustCompile(`\[(\d+|\*)\]`)

// SplitPath turns "a.b[0].c[*]" into ["a", "b", "0", "c", "*"].
func SplitPath(path string) []string {
	path = bracketSegment.ReplaceAllString(path, ".$1")
	parts := strings.Split(path, ".")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// Resolve walks path through value. The boolean is false when the path
// leads nowhere (a missing key, an out-of-range index, a scalar with
// segments left); that is not an error.
//
// A wildcard segment over a sequence resolves the rest of the path against
// each element and returns the per-element results, with nil standing in
// for elements where the rest of the path leads nowhere.
func Resolve(value any, path string) (any, bool) {
	return resolveSegments(value, SplitPath(path))
}

func resolveSegments(cur any, segs []string) (any, bool) {
	for i, seg := range segs {
		if cur == nil {
			return nil, false
		}

		if seq, ok := domain.AsSequence(cur); ok {
			if seg == Wildcard {
				rest := segs[i+1:]
				if len(rest) == 0 {
					return seq, true
				}
				out := make([]any, 0, len(seq))
				for _, el := range seq {
					v, _ := resolveSegments(el, rest)
					out = append(out, v)
				}
				return out, true
			}
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(seq) {
				return nil, false
			}
			cur = seq[idx]
			continue
		}

		if obj, ok := domain.AsObject(cur); ok {
			v, ok := obj.Get(seg)
			if !ok {
				return nil, false
			}
			cur = v
			continue
		}

		return nil, false
	}
	return cur, true
}
