package records

import "github.com/custodia-labs/implkit/internal/core/domain"

// Flatten collapses nested objects into a single level of dot-notation keys
// (parent.child.grandchild). Sequences are leaves and kept intact. When two
// paths produce the same key the later one wins.
func Flatten(obj any, prefix string) *domain.Record {
	out := domain.NewRecord()
	flattenInto(out, obj, prefix)
	return out
}

func flattenInto(out *domain.Record, v any, prefix string) {
	rec, ok := domain.AsObject(v)
	if !ok {
		if prefix != "" {
			out.Set(prefix, v)
		}
		return
	}
	for _, k := range rec.Keys() {
		val, _ := rec.Get(k)
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if _, nested := domain.AsObject(val); nested {
			flattenInto(out, val, key)
			continue
		}
		out.Set(key, val)
	}
}
