// Package records holds pure helpers over nested record values: dot/bracket
// path resolution with wildcard fan-out, and flattening of nested objects
// into dot-notation keys.
//
// Both operate on the value shapes produced by domain.ParseJSON and the
// normalisers: *domain.Record, map[string]any, []any and scalars.
package records
