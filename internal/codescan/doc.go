// Package codescan recovers declarations, imports, exports and doc
// comments from source text with per-language line patterns.
//
// It is a heuristic line scanner, not a parser: each language is a Scanner
// backed by ordered, line-anchored regular expressions. Any Scanner can be
// replaced by a real parser for its language without touching the others.
package codescan
