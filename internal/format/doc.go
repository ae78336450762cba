// Package format renders extraction results as text.
//
// The output format is chosen in priority order: an explicit format, the
// preferred format of the target tool, then a heuristic over the shape of
// the records. For write tools with a known parameter list the first record
// is also reconciled against the expected field names.
package format
