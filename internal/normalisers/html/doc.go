// Package html converts a restricted HTML subset to readable plain text and
// provides a Normaliser for HTML documents built on that conversion.
//
// The conversion is a fixed substitution pipeline, not an HTML parser:
// unknown or malformed markup degrades to visible stray characters and
// never produces an error.
package html
