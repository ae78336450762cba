// Package normalisers provides implementations of the Normaliser interface
// for the supported extraction sources. Each normaliser turns the bytes of
// one kind of document into an ExtractionResult of uniform records.
//
// Normalisers are registered with the Registry at startup.
package normalisers
