// Package connectors provides clients for the remote sources the
// extraction tools query: Dataverse tables, Microsoft Graph mail and
// Gmail. Each client fetches a bounded number of pages and returns a
// domain.ExtractionResult; continuation beyond the bound is reported as a
// warning rather than followed.
//
// The shared Client in this package handles bearer tokens, rate limiting
// and the mapping of HTTP failures onto domain errors.
package connectors
