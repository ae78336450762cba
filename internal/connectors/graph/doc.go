// Package graph lists mailbox messages through Microsoft Graph using an
// app-only token. A query reads a single page; an @odata.nextLink in the
// answer is reported as a warning and not followed.
package graph
