// Package google provides shared infrastructure for the Gmail mail client.
//
// It contains:
//   - TokenSource adapter to bridge the TokenProvider port to oauth2.TokenSource
//   - A service factory for the Gmail API client
//   - Error mapping from googleapi errors to domain errors (401, 429)
//   - Rate limiting to respect Gmail API quotas
//
// # Usage
//
//	svc, err := google.NewGmailService(ctx, tokenProvider)
//	client := gmail.New(gmail.Config{User: "me"}, svc, tokenProvider)
//
// # OAuth2 Scopes
//
// Only https://www.googleapis.com/auth/gmail.readonly is requested. The
// refresh token is issued out of band and stored in the configuration.
package google
