// Package gmail lists Gmail messages as records. Message metadata comes
// from one messages.list page; each message is then fetched in raw RFC
// 5322 form and decoded by the email normaliser.
package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	gapi "google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/implkit/internal/connectors"
	"github.com/custodia-labs/implkit/internal/connectors/google"
	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/logger"
	"github.com/custodia-labs/implkit/internal/normalisers/eml"
)

// DefaultConcurrency bounds parallel messages.get calls.
const DefaultConcurrency = 5

// Config holds Gmail client configuration.
type Config struct {
	// User is the mailbox, "me" for the token owner.
	User string
	// Concurrency bounds parallel message fetches.
	Concurrency int
}

// Ensure Client implements the MailClient interface.
var _ driven.MailClient = (*Client)(nil)

// Client reads messages through the Gmail API.
type Client struct {
	svc     *gapi.Service
	tokens  driven.TokenProvider
	limiter *google.RateLimiter
	cfg     Config
	now     func() time.Time
}

// New creates a Gmail client over svc. tokens is used to invalidate the
// cached gmail token after a 401.
func New(cfg Config, svc *gapi.Service, tokens driven.TokenProvider) *Client {
	if cfg.User == "" {
		cfg.User = "me"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Client{
		svc:     svc,
		tokens:  tokens,
		limiter: google.NewRateLimiter(google.DefaultGmailRateLimit),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Name identifies the backend.
func (c *Client) Name() string {
	return "gmail"
}

// ListMessages returns one record per message in list order.
func (c *Client) ListMessages(ctx context.Context, q driven.MailQuery) (*domain.ExtractionResult, error) {
	user := q.Mailbox
	if user == "" {
		user = c.cfg.User
	}

	call := c.svc.Users.Messages.List(user).
		MaxResults(int64(connectors.MailLimit(q.Max))).
		Context(ctx)
	if query := searchQuery(q); query != "" {
		call = call.Q(query)
	}
	if q.Folder != "" {
		call = call.LabelIds(strings.ToUpper(q.Folder))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	list, err := call.Do()
	if err != nil {
		return nil, c.wrap(err, "list messages")
	}

	recs := make([]*domain.Record, len(list.Messages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for i, m := range list.Messages {
		g.Go(func() error {
			rec, err := c.fetch(gctx, user, m.Id, q.IncludeBody)
			if err != nil {
				return err
			}
			recs[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := domain.NewExtractionResult(domain.SourceMail, c.now())
	for _, rec := range recs {
		result.Add(rec)
	}
	if list.NextPageToken != "" {
		result.Warn("more messages available; showing first %d", len(recs))
	}
	result.Finalize()
	logger.Debug("gmail: %d messages for %s", len(recs), user)
	return result, nil
}

func (c *Client) fetch(ctx context.Context, user, id string, includeBody bool) (*domain.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	msg, err := c.svc.Users.Messages.Get(user, id).Format("raw").Context(ctx).Do()
	if err != nil {
		return nil, c.wrap(err, "get message "+id)
	}

	raw, err := decodeRaw(msg.Raw)
	if err != nil {
		return nil, fmt.Errorf("%w: message %s: %v", domain.ErrInvalidInput, id, err)
	}
	parsed, err := eml.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", id, err)
	}
	return toRecord(msg, parsed, includeBody), nil
}

// wrap maps API errors onto domain errors, invalidating the token on 401
// and backing off on 429.
func (c *Client) wrap(err error, op string) error {
	switch {
	case google.IsUnauthorized(err):
		c.tokens.Invalidate(driven.ScopeGmail)
		logger.Warn("gmail: 401, invalidated %s token", driven.ScopeGmail)
	case google.IsRateLimited(err):
		c.limiter.RecordRateLimitError(0)
	}
	return fmt.Errorf("%s: %w", op, google.WrapError(err))
}

// searchQuery combines the free-text search with the unread flag in Gmail
// search syntax.
func searchQuery(q driven.MailQuery) string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(q.Search); s != "" {
		parts = append(parts, s)
	}
	if q.UnreadOnly {
		parts = append(parts, "is:unread")
	}
	return strings.Join(parts, " ")
}

// decodeRaw decodes the base64url raw message, with or without padding.
func decodeRaw(s string) ([]byte, error) {
	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}

func toRecord(msg *gapi.Message, parsed *eml.Message, includeBody bool) *domain.Record {
	labels := make([]any, len(msg.LabelIds))
	for i, l := range msg.LabelIds {
		labels[i] = l
	}
	rec := domain.RecordOf(
		"id", msg.Id,
		"threadId", msg.ThreadId,
		"subject", parsed.Subject,
		"from", parsed.From,
		"to", parsed.To,
		"date", parsed.Date,
		"labels", labels,
	)
	if includeBody {
		rec.Set("body", domain.Truncate(parsed.Body, eml.MaxBodyChars))
		attachments := make([]any, len(parsed.Attachments))
		for i, a := range parsed.Attachments {
			attachments[i] = a
		}
		rec.Set("attachments", attachments)
	} else {
		rec.Set("preview", msg.Snippet)
	}
	return rec
}
