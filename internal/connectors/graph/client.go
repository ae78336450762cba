package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/implkit/internal/connectors"
	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/normalisers/eml"
	"github.com/custodia-labs/implkit/internal/normalisers/html"
)

// DefaultBaseURL is the Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// Config selects the mailbox queried when a request names none.
type Config struct {
	// Mailbox is a user principal name or object ID.
	Mailbox string

	// BaseURL overrides DefaultBaseURL.
	BaseURL string
}

// Ensure Client implements the MailClient interface.
var _ driven.MailClient = (*Client)(nil)

// Client reads messages from Exchange Online mailboxes.
type Client struct {
	rest    *connectors.Client
	baseURL string
	mailbox string
	now     func() time.Time
}

// New creates a Graph mail client.
func New(cfg Config, tokens driven.TokenProvider, opts ...connectors.ClientOption) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		rest:    connectors.NewClient("graph", driven.ScopeGraph, tokens, opts...),
		baseURL: strings.TrimRight(base, "/"),
		mailbox: cfg.Mailbox,
		now:     time.Now,
	}
}

// Name identifies the backend.
func (c *Client) Name() string {
	return "graph"
}

type messagePage struct {
	Value    []message `json:"value"`
	NextLink string    `json:"@odata.nextLink"`
}

type message struct {
	ID               string      `json:"id"`
	Subject          string      `json:"subject"`
	From             *recipient  `json:"from"`
	ToRecipients     []recipient `json:"toRecipients"`
	ReceivedDateTime string      `json:"receivedDateTime"`
	IsRead           bool        `json:"isRead"`
	HasAttachments   bool        `json:"hasAttachments"`
	BodyPreview      string      `json:"bodyPreview"`
	Body             *itemBody   `json:"body"`
}

type recipient struct {
	EmailAddress struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"emailAddress"`
}

func (r recipient) String() string {
	if r.EmailAddress.Name == "" {
		return r.EmailAddress.Address
	}
	if r.EmailAddress.Address == "" {
		return r.EmailAddress.Name
	}
	return fmt.Sprintf("%s <%s>", r.EmailAddress.Name, r.EmailAddress.Address)
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// ListMessages returns one record per message, newest first.
func (c *Client) ListMessages(ctx context.Context, q driven.MailQuery) (*domain.ExtractionResult, error) {
	mailbox := q.Mailbox
	if mailbox == "" {
		mailbox = c.mailbox
	}
	if mailbox == "" {
		return nil, fmt.Errorf("%w: graph mailbox (set graph.mailbox or pass mailbox)", domain.ErrNotConfigured)
	}

	u, header := c.messagesURL(mailbox, q)
	body, err := c.rest.Get(ctx, u, header)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var page messagePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: graph messages: %v", domain.ErrInvalidInput, err)
	}

	result := domain.NewExtractionResult(domain.SourceMail, c.now())
	for _, m := range page.Value {
		result.Add(toRecord(m, q.IncludeBody))
	}
	if page.NextLink != "" {
		result.Warn("more messages available; showing first %d", len(page.Value))
	}
	result.Finalize()
	return result, nil
}

func (c *Client) messagesURL(mailbox string, q driven.MailQuery) (string, http.Header) {
	path := c.baseURL + "/users/" + url.PathEscape(mailbox)
	if q.Folder != "" {
		path += "/mailFolders/" + url.PathEscape(q.Folder)
	}
	path += "/messages"

	fields := "id,subject,from,toRecipients,receivedDateTime,isRead,hasAttachments,bodyPreview"
	if q.IncludeBody {
		fields += ",body"
	}
	params := url.Values{}
	params.Set("$top", strconv.Itoa(connectors.MailLimit(q.Max)))
	params.Set("$select", fields)

	header := http.Header{}
	if q.Search != "" {
		// $search cannot be combined with $orderby; results come back by relevance.
		params.Set("$search", strconv.Quote(q.Search))
		header.Set("ConsistencyLevel", "eventual")
	} else {
		params.Set("$orderby", "receivedDateTime desc")
	}
	if q.UnreadOnly {
		params.Set("$filter", "isRead eq false")
	}
	return path + "?" + strings.ReplaceAll(params.Encode(), "+", "%20"), header
}

func toRecord(m message, includeBody bool) *domain.Record {
	to := make([]string, len(m.ToRecipients))
	for i, r := range m.ToRecipients {
		to[i] = r.String()
	}
	from := ""
	if m.From != nil {
		from = m.From.String()
	}

	rec := domain.RecordOf(
		"id", m.ID,
		"subject", m.Subject,
		"from", from,
		"to", strings.Join(to, ", "),
		"date", m.ReceivedDateTime,
		"isRead", m.IsRead,
		"hasAttachments", m.HasAttachments,
	)
	if includeBody && m.Body != nil {
		text := m.Body.Content
		if strings.EqualFold(m.Body.ContentType, "html") {
			text = html.ToPlainText(text)
		}
		rec.Set("body", domain.Truncate(text, eml.MaxBodyChars))
	} else {
		rec.Set("preview", m.BodyPreview)
	}
	return rec
}
