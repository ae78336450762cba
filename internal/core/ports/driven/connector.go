package driven

import (
	"context"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// MailQuery selects messages from a remote mailbox.
type MailQuery struct {
	// Mailbox is the user principal or address; empty means the configured default.
	Mailbox string

	// Search is a free-text search expression.
	Search string

	// Folder restricts the query to a mail folder (Graph) or label (Gmail).
	Folder string

	// UnreadOnly limits results to unread messages.
	UnreadOnly bool

	// Max is the requested record count; clients cap it.
	Max int

	// IncludeBody asks for the full plain-text body instead of a preview.
	IncludeBody bool
}

// MailClient queries a remote mailbox. Clients fetch a single page and
// report a continuation as a warning on the result.
type MailClient interface {
	// Name identifies the backend ("graph", "gmail").
	Name() string

	// ListMessages returns one record per message.
	ListMessages(ctx context.Context, q MailQuery) (*domain.ExtractionResult, error)
}

// TabularQuery selects rows from a remote table.
type TabularQuery struct {
	// Entity is the entity set name (e.g., "accounts").
	Entity string

	// Select lists the columns to return; empty means all.
	Select []string

	// Filter is an OData $filter expression.
	Filter string

	// OrderBy is an OData $orderby expression.
	OrderBy string

	// Expand is an OData $expand expression.
	Expand string

	// Top is the requested record count; clients cap it.
	Top int

	// Flatten collapses expanded navigation objects into dot keys.
	Flatten bool
}

// TabularClient reads paged tabular records from a remote API.
type TabularClient interface {
	// Query fetches up to the capped record count across a bounded number
	// of pages.
	Query(ctx context.Context, q TabularQuery) (*domain.ExtractionResult, error)
}
