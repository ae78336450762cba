package driven

import (
	"context"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// CustomerStore persists customers, their environments and checklists.
// Each method is atomic on its own; concurrent writers are last-write-wins.
type CustomerStore interface {
	// GetCustomer retrieves a customer by ID. Returns domain.ErrNotFound.
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)

	// ListCustomers returns customers matching filter, ordered by name.
	ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error)

	// InsertCustomer stores a new customer, assigning an ID when empty, and
	// returns the stored copy. Returns domain.ErrAlreadyExists.
	InsertCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)

	// UpdateCustomer replaces an existing customer. Returns domain.ErrNotFound.
	UpdateCustomer(ctx context.Context, customer domain.Customer) error

	// ListEnvironments returns the environments of a customer.
	ListEnvironments(ctx context.Context, customerID string) ([]domain.Environment, error)

	// InsertEnvironment stores a new environment, assigning an ID when empty.
	// Returns domain.ErrNotFound when the customer does not exist.
	InsertEnvironment(ctx context.Context, env domain.Environment) (*domain.Environment, error)

	// ListChecklist returns the checklist of a customer in insertion order.
	ListChecklist(ctx context.Context, customerID string) ([]domain.ChecklistItem, error)

	// SaveChecklistItem inserts or replaces a checklist item, assigning an
	// ID when empty. Returns domain.ErrNotFound when the customer does not exist.
	SaveChecklistItem(ctx context.Context, item domain.ChecklistItem) (*domain.ChecklistItem, error)
}
