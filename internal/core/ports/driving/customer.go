package driving

import (
	"context"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// CustomerUpdate carries the mutable fields of a customer.
// Nil pointers leave the field unchanged.
type CustomerUpdate struct {
	Name       *string
	Industry   *string
	Region     *string
	Status     *domain.CustomerStatus
	GoLiveDate *string
	Notes      *string
}

// CustomerService manages customers, environments and checklists.
type CustomerService interface {
	// List returns customers matching filter.
	List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error)

	// Get retrieves a customer by ID.
	Get(ctx context.Context, id string) (*domain.Customer, error)

	// Add validates and stores a new customer with the default checklist.
	Add(ctx context.Context, customer domain.Customer) (*domain.Customer, error)

	// Update applies changes to an existing customer.
	Update(ctx context.Context, id string, update CustomerUpdate) (*domain.Customer, error)

	// Environments lists the environments of a customer.
	Environments(ctx context.Context, customerID string) ([]domain.Environment, error)

	// AddEnvironment validates and stores a new environment.
	AddEnvironment(ctx context.Context, env domain.Environment) (*domain.Environment, error)

	// Checklist returns the checklist of a customer.
	Checklist(ctx context.Context, customerID string) ([]domain.ChecklistItem, error)

	// UpdateChecklistItem applies changes to one checklist item.
	UpdateChecklistItem(ctx context.Context, customerID, itemID string, update domain.ChecklistUpdate) (*domain.ChecklistItem, error)

	// Assessment renders the readiness assessment of a customer as markdown.
	Assessment(ctx context.Context, customerID string) (string, error)
}
