package services

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"text/template"
	"time"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/core/ports/driving"
)

// Ensure CustomerService implements the interface.
var _ driving.CustomerService = (*CustomerService)(nil)

type checklistTemplate struct {
	phase string
	title string
}

// defaultChecklist is seeded for every new customer.
var defaultChecklist = []checklistTemplate{
	{"discovery", "Confirm scope and success criteria"},
	{"discovery", "Identify key stakeholders"},
	{"design", "Document solution design"},
	{"design", "Agree data migration approach"},
	{"build", "Provision environments"},
	{"build", "Configure core modules"},
	{"build", "Migrate master data"},
	{"test", "System integration testing"},
	{"test", "User acceptance testing"},
	{"go-live", "Cutover plan signed off"},
	{"go-live", "Production cutover"},
	{"go-live", "Hypercare review"},
}

// CustomerService validates customer changes and renders assessments.
type CustomerService struct {
	store     driven.CustomerStore
	templates driven.TemplateStore
	now       func() time.Time
}

// NewCustomerService creates a new customer service.
func NewCustomerService(store driven.CustomerStore, templates driven.TemplateStore) *CustomerService {
	return &CustomerService{
		store:     store,
		templates: templates,
		now:       time.Now,
	}
}

// List returns customers matching filter.
func (s *CustomerService) List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, filter.Status)
	}
	return s.store.ListCustomers(ctx, filter)
}

// Get retrieves a customer by ID.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}
	return s.store.GetCustomer(ctx, id)
}

// Add validates and stores a new customer, then seeds its checklist.
func (s *CustomerService) Add(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.ContactEmail = strings.TrimSpace(c.ContactEmail)
	if c.Status == "" {
		c.Status = domain.StatusProspect
	}
	if err := validateCustomer(&c); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	stored, err := s.store.InsertCustomer(ctx, c)
	if err != nil {
		return nil, err
	}

	for _, tmpl := range defaultChecklist {
		item := domain.ChecklistItem{
			CustomerID: stored.ID,
			Phase:      tmpl.phase,
			Title:      tmpl.title,
			Status:     domain.ChecklistPending,
		}
		if _, err := s.store.SaveChecklistItem(ctx, item); err != nil {
			return nil, fmt.Errorf("seed checklist: %w", err)
		}
	}
	return stored, nil
}

// Update applies changes to an existing customer.
func (s *CustomerService) Update(ctx context.Context, id string, update driving.CustomerUpdate) (*domain.Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		c.Name = strings.TrimSpace(*update.Name)
	}
	if update.Industry != nil {
		c.Industry = *update.Industry
	}
	if update.Region != nil {
		c.Region = *update.Region
	}
	if update.Status != nil {
		c.Status = *update.Status
	}
	if update.GoLiveDate != nil {
		c.GoLiveDate = strings.TrimSpace(*update.GoLiveDate)
	}
	if update.Notes != nil {
		c.Notes = *update.Notes
	}
	if err := validateCustomer(c); err != nil {
		return nil, err
	}

	c.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateCustomer(ctx, *c); err != nil {
		return nil, err
	}
	return c, nil
}

func validateCustomer(c *domain.Customer) error {
	if c.Name == "" {
		return fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: status %q (expected prospect, implementation, live or on-hold)",
			domain.ErrInvalidInput, c.Status)
	}
	if c.ContactEmail != "" {
		if _, err := mail.ParseAddress(c.ContactEmail); err != nil {
			return fmt.Errorf("%w: contact email %q", domain.ErrInvalidInput, c.ContactEmail)
		}
	}
	return validateDate("go-live date", c.GoLiveDate)
}

func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, value); err != nil {
		return fmt.Errorf("%w: %s %q (expected YYYY-MM-DD)", domain.ErrInvalidInput, field, value)
	}
	return nil
}

// Environments lists the environments of a customer.
func (s *CustomerService) Environments(ctx context.Context, customerID string) ([]domain.Environment, error) {
	if _, err := s.Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.store.ListEnvironments(ctx, customerID)
}

// AddEnvironment validates and stores a new environment.
func (s *CustomerService) AddEnvironment(ctx context.Context, env domain.Environment) (*domain.Environment, error) {
	env.Name = strings.TrimSpace(env.Name)
	if strings.TrimSpace(env.CustomerID) == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}
	if env.Name == "" {
		return nil, fmt.Errorf("%w: environment name is required", domain.ErrInvalidInput)
	}
	if !env.Type.Valid() {
		return nil, fmt.Errorf("%w: environment type %q (expected development, test, uat or production)",
			domain.ErrInvalidInput, env.Type)
	}
	if env.URL != "" {
		u, err := url.Parse(env.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: environment url %q", domain.ErrInvalidInput, env.URL)
		}
	}
	return s.store.InsertEnvironment(ctx, env)
}

// Checklist returns the checklist of a customer.
func (s *CustomerService) Checklist(ctx context.Context, customerID string) ([]domain.ChecklistItem, error) {
	if _, err := s.Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.store.ListChecklist(ctx, customerID)
}

// UpdateChecklistItem applies changes to one checklist item.
func (s *CustomerService) UpdateChecklistItem(
	ctx context.Context,
	customerID, itemID string,
	update domain.ChecklistUpdate,
) (*domain.ChecklistItem, error) {
	items, err := s.Checklist(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var item *domain.ChecklistItem
	for i := range items {
		if items[i].ID == itemID {
			item = &items[i]
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("%w: checklist item %s for customer %s", domain.ErrNotFound, itemID, customerID)
	}

	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, fmt.Errorf("%w: checklist status %q (expected pending, in-progress, done or blocked)",
				domain.ErrInvalidInput, *update.Status)
		}
		item.Status = *update.Status
	}
	if update.Owner != nil {
		item.Owner = *update.Owner
	}
	if update.DueDate != nil {
		due := strings.TrimSpace(*update.DueDate)
		if err := validateDate("due date", due); err != nil {
			return nil, err
		}
		item.DueDate = due
	}
	if update.Notes != nil {
		item.Notes = *update.Notes
	}

	return s.store.SaveChecklistItem(ctx, *item)
}

// Assessment renders the readiness assessment of a customer.
func (s *CustomerService) Assessment(ctx context.Context, customerID string) (string, error) {
	c, err := s.Get(ctx, customerID)
	if err != nil {
		return "", err
	}
	envs, err := s.store.ListEnvironments(ctx, customerID)
	if err != nil {
		return "", err
	}
	items, err := s.store.ListChecklist(ctx, customerID)
	if err != nil {
		return "", err
	}

	src, err := s.templates.Load(driven.TemplateAssessment)
	if err != nil {
		return "", fmt.Errorf("load assessment template: %w", err)
	}
	tmpl, err := template.New(driven.TemplateAssessment).Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse assessment template: %w", err)
	}

	data := domain.NewAssessment(*c, envs, items, s.now().UTC())
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render assessment: %w", err)
	}
	return buf.String(), nil
}
