package memory

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
)

//go:embed seed.json
var seedData []byte

// Ensure CustomerStore implements the interface.
var _ driven.CustomerStore = (*CustomerStore)(nil)

// CustomerStore is an in-memory implementation of driven.CustomerStore.
// Nothing is persisted; the process starts from the embedded seed dataset.
type CustomerStore struct {
	mu           sync.RWMutex
	customers    map[string]domain.Customer
	environments map[string][]domain.Environment
	checklist    map[string][]domain.ChecklistItem
	newID        func() string
}

// NewCustomerStore creates an empty in-memory customer store.
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{
		customers:    make(map[string]domain.Customer),
		environments: make(map[string][]domain.Environment),
		checklist:    make(map[string][]domain.ChecklistItem),
		newID:        uuid.NewString,
	}
}

type seed struct {
	Customers    []domain.Customer      `json:"customers"`
	Environments []domain.Environment   `json:"environments"`
	Checklist    []domain.ChecklistItem `json:"checklist"`
}

// NewSeededCustomerStore creates a store loaded with the embedded dataset.
func NewSeededCustomerStore() (*CustomerStore, error) {
	var data seed
	if err := json.Unmarshal(seedData, &data); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}

	s := NewCustomerStore()
	for _, c := range data.Customers {
		s.customers[c.ID] = c
	}
	for _, e := range data.Environments {
		s.environments[e.CustomerID] = append(s.environments[e.CustomerID], e)
	}
	for _, item := range data.Checklist {
		s.checklist[item.CustomerID] = append(s.checklist[item.CustomerID], item)
	}
	return s, nil
}

// GetCustomer retrieves a customer by ID.
func (s *CustomerStore) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %q", domain.ErrNotFound, id)
	}
	return &c, nil
}

// ListCustomers returns customers matching filter, ordered by name.
func (s *CustomerStore) ListCustomers(_ context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if filter.Matches(&c) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)
		if a != b {
			return a < b
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// InsertCustomer stores a new customer.
func (s *CustomerStore) InsertCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if customer.ID == "" {
		customer.ID = s.newID()
	}
	if _, ok := s.customers[customer.ID]; ok {
		return nil, fmt.Errorf("%w: customer %q", domain.ErrAlreadyExists, customer.ID)
	}
	s.customers[customer.ID] = customer
	return &customer, nil
}

// UpdateCustomer replaces an existing customer.
func (s *CustomerStore) UpdateCustomer(_ context.Context, customer domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[customer.ID]; !ok {
		return fmt.Errorf("%w: customer %q", domain.ErrNotFound, customer.ID)
	}
	s.customers[customer.ID] = customer
	return nil
}

// ListEnvironments returns the environments of a customer in insertion order.
func (s *CustomerStore) ListEnvironments(_ context.Context, customerID string) ([]domain.Environment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.customers[customerID]; !ok {
		return nil, fmt.Errorf("%w: customer %q", domain.ErrNotFound, customerID)
	}
	envs := s.environments[customerID]
	result := make([]domain.Environment, len(envs))
	copy(result, envs)
	return result, nil
}

// InsertEnvironment stores a new environment.
func (s *CustomerStore) InsertEnvironment(_ context.Context, env domain.Environment) (*domain.Environment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[env.CustomerID]; !ok {
		return nil, fmt.Errorf("%w: customer %q", domain.ErrNotFound, env.CustomerID)
	}
	if env.ID == "" {
		env.ID = s.newID()
	}
	for _, existing := range s.environments[env.CustomerID] {
		if existing.ID == env.ID {
			return nil, fmt.Errorf("%w: environment %q", domain.ErrAlreadyExists, env.ID)
		}
	}
	s.environments[env.CustomerID] = append(s.environments[env.CustomerID], env)
	return &env, nil
}

// ListChecklist returns the checklist of a customer in insertion order.
func (s *CustomerStore) ListChecklist(_ context.Context, customerID string) ([]domain.ChecklistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.customers[customerID]; !ok {
		return nil, fmt.Errorf("%w: customer %q", domain.ErrNotFound, customerID)
	}
	items := s.checklist[customerID]
	result := make([]domain.ChecklistItem, len(items))
	copy(result, items)
	return result, nil
}

// SaveChecklistItem inserts or replaces a checklist item.
func (s *CustomerStore) SaveChecklistItem(_ context.Context, item domain.ChecklistItem) (*domain.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[item.CustomerID]; !ok {
		return nil, fmt.Errorf("%w: customer %q", domain.ErrNotFound, item.CustomerID)
	}
	if item.ID == "" {
		item.ID = s.newID()
	}
	items := s.checklist[item.CustomerID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			return &item, nil
		}
	}
	s.checklist[item.CustomerID] = append(items, item)
	return &item, nil
}
