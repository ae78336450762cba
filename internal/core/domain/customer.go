package domain

import (
	"strings"
	"time"
)

// CustomerStatus is where a customer is in the implementation lifecycle.
type CustomerStatus string

// Customer lifecycle states.
const (
	StatusProspect       CustomerStatus = "prospect"
	StatusImplementation CustomerStatus = "implementation"
	StatusLive           CustomerStatus = "live"
	StatusOnHold         CustomerStatus = "on-hold"
)

// Valid reports whether s is a known status.
func (s CustomerStatus) Valid() bool {
	switch s {
	case StatusProspect, StatusImplementation, StatusLive, StatusOnHold:
		return true
	}
	return false
}

// Customer is an organisation being onboarded.
type Customer struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Industry     string         `json:"industry,omitempty"`
	Region       string         `json:"region,omitempty"`
	Status       CustomerStatus `json:"status"`
	ContactName  string         `json:"contactName,omitempty"`
	ContactEmail string         `json:"contactEmail,omitempty"`
	GoLiveDate   string         `json:"goLiveDate,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// ToRecord renders the customer as a record for formatting.
func (c *Customer) ToRecord() *Record {
	r := RecordOf(
		"id", c.ID,
		"name", c.Name,
		"industry", c.Industry,
		"region", c.Region,
		"status", string(c.Status),
		"contactName", c.ContactName,
		"contactEmail", c.ContactEmail,
		"goLiveDate", c.GoLiveDate,
	)
	if c.Notes != "" {
		r.Set("notes", c.Notes)
	}
	return r
}

// CustomerFilter narrows ListCustomers. Empty fields match everything.
type CustomerFilter struct {
	Status   CustomerStatus
	Industry string
	Region   string
	// Query is a case-insensitive substring matched against name and notes.
	Query string
}

// Matches reports whether c passes the filter.
func (f CustomerFilter) Matches(c *Customer) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Industry != "" && !strings.EqualFold(c.Industry, f.Industry) {
		return false
	}
	if f.Region != "" && !strings.EqualFold(c.Region, f.Region) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Notes), q) {
			return false
		}
	}
	return true
}

// EnvironmentType classifies a customer environment.
type EnvironmentType string

// Environment types.
const (
	EnvDevelopment EnvironmentType = "development"
	EnvTest        EnvironmentType = "test"
	EnvUAT         EnvironmentType = "uat"
	EnvProduction  EnvironmentType = "production"
)

// Valid reports whether t is a known environment type.
func (t EnvironmentType) Valid() bool {
	switch t {
	case EnvDevelopment, EnvTest, EnvUAT, EnvProduction:
		return true
	}
	return false
}

// Environment is a deployment belonging to a customer.
type Environment struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Name       string          `json:"name"`
	Type       EnvironmentType `json:"type"`
	URL        string          `json:"url,omitempty"`
	Region     string          `json:"region,omitempty"`
	Version    string          `json:"version,omitempty"`
}

// ToRecord renders the environment as a record for formatting.
func (e *Environment) ToRecord() *Record {
	return RecordOf(
		"id", e.ID,
		"customerId", e.CustomerID,
		"name", e.Name,
		"type", string(e.Type),
		"url", e.URL,
		"region", e.Region,
		"version", e.Version,
	)
}

// ChecklistStatus tracks progress of a checklist item.
type ChecklistStatus string

// Checklist states.
const (
	ChecklistPending    ChecklistStatus = "pending"
	ChecklistInProgress ChecklistStatus = "in-progress"
	ChecklistDone       ChecklistStatus = "done"
	ChecklistBlocked    ChecklistStatus = "blocked"
)

// Valid reports whether s is a known checklist status.
func (s ChecklistStatus) Valid() bool {
	switch s {
	case ChecklistPending, ChecklistInProgress, ChecklistDone, ChecklistBlocked:
		return true
	}
	return false
}

// ChecklistItem is one implementation task for a customer.
type ChecklistItem struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Phase      string          `json:"phase"`
	Title      string          `json:"title"`
	Status     ChecklistStatus `json:"status"`
	Owner      string          `json:"owner,omitempty"`
	DueDate    string          `json:"dueDate,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// ToRecord renders the checklist item as a record for formatting.
func (i *ChecklistItem) ToRecord() *Record {
	return RecordOf(
		"id", i.ID,
		"phase", i.Phase,
		"title", i.Title,
		"status", string(i.Status),
		"owner", i.Owner,
		"dueDate", i.DueDate,
	)
}

// ChecklistUpdate carries the mutable fields of a checklist item.
// Nil pointers leave the field unchanged.
type ChecklistUpdate struct {
	Status  *ChecklistStatus
	Owner   *string
	DueDate *string
	Notes   *string
}
