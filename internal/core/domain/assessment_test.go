package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssessment(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	c := Customer{Name: "Acme", Status: StatusImplementation, GoLiveDate: "2025-07-15"}
	envs := []Environment{{Name: "Dev", Type: EnvDevelopment}}
	items := []ChecklistItem{
		{Phase: "discovery", Title: "Scope", Status: ChecklistDone},
		{Phase: "build", Title: "Environments", Status: ChecklistDone},
		{Phase: "build", Title: "Data migration", Status: ChecklistInProgress, DueDate: "2025-06-30"},
		{Phase: "test", Title: "UAT", Status: ChecklistBlocked},
		{Phase: "discovery", Title: "Stakeholders", Status: ChecklistPending, DueDate: "2025-08-01"},
	}

	a := NewAssessment(c, envs, items, now)

	require.Len(t, a.Phases, 3)
	assert.Equal(t, "discovery", a.Phases[0].Name)
	assert.Len(t, a.Phases[0].Items, 2)
	assert.Equal(t, "build", a.Phases[1].Name)
	assert.Equal(t, 2, a.Done)
	assert.Equal(t, 5, a.Total)
	assert.Equal(t, 40, a.Percent)
	assert.Equal(t, []string{
		"Overdue: Data migration (due 2025-06-30)",
		"Blocked: UAT",
		"No production environment registered",
		"Go-live on 2025-07-15 with 40% of the checklist done",
	}, a.Risks)
}

func TestNewAssessment_NoRisks(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	c := Customer{Name: "Acme", Status: StatusProspect}

	a := NewAssessment(c, nil, nil, now)

	assert.Empty(t, a.Phases)
	assert.Zero(t, a.Percent)
	assert.Empty(t, a.Risks)
}

func TestNewAssessment_LiveCustomerNotWarnedAboutGoLive(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	c := Customer{Status: StatusLive, GoLiveDate: "2025-06-01"}
	envs := []Environment{{Type: EnvProduction}}
	items := []ChecklistItem{{Phase: "go-live", Title: "Cutover", Status: ChecklistPending}}

	a := NewAssessment(c, envs, items, now)
	assert.Empty(t, a.Risks)
}
