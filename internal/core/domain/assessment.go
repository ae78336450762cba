package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by go-live and due dates.
const DateLayout = "2006-01-02"

// goLiveWarningWindow is how close a go-live date must be before low
// checklist progress counts as a risk.
const goLiveWarningWindow = 30 * 24 * time.Hour

// goLiveReadyPercent is the checklist progress expected inside the window.
const goLiveReadyPercent = 80

// AssessmentPhase groups the checklist items of one phase.
type AssessmentPhase struct {
	Name  string
	Items []ChecklistItem
}

// Assessment is the data behind the readiness assessment template.
type Assessment struct {
	Customer     Customer
	Environments []Environment
	Phases       []AssessmentPhase
	Done         int
	Total        int
	Percent      int
	Risks        []string
	GeneratedAt  time.Time
}

// NewAssessment groups the checklist by phase in first-seen order, counts
// progress and derives the open risks as of now.
func NewAssessment(c Customer, envs []Environment, items []ChecklistItem, now time.Time) *Assessment {
	a := &Assessment{
		Customer:     c,
		Environments: envs,
		Total:        len(items),
		GeneratedAt:  now,
	}

	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Phase]
		if !ok {
			i = len(a.Phases)
			index[item.Phase] = i
			a.Phases = append(a.Phases, AssessmentPhase{Name: item.Phase})
		}
		a.Phases[i].Items = append(a.Phases[i].Items, item)
		if item.Status == ChecklistDone {
			a.Done++
		}
	}
	if a.Total > 0 {
		a.Percent = a.Done * 100 / a.Total
	}

	a.Risks = a.risks(items, now)
	return a
}

func (a *Assessment) risks(items []ChecklistItem, now time.Time) []string {
	var risks []string
	today := now.Truncate(24 * time.Hour)

	for _, item := range items {
		if item.Status == ChecklistBlocked {
			risks = append(risks, fmt.Sprintf("Blocked: %s", item.Title))
			continue
		}
		if item.Status == ChecklistDone || item.DueDate == "" {
			continue
		}
		due, err := time.Parse(DateLayout, item.DueDate)
		if err == nil && due.Before(today) {
			risks = append(risks, fmt.Sprintf("Overdue: %s (due %s)", item.Title, item.DueDate))
		}
	}

	if a.Customer.GoLiveDate == "" {
		return risks
	}
	hasProduction := false
	for _, env := range a.Environments {
		if env.Type == EnvProduction {
			hasProduction = true
			break
		}
	}
	if !hasProduction && a.Customer.Status != StatusProspect {
		risks = append(risks, "No production environment registered")
	}
	goLive, err := time.Parse(DateLayout, a.Customer.GoLiveDate)
	if err == nil && a.Customer.Status != StatusLive && goLive.Sub(today) <= goLiveWarningWindow &&
		a.Total > 0 && a.Percent < goLiveReadyPercent {
		risks = append(risks, fmt.Sprintf("Go-live on %s with %d%% of the checklist done",
			a.Customer.GoLiveDate, a.Percent))
	}
	return risks
}
