package schedule

import (
	"sort"
	"time"
)

// ItemStatus represents the lifecycle of a phase or task.
type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusInProgress ItemStatus = "in-progress"
	StatusCompleted  ItemStatus = "completed"
	StatusCancelled  ItemStatus = "cancelled"
)

// PhaseType classifies a phase within the production flow.
type PhaseType string

const (
	TypePlanning       PhaseType = "planning"
	TypeProduction     PhaseType = "production"
	TypePostProduction PhaseType = "post-production"
	TypeDelivery       PhaseType = "delivery"
)

// TimeFormat is the ISO-8601 representation used for every date in a
// timeline. UTC values render with a trailing Z.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Task is a unit of work within a phase. DueDate falls within the parent
// phase window by construction.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      ItemStatus `json:"status,omitempty"`
	DueDate     string     `json:"dueDate"`
}

// Phase is a named time-boxed stage of production.
type Phase struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartDate   string     `json:"startDate"`
	EndDate     string     `json:"endDate"`
	Status      ItemStatus `json:"status,omitempty"`
	Type        PhaseType  `json:"type,omitempty"`
	Tasks       []Task     `json:"tasks,omitempty"`
}

// FormatDate renders t in the canonical timeline representation.
func FormatDate(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// Chronological returns a copy of phases ordered by start date. Dates are
// compared as formatted strings, which for the canonical representation is
// chronological order.
func Chronological(phases []Phase) []Phase {
	sorted := make([]Phase, len(phases))
	copy(sorted, phases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate < sorted[j].StartDate
	})
	return sorted
}
