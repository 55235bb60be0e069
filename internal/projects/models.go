package projects

import (
	"strings"
	"time"

	"reelflow/internal/deliverable"
	"reelflow/internal/schedule"
)

// Status represents the lifecycle of a production project.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

var allStatuses = []Status{
	StatusDraft,
	StatusInProgress,
	StatusReview,
	StatusCompleted,
	StatusArchived,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// validTransitions enumerates the allowed project status moves. Archiving is
// terminal and reachable from any live state; completed projects can only be
// archived.
var validTransitions = map[Status][]Status{
	StatusDraft:      {StatusInProgress, StatusArchived},
	StatusInProgress: {StatusReview, StatusCompleted, StatusArchived},
	StatusReview:     {StatusInProgress, StatusCompleted, StatusArchived},
	StatusCompleted:  {StatusArchived},
	StatusArchived:   {},
}

// TaskStatus tracks review bookkeeping tasks attached to a project.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// ReviewTask is a lightweight todo created when a deliverable enters review
// and closed when it is approved.
type ReviewTask struct {
	ID            string     `json:"id"`
	DeliverableID string     `json:"deliverableId"`
	Name          string     `json:"name"`
	Status        TaskStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Project is the aggregate root: it owns its video deliverables, an optional
// production timeline, and review bookkeeping tasks.
type Project struct {
	ID        string
	Name      string
	Client    string
	EventID   string
	Status    Status
	Videos    []deliverable.Deliverable
	Timeline  []schedule.Phase
	Tasks     []ReviewTask
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats aggregates project counts per lifecycle state.
type Stats struct {
	Total      int
	Draft      int
	InProgress int
	Review     int
	Completed  int
	Archived   int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// FindDeliverable returns the index of the named deliverable in the project.
func (p *Project) FindDeliverable(deliverableID string) (int, bool) {
	for i := range p.Videos {
		if p.Videos[i].ID == deliverableID {
			return i, true
		}
	}
	return 0, false
}
