package deliverable

import (
	"strings"
	"time"

	"reelflow/internal/comments"
)

// Status represents the review lifecycle of a video deliverable.
type Status string

const (
	StatusEditing          Status = "editing"
	StatusReadyForReview   Status = "ready_for_review"
	StatusChangesRequested Status = "changes_requested"
	StatusApproved         Status = "approved"
)

var allStatuses = []Status{
	StatusEditing,
	StatusReadyForReview,
	StatusChangesRequested,
	StatusApproved,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// validTransitions enumerates the allowed status moves. Approved is terminal;
// a fresh upload after changes_requested moves the deliverable back to
// editing so the review cycle can restart.
var validTransitions = map[Status][]Status{
	StatusEditing:          {StatusReadyForReview},
	StatusReadyForReview:   {StatusApproved, StatusChangesRequested},
	StatusChangesRequested: {StatusEditing, StatusReadyForReview},
	StatusApproved:         {},
}

// Version is one uploaded cut of a deliverable. Once approved it is
// immutable apart from the active pointer.
type Version struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	UploadedAt time.Time  `json:"uploadedAt"`
	Active     bool       `json:"active"`
	Approved   bool       `json:"approved"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
}

// Deliverable is a video under review, with its uploaded versions and the
// comment thread attached to it.
type Deliverable struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Status   Status             `json:"status"`
	Versions []Version          `json:"versions"`
	Comments []comments.Comment `json:"comments"`
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

// ActiveVersion returns the version currently flagged active.
func (d Deliverable) ActiveVersion() (Version, bool) {
	for _, v := range d.Versions {
		if v.Active {
			return v, true
		}
	}
	return Version{}, false
}

// HasApprovedVersion reports whether any uploaded version has been approved.
func (d Deliverable) HasApprovedVersion() bool {
	for _, v := range d.Versions {
		if v.Approved {
			return true
		}
	}
	return false
}
