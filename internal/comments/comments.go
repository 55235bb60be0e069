package comments

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelflow/internal/services"
	"reelflow/internal/textutil"
)

// Comment is a note anchored to a position in a video. Timestamp is seconds
// into the video, not wall-clock time. ParentID links replies into a thread;
// a reply inherits its parent's video position.
type Comment struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"projectId,omitempty"`
	DeliverableID string    `json:"deliverableId,omitempty"`
	ParentID      string    `json:"parentId,omitempty"`
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName"`
	Content       string    `json:"content"`
	Timestamp     float64   `json:"timestamp"`
	CreatedAt     time.Time `json:"createdAt"`
	Resolved      bool      `json:"resolved"`
}

// Manager creates and mutates comment threads. Now and NewID are injectable
// for deterministic tests.
type Manager struct {
	Now   func() time.Time
	NewID func() string
}

// NewManager returns a manager using the wall clock and random UUIDs.
func NewManager() *Manager {
	return &Manager{Now: time.Now, NewID: uuid.NewString}
}

// Add appends a new unresolved comment and returns the updated list along
// with the created comment.
func (m *Manager) Add(list []Comment, content string, timestamp float64, user services.User) ([]Comment, Comment, error) {
	if strings.TrimSpace(content) == "" {
		return list, Comment{}, services.Wrap(services.ErrValidation, "comments", "add", "content is required", nil)
	}
	comment := Comment{
		ID:        m.newID(),
		UserID:    user.ID,
		UserName:  user.Name,
		Content:   content,
		Timestamp: timestamp,
		CreatedAt: m.now().UTC(),
		Resolved:  false,
	}
	updated := make([]Comment, 0, len(list)+1)
	updated = append(updated, list...)
	updated = append(updated, comment)
	return updated, comment, nil
}

// Reply appends a threaded reply to an existing comment. The reply reuses
// the parent's video timestamp so it stays anchored to the same moment.
func (m *Manager) Reply(list []Comment, parentID, content string, user services.User) ([]Comment, Comment, error) {
	parent, ok := find(list, parentID)
	if !ok {
		return list, Comment{}, services.Wrap(services.ErrNotFound, "comments", "reply", fmt.Sprintf("comment %s", parentID), nil)
	}
	updated, reply, err := m.Add(list, content, parent.Timestamp, user)
	if err != nil {
		return list, Comment{}, err
	}
	reply.ParentID = parent.ID
	updated[len(updated)-1] = reply
	return updated, reply, nil
}

// Resolve sets the resolved flag on the matching comment. Resolving an
// already-resolved comment (or reopening an open one) is a no-op that still
// succeeds; an unknown ID fails with not-found.
func (m *Manager) Resolve(list []Comment, commentID string, resolved bool) ([]Comment, error) {
	idx := -1
	for i := range list {
		if list[i].ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return list, services.Wrap(services.ErrNotFound, "comments", "resolve", fmt.Sprintf("comment %s", commentID), nil)
	}
	updated := make([]Comment, len(list))
	copy(updated, list)
	updated[idx].Resolved = resolved
	return updated, nil
}

// Filter selects comments matching the given criteria. A nil Resolved
// matches both states; SearchText is a case- and accent-insensitive
// substring match on content.
type Filter struct {
	Resolved   *bool
	SearchText string
}

// Select returns the comments matching the filter, preserving input order.
func Select(list []Comment, filter Filter) []Comment {
	matched := make([]Comment, 0, len(list))
	for _, c := range list {
		if filter.Resolved != nil && c.Resolved != *filter.Resolved {
			continue
		}
		if !textutil.ContainsFold(c.Content, filter.SearchText) {
			continue
		}
		matched = append(matched, c)
	}
	return matched
}

// Sort returns the canonical display order: unresolved comments before
// resolved ones, ascending by video timestamp within each group. This is a
// display contract; storage order is insertion order.
func Sort(list []Comment) []Comment {
	sorted := make([]Comment, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Resolved != sorted[j].Resolved {
			return !sorted[i].Resolved
		}
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

func find(list []Comment, id string) (Comment, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) newID() string {
	if m.NewID != nil {
		return m.NewID()
	}
	return uuid.NewString()
}
