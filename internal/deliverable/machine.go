package deliverable

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelflow/internal/comments"
	"reelflow/internal/services"
)

// Machine applies review-cycle operations to a deliverable. All methods are
// copy-on-write: they return an updated value and never mutate the input.
// Now and NewID are injectable for deterministic tests.
type Machine struct {
	Now      func() time.Time
	NewID    func() string
	Comments *comments.Manager
}

// NewMachine returns a machine using the wall clock and random UUIDs.
func NewMachine() *Machine {
	return &Machine{Now: time.Now, NewID: uuid.NewString}
}

// New creates an empty deliverable in the editing state.
func (m *Machine) New(title string) (Deliverable, error) {
	if strings.TrimSpace(title) == "" {
		return Deliverable{}, services.Wrap(services.ErrValidation, "deliverable", "new", "title is required", nil)
	}
	return Deliverable{
		ID:     m.newID(),
		Title:  title,
		Status: StatusEditing,
	}, nil
}

// Upload describes a new version being added to a deliverable.
type Upload struct {
	Name string
	URL  string
}

// AddVersion appends a new version. The first version of a deliverable
// becomes active; later uploads leave the active pointer untouched. When the
// deliverable sits in changes_requested, a new upload moves it back to
// editing so the review cycle can restart. Status is otherwise unchanged.
func (m *Machine) AddVersion(d Deliverable, upload Upload) (Deliverable, Version, error) {
	if strings.TrimSpace(upload.Name) == "" {
		return d, Version{}, services.Wrap(services.ErrValidation, "deliverable", "add_version", "version name is required", nil)
	}
	version := Version{
		ID:         m.newID(),
		Name:       upload.Name,
		URL:        upload.URL,
		UploadedAt: m.now().UTC(),
		Active:     len(d.Versions) == 0,
	}
	updated := clone(d)
	updated.Versions = append(updated.Versions, version)
	if updated.Status == StatusChangesRequested {
		updated.Status = StatusEditing
	}
	return updated, version, nil
}

// SetActiveVersion makes the named version the active one, clearing the flag
// on all siblings.
func (m *Machine) SetActiveVersion(d Deliverable, versionID string) (Deliverable, error) {
	if _, ok := findVersion(d, versionID); !ok {
		return d, services.Wrap(services.ErrNotFound, "deliverable", "set_active", fmt.Sprintf("version %s", versionID), nil)
	}
	updated := clone(d)
	for i := range updated.Versions {
		updated.Versions[i].Active = updated.Versions[i].ID == versionID
	}
	return updated, nil
}

// ApproveVersion marks the named version approved and stamps the approver.
// The version does not need to be active, and deliverable-level status is
// not changed here; that is MarkApproved's job.
func (m *Machine) ApproveVersion(d Deliverable, versionID string, approver services.User) (Deliverable, error) {
	idx, ok := findVersion(d, versionID)
	if !ok {
		return d, services.Wrap(services.ErrNotFound, "deliverable", "approve_version", fmt.Sprintf("version %s", versionID), nil)
	}
	updated := clone(d)
	now := m.now().UTC()
	updated.Versions[idx].Approved = true
	updated.Versions[idx].ApprovedBy = approver.Name
	updated.Versions[idx].ApprovedAt = &now
	return updated, nil
}

// MarkReady moves the deliverable to ready_for_review. At least one version
// must exist; an editor cannot request review on an empty deliverable.
func (m *Machine) MarkReady(d Deliverable) (Deliverable, error) {
	if len(d.Versions) == 0 {
		return d, services.Wrap(services.ErrValidation, "deliverable", "mark_ready", "deliverable has no versions", nil)
	}
	if !CanTransition(d.Status, StatusReadyForReview) {
		return d, transitionError("mark_ready", d.Status, StatusReadyForReview)
	}
	updated := clone(d)
	updated.Status = StatusReadyForReview
	return updated, nil
}

// MarkApproved moves the deliverable to approved. This is the only
// transition that sets the approved status, and it requires at least one
// explicitly approved version.
func (m *Machine) MarkApproved(d Deliverable) (Deliverable, error) {
	if !d.HasApprovedVersion() {
		return d, services.Wrap(services.ErrValidation, "deliverable", "mark_approved", "no approved version", nil)
	}
	if !CanTransition(d.Status, StatusApproved) {
		return d, transitionError("mark_approved", d.Status, StatusApproved)
	}
	updated := clone(d)
	updated.Status = StatusApproved
	return updated, nil
}

// RequestChanges moves the deliverable to changes_requested. When a comment
// text is given, it is appended to the thread anchored at the start of the
// video.
func (m *Machine) RequestChanges(d Deliverable, commentText string, requester services.User) (Deliverable, error) {
	if !CanTransition(d.Status, StatusChangesRequested) {
		return d, transitionError("request_changes", d.Status, StatusChangesRequested)
	}
	updated := clone(d)
	updated.Status = StatusChangesRequested
	if strings.TrimSpace(commentText) != "" {
		list, _, err := m.commentManager().Add(updated.Comments, commentText, 0, requester)
		if err != nil {
			return d, err
		}
		updated.Comments = list
	}
	return updated, nil
}

func (m *Machine) commentManager() *comments.Manager {
	if m.Comments != nil {
		return m.Comments
	}
	return &comments.Manager{Now: m.Now, NewID: m.NewID}
}

func transitionError(operation string, from, to Status) error {
	return services.Wrap(services.ErrValidation, "deliverable", operation,
		fmt.Sprintf("cannot transition from %s to %s", from, to), nil)
}

func findVersion(d Deliverable, id string) (int, bool) {
	for i := range d.Versions {
		if d.Versions[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func clone(d Deliverable) Deliverable {
	cp := d
	cp.Versions = make([]Version, len(d.Versions))
	copy(cp.Versions, d.Versions)
	cp.Comments = make([]comments.Comment, len(d.Comments))
	copy(cp.Comments, d.Comments)
	return cp
}

func (m *Machine) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Machine) newID() string {
	if m.NewID != nil {
		return m.NewID()
	}
	return uuid.NewString()
}
