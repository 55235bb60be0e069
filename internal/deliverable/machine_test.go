package deliverable_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"reelflow/internal/deliverable"
	"reelflow/internal/services"
)

func newMachine() *deliverable.Machine {
	seq := 0
	return &deliverable.Machine{
		Now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
		NewID: func() string {
			seq++
			return fmt.Sprintf("v%d", seq)
		},
	}
}

var approver = services.User{ID: "u1", Name: "Cliente"}

func mustNew(t *testing.T, m *deliverable.Machine) deliverable.Deliverable {
	t.Helper()
	d, err := m.New("Aftermovie")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func mustAdd(t *testing.T, m *deliverable.Machine, d deliverable.Deliverable, name string) (deliverable.Deliverable, deliverable.Version) {
	t.Helper()
	updated, version, err := m.AddVersion(d, deliverable.Upload{Name: name, URL: "https://cdn/" + name})
	if err != nil {
		t.Fatalf("AddVersion(%s): %v", name, err)
	}
	return updated, version
}

func countActive(d deliverable.Deliverable) int {
	n := 0
	for _, v := range d.Versions {
		if v.Active {
			n++
		}
	}
	return n
}

func TestNewStartsInEditing(t *testing.T) {
	m := newMachine()
	d := mustNew(t, m)
	if d.Status != deliverable.StatusEditing {
		t.Fatalf("status = %s, want editing", d.Status)
	}
	if _, err := m.New("  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFirstVersionBecomesActive(t *testing.T) {
	m := newMachine()
	d := mustNew(t, m)
	if countActive(d) != 0 {
		t.Fatal("empty deliverable must have no active version")
	}

	d, first := mustAdd(t, m, d, "v1.mp4")
	if !first.Active {
		t.Fatal("first version must be active")
	}

	d, second := mustAdd(t, m, d, "v2.mp4")
	if second.Active {
		t.Fatal("later uploads must not steal the active pointer")
	}
	if active, ok := d.ActiveVersion(); !ok || active.ID != first.ID {
		t.Fatalf("active = %+v, want %s", active, first.ID)
	}
	if countActive(d) != 1 {
		t.Fatalf("active count = %d, want 1", countActive(d))
	}
}

func TestSetActiveVersionIsExclusive(t *testing.T) {
	m := newMachine()
	d := mustNew(t, m)
	d, _ = mustAdd(t, m, d, "v1.mp4")
	d, second := mustAdd(t, m, d, "v2.mp4")
	d, third := mustAdd(t, m, d, "v3.mp4")

	for _, id := range []string{second.ID, third.ID, second.ID} {
		var err error
		d, err = m.SetActiveVersion(d, id)
		if err != nil {
			t.Fatalf("SetActiveVersion(%s): %v", id, err)
		}
		if countActive(d) != 1 {
			t.Fatalf("active count = %d after activating %s", countActive(d), id)
		}
		if active, _ := d.ActiveVersion(); active.ID != id {
			t.Fatalf("active = %s, want %s", active.ID, id)
		}
	}

	if _, err := m.SetActiveVersion(d, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApproveVersionStampsWithoutStatusChange(t *testing.T) {
	m := newMachine()
	d := mustNew(t, m)
	d, _ = mustAdd(t, m, d, "v1.mp4")
	d, second := mustAdd(t, m, d, "v2.mp4")

	// Approving a non-active version is allowed.
	d, err := m.ApproveVersion(d, second.ID, approver)
	if err != nil {
		t.Fatalf("ApproveVersion: %v", err)
	}
	approved := d.Versions[1]
	if !approved.Approved || approved.ApprovedBy != "Cliente" || approved.ApprovedAt == nil {
		t.Fatalf("approval not stamped: %+v", approved)
	}
	if d.Status != deliverable.StatusEditing {
		t.Fatalf("status changed to %s, approval must not move status", d.Status)
	}
	if !d.HasApprovedVersion() {
		t.Fatal("HasApprovedVersion must see the stamp")
	}

	if _, err := m.ApproveVersion(d, "missing", approver); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkReadyRequiresVersion(t *testing.T) {
	m := newMachine()
	d := mustNew(t, m)
	if _, err := m.MarkReady(d); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error on empty deliverable, got %v", err)
	}

	d, _ = mustAdd(t, m, d, "v1.mp4")
	d, err := m.MarkReady(d)
	if err != nil {
		t.Fatalf("MarkReady: %v", err)
	}
	if d.Status != deliverable.StatusReadyForReview {
		t.Fatalf("status = %s", d.Status)
	}
}

func TestMarkApprovedRequiresApprovedVersion(t *testing.T) {
	m := newMachine()
	d := mustNew(t, m)
	d, version := mustAdd(t, m, d, "v1.mp4")
	d, _ = m.MarkReady(d)

	if _, err := m.MarkApproved(d); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error without approved version, got %v", err)
	}

	d, err := m.ApproveVersion(d, version.ID, approver)
	if err != nil {
		t.Fatalf("ApproveVersion: %v", err)
	}
	d, err = m.MarkApproved(d)
	if err != nil {
		t.Fatalf("MarkApproved: %v", err)
	}
	if d.Status != deliverable.StatusApproved {
		t.Fatalf("status = %s", d.Status)
	}

	// Approved is terminal.
	if _, err := m.MarkReady(d); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected terminal state, got %v", err)
	}
	if _, err := m.RequestChanges(d, "", approver); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected terminal state, got %v", err)
	}
}

func TestRequestChangesAppendsCommentAtStart(t *testing.T) {
	m := newMachine()
	d := mustNew(t, m)
	d, _ = mustAdd(t, m, d, "v1.mp4")
	d, _ = m.MarkReady(d)

	d, err := m.RequestChanges(d, "Trocar a trilha", approver)
	if err != nil {
		t.Fatalf("RequestChanges: %v", err)
	}
	if d.Status != deliverable.StatusChangesRequested {
		t.Fatalf("status = %s", d.Status)
	}
	if len(d.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(d.Comments))
	}
	c := d.Comments[0]
	if c.Timestamp != 0 || c.Content != "Trocar a trilha" || c.UserName != "Cliente" {
		t.Fatalf("unexpected comment %+v", c)
	}
}

func TestRequestChangesWithoutComment(t *testing.T) {
	m := newMachine()
	d := mustNew(t, m)
	d, _ = mustAdd(t, m, d, "v1.mp4")
	d, _ = m.MarkReady(d)

	d, err := m.RequestChanges(d, "", approver)
	if err != nil {
		t.Fatalf("RequestChanges: %v", err)
	}
	if len(d.Comments) != 0 {
		t.Fatalf("expected no comments, got %d", len(d.Comments))
	}
}

func TestUploadAfterChangesRequestedReturnsToEditing(t *testing.T) {
	m := newMachine()
	d := mustNew(t, m)
	d, _ = mustAdd(t, m, d, "v1.mp4")
	d, _ = m.MarkReady(d)
	d, _ = m.RequestChanges(d, "muito longo", approver)

	d, _ = mustAdd(t, m, d, "v2.mp4")
	if d.Status != deliverable.StatusEditing {
		t.Fatalf("status = %s, want editing after fresh upload", d.Status)
	}

	// The cycle can run again.
	d, err := m.MarkReady(d)
	if err != nil {
		t.Fatalf("MarkReady after re-edit: %v", err)
	}
	if d.Status != deliverable.StatusReadyForReview {
		t.Fatalf("status = %s", d.Status)
	}
}

func TestOperationsDoNotMutateInput(t *testing.T) {
	m := newMachine()
	d := mustNew(t, m)
	d, version := mustAdd(t, m, d, "v1.mp4")
	d, _ = mustAdd(t, m, d, "v2.mp4")

	before := len(d.Versions)
	if _, _, err := m.AddVersion(d, deliverable.Upload{Name: "v3.mp4"}); err != nil {
		t.Fatalf("AddVersion: %v", err)
	}
	if len(d.Versions) != before {
		t.Fatal("AddVersion mutated input")
	}
	if _, err := m.ApproveVersion(d, version.ID, approver); err != nil {
		t.Fatalf("ApproveVersion: %v", err)
	}
	if d.Versions[0].Approved {
		t.Fatal("ApproveVersion mutated input")
	}
}

func TestParseStatus(t *testing.T) {
	if got, ok := deliverable.ParseStatus(" Ready_For_Review "); !ok || got != deliverable.StatusReadyForReview {
		t.Fatalf("ParseStatus = %s, %v", got, ok)
	}
	if _, ok := deliverable.ParseStatus("published"); ok {
		t.Fatal("unknown status must not parse")
	}
}
