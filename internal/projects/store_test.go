package projects_test

import (
	"context"
	"testing"
	"time"

	"reelflow/internal/deliverable"
	"reelflow/internal/projects"
	"reelflow/internal/testsupport"
)

func newStore(t *testing.T) *projects.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := projects.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleProject(id string) *projects.Project {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	return &projects.Project{
		ID:        id,
		Name:      "Casamento A&B",
		Client:    "Estudio Luz",
		EventID:   "evt1",
		Status:    projects.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInsertAndGetRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	project := sampleProject("p1")
	project.Videos = []deliverable.Deliverable{{
		ID:     "d1",
		Title:  "Aftermovie",
		Status: deliverable.StatusEditing,
		Versions: []deliverable.Version{{
			ID:     "v1",
			Name:   "v1.mp4",
			Active: true,
		}},
	}}
	project.Tasks = []projects.ReviewTask{{
		ID:            "t1",
		DeliverableID: "d1",
		Name:          "Revisar Aftermovie",
		Status:        projects.TaskPending,
	}}

	if err := store.Insert(ctx, project); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	loaded, err := store.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected project")
	}
	if loaded.Name != "Casamento A&B" || loaded.Status != projects.StatusDraft {
		t.Fatalf("unexpected project %+v", loaded)
	}
	if len(loaded.Videos) != 1 || loaded.Videos[0].ID != "d1" || !loaded.Videos[0].Versions[0].Active {
		t.Fatalf("videos aggregate lost: %+v", loaded.Videos)
	}
	if len(loaded.Tasks) != 1 || loaded.Tasks[0].Status != projects.TaskPending {
		t.Fatalf("tasks aggregate lost: %+v", loaded.Tasks)
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	store := newStore(t)
	project, err := store.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if project != nil {
		t.Fatalf("expected nil, got %+v", project)
	}
}

func TestUpdatePersistsChanges(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	project := sampleProject("p1")
	if err := store.Insert(ctx, project); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	project.Status = projects.StatusInProgress
	project.Client = "Nova Produtora"
	matched, err := store.Update(ctx, project)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !matched {
		t.Fatal("expected row match")
	}

	loaded, err := store.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.Status != projects.StatusInProgress || loaded.Client != "Nova Produtora" {
		t.Fatalf("update lost: %+v", loaded)
	}
	if !loaded.UpdatedAt.After(loaded.CreatedAt) {
		t.Fatal("UpdatedAt must advance on update")
	}

	missing := sampleProject("ghost")
	matched, err = store.Update(ctx, missing)
	if err != nil {
		t.Fatalf("Update missing: %v", err)
	}
	if matched {
		t.Fatal("update of missing row must not match")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for i, status := range []projects.Status{projects.StatusDraft, projects.StatusInProgress, projects.StatusArchived} {
		project := sampleProject("p" + string(rune('1'+i)))
		project.Status = status
		project.CreatedAt = project.CreatedAt.Add(time.Duration(i) * time.Minute)
		if err := store.Insert(ctx, project); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(all))
	}
	if all[0].ID != "p1" {
		t.Fatalf("expected oldest first, got %s", all[0].ID)
	}

	live, err := store.List(ctx, projects.StatusDraft, projects.StatusInProgress)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(live) != 2 {
		t.Fatalf("expected 2 live projects, got %d", len(live))
	}
}

func TestRemove(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if err := store.Insert(ctx, sampleProject("p1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	removed, err := store.Remove(ctx, "p1")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Fatal("expected removal")
	}
	removed, err = store.Remove(ctx, "p1")
	if err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if removed {
		t.Fatal("second removal must be a no-op")
	}
}

func TestCountByStatus(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	statuses := []projects.Status{
		projects.StatusDraft,
		projects.StatusDraft,
		projects.StatusReview,
		projects.StatusCompleted,
	}
	for i, status := range statuses {
		project := sampleProject("p" + string(rune('1'+i)))
		project.Status = status
		if err := store.Insert(ctx, project); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	stats, err := store.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if stats.Total != 4 || stats.Draft != 2 || stats.Review != 1 || stats.Completed != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestGetByEventID(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	project := sampleProject("p1")
	if err := store.Insert(ctx, project); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	loaded, err := store.GetByEventID(ctx, "evt1")
	if err != nil {
		t.Fatalf("GetByEventID: %v", err)
	}
	if loaded == nil || loaded.ID != "p1" {
		t.Fatalf("expected p1, got %+v", loaded)
	}

	none, err := store.GetByEventID(ctx, "evt9")
	if err != nil {
		t.Fatalf("GetByEventID missing: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil, got %+v", none)
	}
}
