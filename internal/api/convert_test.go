package api_test

import (
	"testing"
	"time"

	"reelflow/internal/api"
	"reelflow/internal/comments"
	"reelflow/internal/deliverable"
	"reelflow/internal/projects"
)

func TestFromProjectFormatsTimestamps(t *testing.T) {
	created := time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)
	project := &projects.Project{
		ID:        "p1",
		Name:      "Casamento A&B",
		Client:    "Estudio Luz",
		EventID:   "evt1",
		Status:    projects.StatusInProgress,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}

	dto := api.FromProject(project)
	if dto.Status != "in_progress" {
		t.Fatalf("status = %q", dto.Status)
	}
	if dto.CreatedAt != "2025-05-01T10:30:00.000Z" {
		t.Fatalf("createdAt = %q", dto.CreatedAt)
	}
	if dto.UpdatedAt != "2025-05-01T11:30:00.000Z" {
		t.Fatalf("updatedAt = %q", dto.UpdatedAt)
	}
	if dto.Videos == nil {
		t.Fatal("videos must be an empty array, not null")
	}
}

func TestFromProjectNil(t *testing.T) {
	dto := api.FromProject(nil)
	if dto.ID != "" {
		t.Fatalf("expected zero DTO, got %+v", dto)
	}
}

func TestFromDeliverableCarriesVersionStamps(t *testing.T) {
	approvedAt := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	d := deliverable.Deliverable{
		ID:     "d1",
		Title:  "Aftermovie",
		Status: deliverable.StatusReadyForReview,
		Versions: []deliverable.Version{{
			ID:         "v1",
			Name:       "v1.mp4",
			UploadedAt: approvedAt.Add(-time.Hour),
			Active:     true,
			Approved:   true,
			ApprovedBy: "Cliente",
			ApprovedAt: &approvedAt,
		}},
		Comments: []comments.Comment{{
			ID:        "c1",
			UserID:    "u1",
			UserName:  "Ana",
			Content:   "nota",
			Timestamp: 12.5,
			CreatedAt: approvedAt,
		}},
	}

	dto := api.FromDeliverable(d)
	if dto.Status != "ready_for_review" {
		t.Fatalf("status = %q", dto.Status)
	}
	v := dto.Versions[0]
	if !v.Active || !v.Approved || v.ApprovedAt != "2025-05-02T09:00:00.000Z" {
		t.Fatalf("version stamps lost: %+v", v)
	}
	c := dto.Comments[0]
	if c.Timestamp != 12.5 || c.CreatedAt != "2025-05-02T09:00:00.000Z" {
		t.Fatalf("comment conversion lost fields: %+v", c)
	}
}

func TestFromVersionOmitsZeroTimes(t *testing.T) {
	dto := api.FromVersion(deliverable.Version{ID: "v1", Name: "v1.mp4"})
	if dto.UploadedAt != "" || dto.ApprovedAt != "" {
		t.Fatalf("zero times must render empty: %+v", dto)
	}
}

func TestFromStats(t *testing.T) {
	dto := api.FromStats(projects.Stats{Total: 5, Draft: 1, InProgress: 2, Review: 1, Completed: 1})
	if dto.Total != 5 || dto.InProgress != 2 {
		t.Fatalf("unexpected stats %+v", dto)
	}
}
