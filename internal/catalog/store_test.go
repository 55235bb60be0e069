package catalog_test

import (
	"context"
	"errors"
	"testing"

	"reelflow/internal/catalog"
	"reelflow/internal/services"
	"reelflow/internal/testsupport"
)

func TestGetEvent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedEvents(t, cfg, []catalog.Event{
		{ID: "evt1", Title: "Launch Keynote", Date: "2025-06-15"},
		{ID: "evt2", Title: "Summer Festival"},
	})
	store := catalog.NewStore(cfg)

	ctx := context.Background()
	event, err := store.GetEvent(ctx, "evt1")
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if event.Title != "Launch Keynote" {
		t.Fatalf("unexpected event: %+v", event)
	}

	if _, err := store.GetEvent(ctx, "evt9"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetBriefingAbsentIsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := catalog.NewStore(cfg)

	briefing, err := store.GetBriefing(context.Background(), "evt1")
	if err != nil {
		t.Fatalf("GetBriefing: %v", err)
	}
	if briefing != nil {
		t.Fatalf("expected nil briefing, got %+v", briefing)
	}
}

func TestGetBriefingReturnsSnapshot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedBriefing(t, cfg, "evt1", catalog.Briefing{
		FormData: &catalog.BriefingForm{EventDate: "2025-06-15"},
	})
	store := catalog.NewStore(cfg)

	briefing, err := store.GetBriefing(context.Background(), "evt1")
	if err != nil {
		t.Fatalf("GetBriefing: %v", err)
	}
	if briefing == nil || briefing.FormData == nil || briefing.FormData.EventDate != "2025-06-15" {
		t.Fatalf("unexpected briefing: %+v", briefing)
	}
}
