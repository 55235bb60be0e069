package schedule_test

import (
	"encoding/json"
	"strings"
	"testing"

	"reelflow/internal/schedule"
)

func TestValidateEmptyPhaseReportsAllMissingFields(t *testing.T) {
	errs := schedule.Validate([]schedule.Phase{{}})
	if len(errs) < 4 {
		t.Fatalf("expected at least 4 errors, got %d: %v", len(errs), errs)
	}
	joined := strings.Join(errs, "\n")
	for _, want := range []string{"id", "name", "start date", "end date"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q error in %v", want, errs)
		}
	}
	seen := map[string]bool{}
	for _, e := range errs {
		if seen[e] {
			t.Fatalf("duplicate error string %q", e)
		}
		seen[e] = true
	}
}

func TestValidateAcceptsCompletePhases(t *testing.T) {
	phases := []schedule.Phase{{
		ID:        "p1",
		Name:      "Produção",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-10",
		Tasks: []schedule.Task{
			{ID: "t1", Name: "Captação", DueDate: "2025-06-03"},
		},
	}}
	if errs := schedule.Validate(phases); len(errs) != 0 {
		t.Fatalf("expected valid timeline, got %v", errs)
	}
}

func TestValidateDoesNotCheckDateOrdering(t *testing.T) {
	phases := []schedule.Phase{{
		ID:        "p1",
		Name:      "Inverted",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-01",
	}}
	if errs := schedule.Validate(phases); len(errs) != 0 {
		t.Fatalf("ordering must not be validated, got %v", errs)
	}
}

func TestValidateReportsTaskProblems(t *testing.T) {
	phases := []schedule.Phase{{
		ID:        "p1",
		Name:      "Produção",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-10",
		Tasks:     []schedule.Task{{}},
	}}
	errs := schedule.Validate(phases)
	if len(errs) != 3 {
		t.Fatalf("expected 3 task errors, got %v", errs)
	}
	for _, e := range errs {
		if !strings.Contains(e, "task 1") {
			t.Fatalf("expected task reference in %q", e)
		}
	}
}

func TestDecodePayloadRejectsNonArray(t *testing.T) {
	_, errs := schedule.DecodePayload(json.RawMessage(`{"id":"p1"}`))
	if len(errs) != 1 || !strings.Contains(errs[0], "array") {
		t.Fatalf("expected array shape error, got %v", errs)
	}
}

func TestDecodePayloadDecodesPhases(t *testing.T) {
	raw := json.RawMessage(`[{"id":"p1","name":"Entrega","startDate":"2025-06-15","endDate":"2025-06-15"}]`)
	phases, errs := schedule.DecodePayload(raw)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(phases) != 1 || phases[0].Name != "Entrega" {
		t.Fatalf("unexpected phases: %+v", phases)
	}
}

func TestFillIDsPreservesExistingAndFillsMissing(t *testing.T) {
	n := 0
	newID := func() string { n++; return "gen" }
	phases := []schedule.Phase{{
		ID:   "keep",
		Name: "Produção",
		Tasks: []schedule.Task{
			{Name: "Captação"},
			{ID: "t-keep", Name: "Backup"},
		},
	}, {
		Name: "Entrega",
	}}

	filled := schedule.FillIDs(phases, newID)
	if filled[0].ID != "keep" || filled[0].Tasks[1].ID != "t-keep" {
		t.Fatal("existing ids must be preserved")
	}
	if filled[0].Tasks[0].ID != "gen" || filled[1].ID != "gen" {
		t.Fatal("missing ids must be filled")
	}
	if phases[0].Tasks[0].ID != "" || phases[1].ID != "" {
		t.Fatal("input slice must not be mutated")
	}
}
