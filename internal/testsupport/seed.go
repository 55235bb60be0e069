package testsupport

import (
	"encoding/json"
	"os"
	"testing"

	"reelflow/internal/catalog"
	"reelflow/internal/config"
)

// SeedEvents writes the events table consumed by the catalog store.
func SeedEvents(t testing.TB, cfg *config.Config, events []catalog.Event) {
	t.Helper()
	writeJSONFile(t, cfg.EventsFile(), events)
}

// SeedBriefing writes a briefing snapshot for the given event.
func SeedBriefing(t testing.TB, cfg *config.Config, eventID string, briefing catalog.Briefing) {
	t.Helper()

	briefings := map[string]catalog.Briefing{}
	if data, err := os.ReadFile(cfg.BriefingsFile()); err == nil {
		if err := json.Unmarshal(data, &briefings); err != nil {
			t.Fatalf("decode existing briefings: %v", err)
		}
	}
	briefings[eventID] = briefing
	writeJSONFile(t, cfg.BriefingsFile(), briefings)
}

func writeJSONFile(t testing.TB, path string, value any) {
	t.Helper()
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
