package catalog_test

import (
	"testing"
	"time"

	"reelflow/internal/catalog"
)

func TestParseAnchorDateLayouts(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  time.Time
		ok    bool
	}{
		{"date only", "2025-06-15", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"rfc3339", "2025-06-15T10:30:00Z", time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC), true},
		{"millis", "2025-06-15T00:00:00.000Z", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "next tuesday", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := catalog.ParseAnchorDate(tc.value)
			if ok != tc.ok {
				t.Fatalf("ParseAnchorDate(%q) ok=%v, want %v", tc.value, ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Fatalf("ParseAnchorDate(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestAnchorDateResolutionOrder(t *testing.T) {
	form := &catalog.BriefingForm{EventDate: "2025-06-15"}
	briefing := &catalog.Briefing{EventDate: "2025-07-01", FormData: form}
	event := &catalog.Event{Date: "2025-08-01"}

	got, ok := catalog.AnchorDate(briefing, event)
	if !ok || got.Day() != 15 {
		t.Fatalf("expected formData date to win, got %v ok=%v", got, ok)
	}

	briefing.FormData = nil
	got, _ = catalog.AnchorDate(briefing, event)
	if got.Month() != time.July {
		t.Fatalf("expected briefing eventDate next, got %v", got)
	}

	briefing.EventDate = ""
	got, _ = catalog.AnchorDate(briefing, event)
	if got.Month() != time.August {
		t.Fatalf("expected event date fallback, got %v", got)
	}

	if _, ok := catalog.AnchorDate(nil, nil); ok {
		t.Fatal("expected no anchor when both sources are nil")
	}
}

func TestAnchorDateSkipsUnparseable(t *testing.T) {
	briefing := &catalog.Briefing{
		EventDate: "not a date",
		FormData:  &catalog.BriefingForm{EventDate: "also not a date"},
	}
	event := &catalog.Event{Date: "2025-01-05"}
	got, ok := catalog.AnchorDate(briefing, event)
	if !ok || got.Year() != 2025 || got.Month() != time.January {
		t.Fatalf("expected fall-through to event date, got %v ok=%v", got, ok)
	}
}
