package catalog

import (
	"encoding/json"
	"strings"
	"time"
)

// Event is the immutable reference point timelines are generated against.
// Events are created by an external subsystem; this package only reads them.
type Event struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Client string `json:"client,omitempty"`
	Date   string `json:"date,omitempty"`
}

// BriefingForm carries the structured questionnaire answers of a briefing.
type BriefingForm struct {
	EventDate string `json:"eventDate,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// Briefing is the pre-production questionnaire snapshot for an event. Only
// the anchor-date fields matter to timeline generation; the remaining
// sections are carried opaquely.
type Briefing struct {
	EventID   string                     `json:"eventId,omitempty"`
	EventDate string                     `json:"eventDate,omitempty"`
	FormData  *BriefingForm              `json:"formData,omitempty"`
	Sections  map[string]json.RawMessage `json:"sections,omitempty"`
}

// anchorLayouts are accepted for event and briefing date values, tried in
// order. Date-only values are interpreted as UTC midnight.
var anchorLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	time.RFC3339,
	"2006-01-02",
}

// ParseAnchorDate parses a date value from event or briefing data.
func ParseAnchorDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range anchorLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// AnchorDate resolves the generation anchor in priority order:
// briefing formData date, briefing date, event date. The boolean reports
// whether any source supplied a usable date.
func AnchorDate(briefing *Briefing, event *Event) (time.Time, bool) {
	if briefing != nil {
		if briefing.FormData != nil {
			if t, ok := ParseAnchorDate(briefing.FormData.EventDate); ok {
				return t, true
			}
		}
		if t, ok := ParseAnchorDate(briefing.EventDate); ok {
			return t, true
		}
	}
	if event != nil {
		if t, ok := ParseAnchorDate(event.Date); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
