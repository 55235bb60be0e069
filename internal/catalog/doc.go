// Package catalog provides read-only access to the event and briefing
// tables owned by the external event-management subsystem, plus the
// anchor-date resolution timeline generation depends on.
package catalog
