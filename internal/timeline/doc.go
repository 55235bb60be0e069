// Package timeline is the persistence gateway for per-event production
// timelines: reads synthesize a schedule when none is stored, writes
// validate and replace the stored timeline under the table lock.
package timeline
