// Package comments manages the timestamped annotation threads attached to
// video deliverables: adding notes at a video position, threaded replies,
// resolving and reopening, filtering, and the unresolved-first display order.
package comments
