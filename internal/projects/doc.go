// Package projects persists production projects in SQLite and orchestrates
// the workflow operations on them: deliverable review cycles, comment
// threads, review-task bookkeeping, lifecycle transitions, and notification
// delivery. A project row stores its deliverables, timeline snapshot, and
// tasks as JSON aggregates; every mutation rewrites the whole aggregate so
// partial updates never interleave.
package projects
