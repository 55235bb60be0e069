// Package api defines wire-format types and converters for the IPC layer. It
// translates internal project, deliverable, and comment models into
// transport-friendly DTOs that clients can render without coupling to
// internal types.
//
// # Key Types
//
// Project: transport representation of a project with its deliverables,
// timeline snapshot, and review tasks.
//
// Timeline: a phase array tagged with whether it was synthesized on read or
// loaded from the store.
//
// DaemonStatus: aggregated runtime information including project counts.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers. Internal
// enums (projects.Status, deliverable.Status) are exposed as lowercase
// strings. Timestamps use RFC3339 with milliseconds.
package api
