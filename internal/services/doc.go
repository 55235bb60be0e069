// Package services defines shared utilities consumed by the workflow
// components and transport layers.
//
// Key responsibilities:
//   - Context helpers that stamp the acting user, event/project identifiers,
//     and correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so every failure is
//     classifiable by kind (not found, validation, conflict, internal) at the
//     boundary that has to react to it.
//
// Use these helpers when wiring new workflow logic so error handling and
// observability stay uniform across the application.
package services
