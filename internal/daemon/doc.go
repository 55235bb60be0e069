// Package daemon coordinates the long-running Reelflow process.
//
// It wires configuration, the event catalog, the timeline gateway, the
// project store and workflow service, and ntfy notifications into a single
// lifecycle with flock-based locking to prevent multiple instances. The
// daemon exposes the service facades the IPC layer calls into.
//
// Keep orchestration logic here: timeline and project semantics live in
// their respective packages while the daemon focuses on startup, shutdown,
// and high level coordination.
package daemon
