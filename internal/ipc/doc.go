// Package ipc provides the JSON-RPC interface between the reelflow CLI and
// the daemon over a Unix domain socket.
//
// The server registers a single "Reelflow" RPC service backed by the daemon
// facades. Requests that act on behalf of a reviewer carry an explicit User,
// which the server attaches to the call context so approvals and comments
// record authorship.
package ipc
