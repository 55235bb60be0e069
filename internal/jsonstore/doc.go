// Package jsonstore implements flock-guarded JSON file tables.
//
// Each table is one file mapping string keys to records. Reads are
// lock-free snapshots; writes take an advisory lock with a bounded wait,
// apply a read-modify-write of the whole table, and replace the file
// atomically. Lock timeouts surface as services.ErrConflict so callers can
// distinguish contention from I/O failure.
package jsonstore
