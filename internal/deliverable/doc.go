// Package deliverable models a video deliverable's review lifecycle: version
// uploads, the single active version pointer, per-version approval stamps,
// and the editing / ready_for_review / changes_requested / approved status
// machine. All operations are pure copy-on-write transforms; persistence is
// the projects package's concern.
package deliverable
