// Package notifications delivers review-workflow events via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set.
// Per-category switches in the notifications config section select which
// milestones are pushed, and a dedup window suppresses repeats of the same
// message.
//
// Extend this package if you need alternative transports; workflow code
// depends only on the Service interface.
package notifications
