// Package logging builds the application's slog loggers and standardizes
// structured field names across components.
package logging
