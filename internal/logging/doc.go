// Package logging builds the slog loggers used across the converter.
//
// It provides a compact console handler (timestamp, level, component, message,
// key=value pairs), a JSON handler for machine consumption, attribute aliases
// so call sites avoid importing log/slog directly, and helpers that derive
// structured fields (job ID, pipeline stage) from a context.
package logging
