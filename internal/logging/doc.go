// Package logging assembles the structured slog loggers used across the
// listing pipeline.
//
// It owns the console/JSON handler selection, level parsing, and file output
// plumbing, and provides a no-op logger for tests. Prefer these constructors
// over hand-rolled slog setup so every component emits the same shape.
package logging
