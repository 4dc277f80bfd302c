// Package logging assembles the structured slog loggers used across
// dupesweep.
//
// It owns level and output plumbing (console or JSON, optional per-run log
// file) and exposes attr helpers plus a no-op logger for tests and wiring
// code that cannot fail. Prefer these constructors over hand-rolled slog
// setup so every component emits data with the same shape.
package logging
