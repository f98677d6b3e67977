// Package logging assembles the structured slog loggers used across Gainhound.
//
// It owns the console and JSON handlers, routes output to stdout plus the
// durable log file, and exposes attr helpers and a no-op logger for tests.
// The file sink is strictly best-effort: open or write failures degrade to
// stream-only logging instead of surfacing errors into the pipeline.
package logging
