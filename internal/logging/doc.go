// Package logging assembles the structured slog loggers used by patreonfetch.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so the runner and the CLI tag log
// lines with the same field names (component, job index, creator, session).
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
//
// Wrapper logs are written to stderr by default. Standard output belongs to
// the external downloader, whose progress output is passed through verbatim.
package logging
