// Package logging provides structured logging for synsectl.
//
// It wraps log/slog with level parsing and the default attributes every
// log line should carry. Command output is written to stdout by the
// commands themselves; this logger exists for diagnostics and defaults to
// stderr so the two never mix.
package logging
