// Package scheme defines the response records and request options for the
// Synse Server v3 API.
//
// Every record is a flat mapping from the server's JSON payload to typed
// fields. Records have no lifecycle: they are constructed from one server
// response and are read-only afterwards. Field names and JSON tags follow
// the server contract exactly; the client never renames or reinterprets
// server fields.
//
// Timestamps are carried as the RFC3339 strings the server emits. The server
// is the source of truth for their precision, and some payloads legitimately
// contain empty timestamp strings (e.g. plugin health checks that have not
// run yet), so they are not eagerly parsed into time.Time.
//
// Request option structs (ScanOptions, ReadOptions, ...) also live here so
// that both the HTTP and WebSocket clients share a single definition of each
// operation's parameters.
package scheme
