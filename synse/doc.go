// Package synse is a client library for the Synse Server v3 API.
//
// Synse Server exposes a fleet of devices (sensors, LEDs, locks, fans, ...)
// behind a uniform HTTP and WebSocket API: scan for devices, read sensor
// values, issue write commands, and track asynchronous write transactions.
// This package maps that API surface onto typed Go calls over either
// transport.
//
// # Transports
//
// Two clients implement the shared Client interface:
//
//   - HTTPClientV3 issues one HTTP request per operation.
//   - WebsocketClientV3 multiplexes operations over one persistent
//     connection, correlating JSON frames by request id. It additionally
//     supports live reading streams (ReadStream), which the HTTP API does
//     not offer.
//
// # Usage
//
//	client, err := synse.NewHTTPClientV3(&synse.Options{
//	    Address: "localhost:5000",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	devices, err := client.Scan(ctx, scheme.ScanOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range devices {
//	    readings, err := client.ReadDevice(ctx, d.ID)
//	    ...
//	}
//
// # Error Handling
//
// Failures reported by the server decode into *APIError values carrying the
// server's error payload. They unwrap to sentinel errors, so callers can
// branch without inspecting payloads:
//
//	if errors.Is(err, synse.ErrNotFound) {
//	    // unknown device or transaction
//	}
//
// Transport-level failures (connection refused, timeout, malformed JSON)
// are returned wrapped with request context but are not *APIError values.
package synse
