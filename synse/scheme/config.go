package scheme

// Config is the response for the `/v3/config` endpoint and the
// `request/config` WebSocket event.
//
// The payload is the server's own unified configuration. Its shape is owned
// by the server and changes between server releases, so it is surfaced as a
// free-form map rather than a rigid struct.
type Config map[string]interface{}
