package scheme

// Version is the response for the `/version` endpoint and the
// `request/version` WebSocket event.
//
// APIVersion is the version segment used to build versioned request URLs
// (e.g. "v3").
type Version struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
}
