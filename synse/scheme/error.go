package scheme

// Error is the JSON error payload Synse Server attaches to non-2xx HTTP
// responses and to `response/error` WebSocket frames.
type Error struct {
	HTTPCode    int    `json:"http_code"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
	Context     string `json:"context"`
}
