package scheme

// Status is the response for the `/test` endpoint and the `request/status`
// WebSocket event. It reports the availability of the Synse Server instance.
type Status struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// OK reports whether the server considers itself reachable and healthy.
func (s *Status) OK() bool {
	return s.Status == "ok"
}
