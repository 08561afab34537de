package scheme

// Scan is a single device summary from the `/v3/scan` endpoint and the
// `request/scan` WebSocket event.
type Scan struct {
	ID        string            `json:"id"`
	Alias     string            `json:"alias"`
	Info      string            `json:"info"`
	Type      string            `json:"type"`
	Plugin    string            `json:"plugin"`
	Tags      []string          `json:"tags"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	SortIndex int32             `json:"sort_index,omitempty"`
}

// Info is the full device record from the `/v3/info/{device}` endpoint and
// the `request/info` WebSocket event.
type Info struct {
	Timestamp    string                 `json:"timestamp"`
	ID           string                 `json:"id"`
	Alias        string                 `json:"alias"`
	Type         string                 `json:"type"`
	Info         string                 `json:"info"`
	Plugin       string                 `json:"plugin"`
	Metadata     map[string]interface{} `json:"metadata"`
	Capabilities Capabilities           `json:"capabilities"`
	Tags         []string               `json:"tags"`
	Outputs      []Output               `json:"outputs"`
	SortIndex    int32                  `json:"sort_index"`
}

// Capabilities describes what a device supports: its read/write mode and,
// for writable devices, the accepted write actions.
type Capabilities struct {
	Mode  string            `json:"mode"`
	Write WriteCapabilities `json:"write"`
}

// WriteCapabilities lists the write actions a device accepts.
type WriteCapabilities struct {
	Actions []string `json:"actions"`
}

// Output describes one reading output a device produces.
type Output struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Precision     int     `json:"precision"`
	ScalingFactor float64 `json:"scalingFactor"`
	Unit          *Unit   `json:"unit"`
}

// Unit is the unit of measure for a reading output. It is nil on readings
// which have no unit (e.g. an LED state).
type Unit struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
