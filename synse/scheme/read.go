package scheme

// Read is a single device reading, returned by the `/v3/read`,
// `/v3/read/{device}` and `/v3/readcache` endpoints and their WebSocket
// counterparts (including the `request/read_stream` stream).
//
// Value is whatever JSON scalar the device produces: a number for sensors,
// a string for states ("on", "000000"), a bool for binary devices. Unit is
// nil for readings which have no unit of measure.
type Read struct {
	Device     string                 `json:"device"`
	Timestamp  string                 `json:"timestamp"`
	Type       string                 `json:"type"`
	DeviceType string                 `json:"device_type"`
	DeviceInfo string                 `json:"device_info,omitempty"`
	Unit       *Unit                  `json:"unit"`
	Value      interface{}            `json:"value"`
	Context    map[string]interface{} `json:"context"`
}
