package scheme

// WriteData is the payload for a device write. Action selects the write
// action (one of the device's advertised write capabilities); Data carries
// the action's argument, when the action takes one.
//
// Transaction optionally lets the caller pick the transaction ID for the
// write instead of having the server generate one.
type WriteData struct {
	Action      string      `json:"action"`
	Data        interface{} `json:"data,omitempty"`
	Transaction string      `json:"transaction,omitempty"`
}

// Write is the receipt for one asynchronous device write, returned by
// `POST /v3/write/{device}` and the `request/write_async` WebSocket event.
// The ID identifies the transaction to poll for completion.
type Write struct {
	ID      string    `json:"id"`
	Device  string    `json:"device"`
	Context WriteData `json:"context"`
	Timeout string    `json:"timeout"`
}
