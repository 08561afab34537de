package scheme

// Transaction states reported by the server. A write transaction moves
// through PENDING and WRITING before settling in DONE or ERROR.
const (
	StatePending = "PENDING"
	StateWriting = "WRITING"
	StateDone    = "DONE"
	StateError   = "ERROR"
)

// Transaction is the status of an asynchronous write, returned by
// `/v3/transaction/{id}`, `POST /v3/write/wait/{device}` and their
// WebSocket counterparts.
type Transaction struct {
	ID      string    `json:"id"`
	Created string    `json:"created"`
	Updated string    `json:"updated"`
	Timeout string    `json:"timeout"`
	Status  string    `json:"status"`
	Context WriteData `json:"context"`
	Message string    `json:"message"`
	Device  string    `json:"device"`
}

// Terminal reports whether the transaction has settled (DONE or ERROR).
func (t *Transaction) Terminal() bool {
	return t.Status == StateDone || t.Status == StateError
}

// Failed reports whether the transaction settled with an error. The server
// puts the failure reason in Message.
func (t *Transaction) Failed() bool {
	return t.Status == StateError
}
