package scheme

import (
	"encoding/json"
	"testing"
)

func TestStatus_OK(t *testing.T) {
	ok := Status{Status: "ok"}
	if !ok.OK() {
		t.Error(`Status{"ok"}.OK() = false, want true`)
	}

	down := Status{Status: "degraded"}
	if down.OK() {
		t.Error(`Status{"degraded"}.OK() = true, want false`)
	}
}

func TestTransaction_States(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
		failed   bool
	}{
		{StatePending, false, false},
		{StateWriting, false, false},
		{StateDone, true, false},
		{StateError, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			txn := Transaction{Status: tt.status}
			if got := txn.Terminal(); got != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", got, tt.terminal)
			}
			if got := txn.Failed(); got != tt.failed {
				t.Errorf("Failed() = %v, want %v", got, tt.failed)
			}
		})
	}
}

func TestPluginHealth_IsHealthy(t *testing.T) {
	healthy := PluginHealth{Status: "healthy"}
	if !healthy.IsHealthy() {
		t.Error("IsHealthy() = false, want true")
	}

	unhealthy := PluginHealth{Status: "unhealthy"}
	if unhealthy.IsHealthy() {
		t.Error("IsHealthy() = true, want false")
	}
}

// TestRead_NullUnit checks that unitless readings (LED state, lock status)
// decode with a nil Unit rather than a zero-valued one.
func TestRead_NullUnit(t *testing.T) {
	var r Read
	err := json.Unmarshal([]byte(`{
		"device": "12bb12c1f86a86e",
		"device_type": "led",
		"type": "state",
		"value": "off",
		"timestamp": "2018-02-01T13:47:40Z",
		"unit": null,
		"context": {}
	}`), &r)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r.Unit != nil {
		t.Errorf("r.Unit = %+v, want nil", r.Unit)
	}
	if r.Value != "off" {
		t.Errorf("r.Value = %v, want %q", r.Value, "off")
	}
}

// TestRead_ValueTypes checks that the reading value keeps whatever JSON
// scalar the device produced.
func TestRead_ValueTypes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want interface{}
	}{
		{"number", `{"value": 20.3}`, 20.3},
		{"string", `{"value": "000000"}`, "000000"},
		{"bool", `{"value": true}`, true},
		{"null", `{"value": null}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Read
			if err := json.Unmarshal([]byte(tt.raw), &r); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if r.Value != tt.want {
				t.Errorf("r.Value = %v (%T), want %v (%T)", r.Value, r.Value, tt.want, tt.want)
			}
		})
	}
}
