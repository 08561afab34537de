package synse

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/synsekit/synse-go/synse/scheme"
)

// newWSTestServer runs a fake Synse Server WebSocket endpoint for the
// duration of the test and returns an opened client connected to it. The
// handle function owns the server side of the connection.
func newWSTestServer(t *testing.T, handle func(conn *websocket.Conn)) *WebsocketClientV3 {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/connect" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}))
	t.Cleanup(srv.Close)

	client, err := NewWebsocketClientV3(&Options{
		Address: strings.TrimPrefix(srv.URL, "http://"),
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewWebsocketClientV3() error = %v", err)
	}
	if err := client.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// serveEvents answers each request with the canned payload registered for
// its event, under the matching response/* event.
func serveEvents(payloads map[string]string) func(conn *websocket.Conn) {
	return func(conn *websocket.Conn) {
		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			payload, ok := payloads[req.Event]
			event := strings.Replace(req.Event, "request/", "response/", 1)
			if !ok {
				event = responseError
				payload = `{"http_code":500,"description":"unhandled event","timestamp":"","context":""}`
			}
			err := conn.WriteJSON(wsResponse{
				ID:    req.ID,
				Event: event,
				Data:  json.RawMessage(payload),
			})
			if err != nil {
				return
			}
		}
	}
}

func TestWebsocketClientV3_Status(t *testing.T) {
	client := newWSTestServer(t, serveEvents(map[string]string{
		requestStatus: `{"status":"ok","timestamp":"2019-01-01T12:00:00Z"}`,
	}))

	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.OK() {
		t.Errorf("status.Status = %q, want %q", status.Status, "ok")
	}
}

func TestWebsocketClientV3_Version(t *testing.T) {
	client := newWSTestServer(t, serveEvents(map[string]string{
		requestVersion: `{"version":"3.0.0","api_version":"v3"}`,
	}))

	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if version.APIVersion != "v3" {
		t.Errorf("version.APIVersion = %q, want %q", version.APIVersion, "v3")
	}
}

func TestWebsocketClientV3_Scan(t *testing.T) {
	var gotData wsScanData
	var mu sync.Mutex

	client := newWSTestServer(t, func(conn *websocket.Conn) {
		for {
			var raw struct {
				ID    uint64          `json:"id"`
				Event string          `json:"event"`
				Data  json.RawMessage `json:"data"`
			}
			if err := conn.ReadJSON(&raw); err != nil {
				return
			}
			mu.Lock()
			//nolint:errcheck // fixture data controlled by the test
			json.Unmarshal(raw.Data, &gotData)
			mu.Unlock()
			err := conn.WriteJSON(wsResponse{
				ID:    raw.ID,
				Event: "response/device_summary",
				Data: json.RawMessage(`[{
					"id": "0fe8f06229aa9a01ef6032d1ddaf18a5",
					"alias": "",
					"info": "Synse Temperature Sensor",
					"type": "temperature",
					"plugin": "12835beffd3e6c603aa4dd92127707b5",
					"tags": ["type:temperature"]
				}]`),
			})
			if err != nil {
				return
			}
		}
	})

	devices, err := client.Scan(context.Background(), scheme.ScanOptions{
		Force: true,
		NS:    "default",
		Tags:  [][]string{{"type:temperature"}},
	})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("len(devices) = %d, want 1", len(devices))
	}
	if devices[0].ID != "0fe8f06229aa9a01ef6032d1ddaf18a5" {
		t.Errorf("devices[0].ID = %q, want %q", devices[0].ID, "0fe8f06229aa9a01ef6032d1ddaf18a5")
	}

	mu.Lock()
	defer mu.Unlock()
	if !gotData.Force {
		t.Error("request data force = false, want true")
	}
	if gotData.NS != "default" {
		t.Errorf("request data ns = %q, want %q", gotData.NS, "default")
	}
	if len(gotData.Tags) != 1 || len(gotData.Tags[0]) != 1 || gotData.Tags[0][0] != "type:temperature" {
		t.Errorf("request data tags = %v, want [[type:temperature]]", gotData.Tags)
	}
}

func TestWebsocketClientV3_WriteSync(t *testing.T) {
	client := newWSTestServer(t, serveEvents(map[string]string{
		requestWriteSync: `[{
			"id": "56a32eba-1aa6-4868-84ee-fe01af8b2e6d",
			"created": "2018-02-01T15:00:51Z",
			"updated": "2018-02-01T15:00:51Z",
			"timeout": "10s",
			"status": "DONE",
			"context": {"action": "color", "data": "f38ac2"},
			"message": "",
			"device": "0fe8f06229aa9a01ef6032d1ddaf18a2"
		}]`,
	}))

	txns, err := client.WriteSync(context.Background(), "0fe8f06229aa9a01ef6032d1ddaf18a2", []scheme.WriteData{
		{Action: "color", Data: "f38ac2"},
	})
	if err != nil {
		t.Fatalf("WriteSync() error = %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("len(txns) = %d, want 1", len(txns))
	}
	if !txns[0].Terminal() {
		t.Errorf("txns[0].Status = %q, want terminal", txns[0].Status)
	}
}

func TestWebsocketClientV3_ErrorResponse(t *testing.T) {
	// No payloads registered: every request gets a response/error back.
	client := newWSTestServer(t, serveEvents(nil))

	_, err := client.Transaction(context.Background(), "no-such-transaction")
	if !errors.Is(err, ErrServerError) {
		t.Fatalf("Transaction() error = %v, want ErrServerError", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Transaction() error = %v, want *APIError", err)
	}
	if apiErr.Description != "unhandled event" {
		t.Errorf("apiErr.Description = %q, want %q", apiErr.Description, "unhandled event")
	}
}

func TestWebsocketClientV3_NotFoundError(t *testing.T) {
	client := newWSTestServer(t, func(conn *websocket.Conn) {
		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			err := conn.WriteJSON(wsResponse{
				ID:    req.ID,
				Event: responseError,
				Data:  json.RawMessage(`{"http_code":404,"description":"device not found","timestamp":"","context":""}`),
			})
			if err != nil {
				return
			}
		}
	})

	_, err := client.Info(context.Background(), "no-such-device")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Info() error = %v, want ErrNotFound", err)
	}
}

// TestWebsocketClientV3_Correlation answers two concurrent requests out of
// order and checks each caller still gets its own response.
func TestWebsocketClientV3_Correlation(t *testing.T) {
	client := newWSTestServer(t, func(conn *websocket.Conn) {
		var reqs []wsRequest
		for len(reqs) < 2 {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			reqs = append(reqs, req)
		}
		// Answer in reverse arrival order.
		for i := len(reqs) - 1; i >= 0; i-- {
			req := reqs[i]
			var payload string
			switch req.Event {
			case requestStatus:
				payload = `{"status":"ok","timestamp":""}`
			case requestVersion:
				payload = `{"version":"3.0.0","api_version":"v3"}`
			}
			event := strings.Replace(req.Event, "request/", "response/", 1)
			if err := conn.WriteJSON(wsResponse{ID: req.ID, Event: event, Data: json.RawMessage(payload)}); err != nil {
				return
			}
		}
	})

	var wg sync.WaitGroup
	wg.Add(2)
	var statusErr, versionErr error
	var status *scheme.Status
	var version *scheme.Version

	go func() {
		defer wg.Done()
		status, statusErr = client.Status(context.Background())
	}()
	go func() {
		defer wg.Done()
		version, versionErr = client.Version(context.Background())
	}()
	wg.Wait()

	if statusErr != nil {
		t.Fatalf("Status() error = %v", statusErr)
	}
	if versionErr != nil {
		t.Fatalf("Version() error = %v", versionErr)
	}
	if status.Status != "ok" {
		t.Errorf("status.Status = %q, want %q", status.Status, "ok")
	}
	if version.Version != "3.0.0" {
		t.Errorf("version.Version = %q, want %q", version.Version, "3.0.0")
	}
}

func TestWebsocketClientV3_ReadStream(t *testing.T) {
	stopped := make(chan struct{})

	client := newWSTestServer(t, func(conn *websocket.Conn) {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		// Stream a few readings under the request's id.
		for i := 0; i < 3; i++ {
			err := conn.WriteJSON(wsResponse{
				ID:    req.ID,
				Event: "response/reading",
				Data:  json.RawMessage(`{"device":"a72cs6519ee675b","device_type":"temperature","type":"temperature","value":20.3,"timestamp":"","unit":null,"context":{}}`),
			})
			if err != nil {
				return
			}
		}

		// Wait for the client's stop request.
		for {
			var raw struct {
				ID    uint64          `json:"id"`
				Event string          `json:"event"`
				Data  json.RawMessage `json:"data"`
			}
			if err := conn.ReadJSON(&raw); err != nil {
				return
			}
			var data wsReadStreamData
			if err := json.Unmarshal(raw.Data, &data); err != nil {
				continue
			}
			if raw.Event == requestReadStream && data.Stop {
				close(stopped)
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readings := make(chan *scheme.Read)
	errs := make(chan error, 1)
	go func() {
		errs <- client.ReadStream(ctx, scheme.ReadStreamOptions{
			IDs: []string{"a72cs6519ee675b"},
		}, readings)
	}()

	var count int
	for r := range readings {
		if r.Device != "a72cs6519ee675b" {
			t.Errorf("reading device = %q, want %q", r.Device, "a72cs6519ee675b")
		}
		count++
		if count == 3 {
			cancel()
		}
	}
	if count != 3 {
		t.Errorf("received %d readings, want 3", count)
	}

	if err := <-errs; !errors.Is(err, context.Canceled) {
		t.Errorf("ReadStream() error = %v, want context.Canceled", err)
	}

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Error("server never received the stream stop request")
	}
}

func TestWebsocketClientV3_NotConnected(t *testing.T) {
	client, err := NewWebsocketClientV3(&Options{Address: "localhost:5000"})
	if err != nil {
		t.Fatalf("NewWebsocketClientV3() error = %v", err)
	}

	_, err = client.Status(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Status() error = %v, want ErrNotConnected", err)
	}
}

func TestWebsocketClientV3_Closed(t *testing.T) {
	client := newWSTestServer(t, serveEvents(map[string]string{
		requestStatus: `{"status":"ok","timestamp":""}`,
	}))

	if _, err := client.Status(context.Background()); err != nil {
		t.Fatalf("Status() before close error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	_, err := client.Status(context.Background())
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Status() after close error = %v, want ErrClosed", err)
	}
}

func TestWebsocketClientV3_OpenTwice(t *testing.T) {
	client := newWSTestServer(t, serveEvents(map[string]string{
		requestStatus: `{"status":"ok","timestamp":""}`,
	}))

	// A second Open on a live connection is a no-op.
	if err := client.Open(context.Background()); err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	if _, err := client.Status(context.Background()); err != nil {
		t.Fatalf("Status() error = %v", err)
	}
}
