package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// newFakeServer runs a fake Synse Server for the duration of the test and
// returns its host:port address for the -server flag.
func newFakeServer(t *testing.T, router chi.Router) string {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	// Commands resolve config relative to the working directory; run from a
	// temp dir so a developer's synsectl.yaml does not leak into the test.
	t.Chdir(t.TempDir())
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestRunStatus(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","timestamp":"2019-01-01T12:00:00Z"}`)) //nolint:errcheck
	})
	addr := newFakeServer(t, router)

	var stdout, stderr bytes.Buffer
	code := RunStatus(context.Background(), []string{"-server", addr}, &stdout, &stderr)

	if code != ExitSuccess {
		t.Fatalf("RunStatus() = %d, want %d; stderr: %s", code, ExitSuccess, stderr.String())
	}

	var status map[string]interface{}
	if err := json.Unmarshal(stdout.Bytes(), &status); err != nil {
		t.Fatalf("decoding stdout: %v", err)
	}
	if status["status"] != "ok" {
		t.Errorf(`status = %v, want "ok"`, status["status"])
	}
}

func TestRunStatus_ServerDown(t *testing.T) {
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	code := RunStatus(context.Background(), []string{"-server", "127.0.0.1:1", "-timeout", "1"}, &stdout, &stderr)

	if code != ExitRequest {
		t.Fatalf("RunStatus() = %d, want %d", code, ExitRequest)
	}
	if !strings.Contains(stderr.String(), "synsectl:") {
		t.Errorf("stderr = %q, want synsectl error line", stderr.String())
	}
}

func TestRunStatus_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := RunStatus(context.Background(), []string{"-no-such-flag"}, &stdout, &stderr)

	if code != ExitUsage {
		t.Fatalf("RunStatus() = %d, want %d", code, ExitUsage)
	}
}

func TestRunInfo_MissingDevice(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := RunInfo(context.Background(), nil, &stdout, &stderr)

	if code != ExitUsage {
		t.Fatalf("RunInfo() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "usage:") {
		t.Errorf("stderr = %q, want usage line", stderr.String())
	}
}

func TestRunWrite_BadArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := RunWrite(context.Background(), []string{"device-only"}, &stdout, &stderr)

	if code != ExitUsage {
		t.Fatalf("RunWrite() = %d, want %d", code, ExitUsage)
	}
}

func TestRunScan_TagFilter(t *testing.T) {
	var gotTags []string
	router := chi.NewRouter()
	router.Get("/v3/scan", func(w http.ResponseWriter, r *http.Request) {
		gotTags = r.URL.Query()["tags"]
		w.Write([]byte(`[]`)) //nolint:errcheck
	})
	addr := newFakeServer(t, router)

	var stdout, stderr bytes.Buffer
	code := RunScan(context.Background(), []string{
		"-server", addr,
		"-tags", "type:temperature,vio/fan-sensor",
		"-tags", "foo",
	}, &stdout, &stderr)

	if code != ExitSuccess {
		t.Fatalf("RunScan() = %d, want %d; stderr: %s", code, ExitSuccess, stderr.String())
	}

	want := []string{"type:temperature,vio/fan-sensor", "foo"}
	if len(gotTags) != len(want) {
		t.Fatalf("tags params = %v, want %v", gotTags, want)
	}
	for i := range want {
		if gotTags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, gotTags[i], want[i])
		}
	}
}

func TestTagGroups_Set(t *testing.T) {
	var tags tagGroups

	if err := tags.Set("a,b"); err != nil {
		t.Fatalf("Set(%q) error = %v", "a,b", err)
	}
	if err := tags.Set(" c , d "); err != nil {
		t.Fatalf("Set(%q) error = %v", " c , d ", err)
	}
	if err := tags.Set(""); err == nil {
		t.Error("Set(\"\") error = nil, want error")
	}
	if err := tags.Set(" , "); err == nil {
		t.Error("Set(\" , \") error = nil, want error")
	}

	want := tagGroups{{"a", "b"}, {"c", "d"}}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if len(tags[i]) != len(want[i]) {
			t.Fatalf("tags[%d] = %v, want %v", i, tags[i], want[i])
		}
		for j := range want[i] {
			if tags[i][j] != want[i][j] {
				t.Errorf("tags[%d][%d] = %q, want %q", i, j, tags[i][j], want[i][j])
			}
		}
	}
}

func TestStringList_Set(t *testing.T) {
	var list stringList

	if err := list.Set("one"); err != nil {
		t.Fatalf("Set(%q) error = %v", "one", err)
	}
	if err := list.Set("two"); err != nil {
		t.Fatalf("Set(%q) error = %v", "two", err)
	}
	if err := list.Set(""); err == nil {
		t.Error("Set(\"\") error = nil, want error")
	}

	if got := list.String(); got != "one,two" {
		t.Errorf("String() = %q, want %q", got, "one,two")
	}
}
