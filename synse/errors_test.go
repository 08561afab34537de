package synse

import (
	"errors"
	"testing"
)

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantDesc string
		wantIs   error
	}{
		{
			name:     "json payload",
			status:   404,
			body:     `{"http_code":404,"description":"device not found","timestamp":"2019-01-01T12:00:00Z","context":"34c226b1"}`,
			wantCode: 404,
			wantDesc: "device not found",
			wantIs:   ErrNotFound,
		},
		{
			name:     "bad request",
			status:   400,
			body:     `{"http_code":400,"description":"invalid tags","timestamp":"","context":""}`,
			wantCode: 400,
			wantDesc: "invalid tags",
			wantIs:   ErrInvalidInput,
		},
		{
			name:     "server error",
			status:   500,
			body:     `{"http_code":500,"description":"boom","timestamp":"","context":""}`,
			wantCode: 500,
			wantDesc: "boom",
			wantIs:   ErrServerError,
		},
		{
			name:     "payload code wins over transport status",
			status:   0,
			body:     `{"http_code":404,"description":"device not found","timestamp":"","context":""}`,
			wantCode: 404,
			wantDesc: "device not found",
			wantIs:   ErrNotFound,
		},
		{
			name:     "non-json body",
			status:   502,
			body:     "upstream gone\n",
			wantCode: 502,
			wantDesc: "upstream gone",
			wantIs:   ErrServerError,
		},
		{
			name:     "empty body",
			status:   500,
			body:     "",
			wantCode: 500,
			wantDesc: "",
			wantIs:   ErrServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError(tt.status, []byte(tt.body))
			if err.HTTPCode != tt.wantCode {
				t.Errorf("HTTPCode = %d, want %d", err.HTTPCode, tt.wantCode)
			}
			if err.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", err.Description, tt.wantDesc)
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(err, %v) = false, want true", tt.wantIs)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := newAPIError(404, []byte(`{"http_code":404,"description":"device not found","timestamp":"","context":"34c226b1"}`))
	want := "synse: server error 404: device not found: 34c226b1"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = newAPIError(500, []byte(`{"http_code":500,"description":"boom","timestamp":"","context":""}`))
	want = "synse: server error 500: boom"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAPIError_UnmappedCode(t *testing.T) {
	// Codes without a sentinel (e.g. 401 from a proxy) still surface as an
	// *APIError, just without a sentinel match.
	err := newAPIError(401, []byte("unauthorized"))
	for _, sentinel := range []error{ErrInvalidInput, ErrNotFound, ErrServerError} {
		if errors.Is(err, sentinel) {
			t.Errorf("errors.Is(err, %v) = true, want false", sentinel)
		}
	}
}
