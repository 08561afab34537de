package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/synsekit/synse-go/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"bogus", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLevel(tt.level); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger := New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}, "1.0.0")

	if logger == nil || logger.Logger == nil {
		t.Fatal("New() returned nil logger")
	}
	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Enabled(info) = false, want true")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Enabled(debug) = true, want false")
	}
}

func TestWith(t *testing.T) {
	base := Default()
	child := base.With("component", "test")

	if child == base {
		t.Error("With() returned the same logger")
	}
	if child.Logger == nil {
		t.Fatal("With() returned nil slog logger")
	}
}
