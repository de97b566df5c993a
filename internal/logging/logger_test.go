package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSONOutputWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "debug", Format: FormatJSON, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	l.With("worker", 3).Debug("band computed", "rows", 5)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %q", buf.String())
	}
	if entry["msg"] != "band computed" || entry["level"] != "DEBUG" {
		t.Errorf("entry = %v", entry)
	}
	if entry["worker"] != float64(3) || entry["rows"] != float64(5) {
		t.Errorf("attributes missing: %v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
	if l.Enabled(slog.LevelInfo) {
		t.Error("INFO should be disabled at WARN level")
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	l, err := New(Options{Level: "info", File: path})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("run finished", "generations", 32)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "generations=32") {
		t.Errorf("log file = %q", data)
	}
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	l.Error("dropped")
	if err := l.Close(); err != nil {
		t.Error(err)
	}
}
