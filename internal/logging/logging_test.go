package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{" WARN ", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"", "INFO"},
		{"nonsense", "INFO"},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSetOutput_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn")
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}, "info") })

	Info("quiet")
	Warn("loud", "key", "value")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info message leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "key=value") {
		t.Fatalf("warn message missing: %q", out)
	}
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "peke.log")
	closer, err := Init(Config{File: path, Level: "debug"})
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	Debug("hello file")
	if err := closer(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Fatalf("log file = %q, want it to contain message", string(data))
	}
}

func TestInit_EmptyPathDiscards(t *testing.T) {
	closer, err := Init(Config{})
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	Error("dropped")
	if err := closer(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}
}
