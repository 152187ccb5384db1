package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestTail(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "peke.log")

	var content strings.Builder
	var all []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("line %d", i)
		content.WriteString(line + "\n")
		all = append(all, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "zero reads all", n: 0, want: all},
		{name: "negative reads all", n: -1, want: all},
		{name: "partial", n: 5, want: all[5:]},
		{name: "exact", n: 10, want: all},
		{name: "more than exists", n: 20, want: all},
		{name: "one", n: 1, want: all[9:]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(logPath, tt.n)
			if err != nil {
				t.Fatalf("Tail: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tail(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "missing.log"), 10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Tail = %v, want empty", got)
	}
}

func TestTail_Empty(t *testing.T) {
	got, err := tailReader(strings.NewReader(""), 3)
	if err != nil {
		t.Fatalf("tailReader: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("tailReader = %v, want empty", got)
	}
}

func TestFilter(t *testing.T) {
	lines := []string{
		`time=2026-01-01T00:00:00Z level=DEBUG msg="panel opened"`,
		`time=2026-01-01T00:00:01Z level=INFO msg="logged in"`,
		`time=2026-01-01T00:00:02Z level=WARN msg="status poll failed"`,
		`continuation without fields`,
		`time=2026-01-01T00:00:03Z level=ERROR msg="persist token failed"`,
	}

	got := Filter(lines, "warn")
	want := []string{lines[2], lines[3], lines[4]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter(warn) = %v, want %v", got, want)
	}

	if got := Filter(lines, ""); len(got) != len(lines) {
		t.Fatalf("Filter(\"\") dropped lines: %v", got)
	}
}
