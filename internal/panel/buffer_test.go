package panel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func TestLogBuffer_ReplaceSplitsLazily(t *testing.T) {
	var b LogBuffer
	if !b.Empty() || len(b.Lines()) != 0 {
		t.Fatalf("new buffer not empty")
	}
	b.Replace("one\ntwo\n")
	if b.Version() != 1 {
		t.Fatalf("Version = %d, want 1", b.Version())
	}
	lines := b.Lines()
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Fatalf("Lines = %q", lines)
	}
	b.Replace("three")
	if got := b.Lines(); len(got) != 1 || got[0] != "three" {
		t.Fatalf("Lines after replace = %q", got)
	}
}

func TestLogBuffer_StickToBottomConsumedOnce(t *testing.T) {
	var b LogBuffer
	if b.ConsumeStickToBottom() {
		t.Fatalf("fresh buffer wants stick to bottom")
	}
	b.MarkStickToBottom()
	if !b.ConsumeStickToBottom() {
		t.Fatalf("mark was lost")
	}
	if b.ConsumeStickToBottom() {
		t.Fatalf("mark consumed twice")
	}
}

func TestLogBuffer_Export(t *testing.T) {
	var b LogBuffer
	b.Replace("hello\nworld")
	dir := filepath.Join(t.TempDir(), "exports")
	now := time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)

	path, err := b.Export(dir, "web-1", now)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(path) != "logs-web-1-2024-05-01T13-04-05Z.txt" {
		t.Fatalf("export name = %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello\nworld\n" {
		t.Fatalf("export body = %q", string(data))
	}
}

func TestExportName_SanitizesSubject(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := ExportName("a/b c", now); got != "logs-a_b_c-2024-01-02T03-04-05Z.txt" {
		t.Fatalf("ExportName = %q", got)
	}
	if got := ExportName("  ", now); got != "logs-container-2024-01-02T03-04-05Z.txt" {
		t.Fatalf("ExportName = %q", got)
	}
}

func TestLogBuffer_Copy(t *testing.T) {
	var b LogBuffer
	b.Replace("raw text")
	cb := &fakeClipboard{}
	if err := b.Copy(cb); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if cb.text != "raw text" {
		t.Fatalf("clipboard = %q", cb.text)
	}

	failing := &fakeClipboard{err: errors.New("no display")}
	if err := b.Copy(failing); err == nil {
		t.Fatalf("Copy with failing clipboard returned nil")
	}
}
