package panel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

// exportStamp is RFC3339 in UTC with the colons replaced so the name is
// valid on every filesystem.
const exportStamp = "2006-01-02T15-04-05Z"

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// LogBuffer holds the most recent log tail of one container. The text is
// replaced wholesale on every fetch and split into lines on demand.
type LogBuffer struct {
	text    string
	lines   []string
	split   bool
	version uint64
	stick   bool
}

// Replace swaps in a new log body.
func (b *LogBuffer) Replace(text string) {
	text = strings.TrimRight(text, "\n")
	b.text = text
	b.lines = nil
	b.split = false
	b.version++
}

// Text returns the raw log body.
func (b *LogBuffer) Text() string { return b.text }

// Version increments on every Replace.
func (b *LogBuffer) Version() uint64 { return b.version }

// Empty reports whether the buffer has no text.
func (b *LogBuffer) Empty() bool { return b.text == "" }

// Lines returns the body split into lines.
func (b *LogBuffer) Lines() []string {
	if !b.split {
		if b.text != "" {
			b.lines = strings.Split(b.text, "\n")
		}
		b.split = true
	}
	return b.lines
}

// MarkStickToBottom asks the next render to scroll to the last line.
func (b *LogBuffer) MarkStickToBottom() { b.stick = true }

// ConsumeStickToBottom reports and clears the stick-to-bottom request.
func (b *LogBuffer) ConsumeStickToBottom() bool {
	s := b.stick
	b.stick = false
	return s
}

// ExportName builds the export file name for subject at now.
func ExportName(subject string, now time.Time) string {
	subject = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, strings.TrimSpace(subject))
	if subject == "" {
		subject = "container"
	}
	return fmt.Sprintf("logs-%s-%s.txt", subject, now.UTC().Format(exportStamp))
}

// Export writes the raw text into dir and returns the created path.
func (b *LogBuffer) Export(dir, subject string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, ExportName(subject, now))
	body := b.text
	if body != "" {
		body += "\n"
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// Copy places the raw text on cb.
func (b *LogBuffer) Copy(cb Clipboard) error {
	if cb == nil {
		return fmt.Errorf("no clipboard")
	}
	if err := cb.WriteAll(b.text); err != nil {
		return fmt.Errorf("copy logs: %w", err)
	}
	return nil
}
