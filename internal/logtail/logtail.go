package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineBytes caps a single line; longer lines are split.
const maxLineBytes = 1024 * 1024

// Tail returns the last n lines of the file at path, oldest first. n <= 0
// returns every line. A missing file yields no lines and no error.
func Tail(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	lines, err := tailReader(f, n)
	if err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}
	return lines, nil
}

func tailReader(r io.Reader, n int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if n <= 0 {
		var all []string
		for scanner.Scan() {
			all = append(all, scanner.Text())
		}
		return all, scanner.Err()
	}

	ring := make([]string, n)
	total := 0
	for scanner.Scan() {
		ring[total%n] = scanner.Text()
		total++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if total <= n {
		return ring[:total], nil
	}
	start := total % n
	return append(ring[start:], ring[:start]...), nil
}

// Filter keeps lines at or above the given slog level name. Lines without a
// level= field are kept.
func Filter(lines []string, level string) []string {
	floor := levelRank(level)
	if floor <= 0 {
		return lines
	}
	out := lines[:0:0]
	for _, line := range lines {
		if rank := levelRank(fieldValue(line, "level")); rank == 0 || rank >= floor {
			out = append(out, line)
		}
	}
	return out
}

func fieldValue(line, key string) string {
	prefix := key + "="
	for _, field := range strings.Fields(line) {
		if v, ok := strings.CutPrefix(field, prefix); ok {
			return v
		}
	}
	return ""
}

func levelRank(level string) int {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return 1
	case "INFO":
		return 2
	case "WARN", "WARNING":
		return 3
	case "ERROR":
		return 4
	default:
		return 0
	}
}
