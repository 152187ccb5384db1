package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlay draws top over base with its top-left corner at (x, y). Both are
// multi-line styled strings; the result is clipped to width by height.
func overlay(base, top string, x, y, width, height int) string {
	rows := strings.Split(base, "\n")
	for len(rows) < height {
		rows = append(rows, "")
	}
	if len(rows) > height {
		rows = rows[:height]
	}
	if x < 0 {
		x = 0
	}
	if x >= width {
		return strings.Join(rows, "\n")
	}

	for i, line := range strings.Split(top, "\n") {
		row := y + i
		if row < 0 || row >= len(rows) {
			continue
		}
		w := ansi.StringWidth(line)
		if x+w > width {
			line = ansi.Truncate(line, width-x, "")
			w = width - x
		}

		under := rows[row]
		left := ansi.Truncate(under, x, "")
		if lw := ansi.StringWidth(left); lw < x {
			left += strings.Repeat(" ", x-lw)
		}
		right := ansi.TruncateLeft(under, x+w, "")
		rows[row] = left + ansi.ResetStyle + line + ansi.ResetStyle + right
	}
	return strings.Join(rows, "\n")
}
