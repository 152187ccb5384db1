package panel

import (
	"fmt"
	"regexp"
	"slices"
)

// Match is one occurrence of the query. Start and End are byte offsets in the
// line.
type Match struct {
	Line  int
	Start int
	End   int
}

// Span is a piece of a highlighted line.
type Span struct {
	Text    string
	Match   bool
	Current bool
}

// SearchEngine finds literal, case-insensitive matches in a set of lines and
// tracks the current match.
type SearchEngine struct {
	query   string
	re      *regexp.Regexp
	lines   []string
	matches []Match
	// byLine maps a line index to the global indices of its matches in scan
	// order.
	byLine  map[int][]int
	current int
}

// NewSearchEngine returns an engine with no query.
func NewSearchEngine() *SearchEngine {
	return &SearchEngine{}
}

// Query returns the active query.
func (e *SearchEngine) Query() string { return e.query }

// Active reports whether a non-empty query is set.
func (e *SearchEngine) Active() bool { return e.query != "" }

// SetQuery replaces the query and recomputes matches. The current match resets
// to the first one whenever the query changes.
func (e *SearchEngine) SetQuery(q string) {
	if q == e.query {
		return
	}
	e.query = q
	e.re = nil
	if q != "" {
		e.re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(q))
	}
	e.recompute()
}

// SetLines replaces the searched content and recomputes matches.
func (e *SearchEngine) SetLines(lines []string) {
	e.lines = lines
	e.recompute()
}

// Clear drops the query and all matches. The content is kept.
func (e *SearchEngine) Clear() {
	e.query = ""
	e.re = nil
	e.recompute()
}

func (e *SearchEngine) recompute() {
	e.matches = nil
	e.byLine = nil
	e.current = 0
	if e.re == nil {
		return
	}
	e.byLine = make(map[int][]int)
	for i, line := range e.lines {
		for _, loc := range e.re.FindAllStringIndex(line, -1) {
			if loc[0] == loc[1] {
				continue
			}
			e.byLine[i] = append(e.byLine[i], len(e.matches))
			e.matches = append(e.matches, Match{Line: i, Start: loc[0], End: loc[1]})
		}
	}
}

// Matches returns a copy of the ordered match list.
func (e *SearchEngine) Matches() []Match {
	return slices.Clone(e.matches)
}

// Count returns the number of matches.
func (e *SearchEngine) Count() int { return len(e.matches) }

// Current returns the current match index, or -1 when there are no matches.
func (e *SearchEngine) Current() int {
	if len(e.matches) == 0 {
		return -1
	}
	return e.current
}

// Next advances to the following match, wrapping at the end.
func (e *SearchEngine) Next() {
	if n := len(e.matches); n > 0 {
		e.current = (e.current + 1) % n
	}
}

// Prev moves to the preceding match, wrapping at the start.
func (e *SearchEngine) Prev() {
	if n := len(e.matches); n > 0 {
		e.current = (e.current - 1 + n) % n
	}
}

// CurrentLine returns the line of the current match, or -1.
func (e *SearchEngine) CurrentLine() int {
	if len(e.matches) == 0 {
		return -1
	}
	return e.matches[e.current].Line
}

// Indicator renders the match counter. An inactive search has no indicator;
// an active one with no hits reads "0 of 0".
func (e *SearchEngine) Indicator() string {
	if e.query == "" {
		return ""
	}
	if len(e.matches) == 0 {
		return "0 of 0"
	}
	return fmt.Sprintf("%d of %d", e.current+1, len(e.matches))
}

// Highlight splits line into plain and match spans. lineIndex selects the
// global match indices recorded for that line.
func (e *SearchEngine) Highlight(line string, lineIndex int) []Span {
	ids := e.byLine[lineIndex]
	if e.re == nil || len(ids) == 0 || lineIndex >= len(e.lines) || e.lines[lineIndex] != line {
		return []Span{{Text: line}}
	}

	spans := make([]Span, 0, len(ids)*2+1)
	pos := 0
	for _, id := range ids {
		m := e.matches[id]
		if m.Start > pos {
			spans = append(spans, Span{Text: line[pos:m.Start]})
		}
		spans = append(spans, Span{
			Text:    line[m.Start:m.End],
			Match:   true,
			Current: id == e.current,
		})
		pos = m.End
	}
	if pos < len(line) {
		spans = append(spans, Span{Text: line[pos:]})
	}
	return spans
}
