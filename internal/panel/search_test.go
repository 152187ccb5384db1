package panel

import (
	"strings"
	"testing"
)

func newSearch(content, query string) *SearchEngine {
	e := NewSearchEngine()
	e.SetLines(strings.Split(content, "\n"))
	e.SetQuery(query)
	return e
}

func TestSearch_FindsOrderedMatches(t *testing.T) {
	e := newSearch("a\nbXb\naXa", "a")
	want := []Match{
		{Line: 0, Start: 0, End: 1},
		{Line: 2, Start: 0, End: 1},
		{Line: 2, Start: 2, End: 3},
	}
	got := e.Matches()
	if len(got) != len(want) {
		t.Fatalf("Matches = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Matches[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSearch_NextWraps(t *testing.T) {
	e := newSearch("a\nbXb\naXa", "a")
	seq := []int{e.Current()}
	for i := 0; i < 3; i++ {
		e.Next()
		seq = append(seq, e.Current())
	}
	want := []int{0, 1, 2, 0}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("Next sequence = %v, want %v", seq, want)
		}
	}
}

func TestSearch_PrevWraps(t *testing.T) {
	e := newSearch("a\nbXb\naXa", "a")
	var seq []int
	for i := 0; i < 4; i++ {
		e.Prev()
		seq = append(seq, e.Current())
	}
	want := []int{2, 1, 0, 2}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("Prev sequence = %v, want %v", seq, want)
		}
	}
}

func TestSearch_Indicator(t *testing.T) {
	tests := []struct {
		name    string
		content string
		query   string
		want    string
	}{
		{"empty query", "a\nb", "", ""},
		{"no hits", "a\nb", "zzz", "0 of 0"},
		{"hits", "a\nbXb\naXa", "a", "1 of 3"},
		{"case insensitive", "Error\nerror\nERROR", "eRRoR", "1 of 3"},
		{"metacharacters literal", "a.b\naxb", ".", "1 of 1"},
		{"non overlapping", "aaaa", "aa", "1 of 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newSearch(tt.content, tt.query)
			if got := e.Indicator(); got != tt.want {
				t.Fatalf("Indicator = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearch_EmptyQueryNeverMatches(t *testing.T) {
	e := newSearch("anything\n\n", "")
	if e.Count() != 0 || e.Current() != -1 {
		t.Fatalf("Count=%d Current=%d, want 0,-1", e.Count(), e.Current())
	}
	e.Next()
	e.Prev()
	if e.Current() != -1 {
		t.Fatalf("navigation without matches changed Current to %d", e.Current())
	}
	spans := e.Highlight("anything", 0)
	if len(spans) != 1 || spans[0].Match {
		t.Fatalf("Highlight with empty query = %+v, want one plain span", spans)
	}
}

func TestSearch_QueryOrContentChangeResetsCurrent(t *testing.T) {
	e := newSearch("a\nbXb\naXa", "a")
	e.Next()
	e.Next()
	e.SetQuery("x")
	if e.Current() != 0 {
		t.Fatalf("Current after query change = %d, want 0", e.Current())
	}
	e.Next()
	e.SetLines([]string{"x", "x", "x"})
	if e.Current() != 0 || e.Count() != 3 {
		t.Fatalf("after content change Current=%d Count=%d, want 0,3", e.Current(), e.Count())
	}
}

func TestSearch_HighlightMarksCurrent(t *testing.T) {
	e := newSearch("a\nbXb\naXa", "a")
	e.Next()

	spans := e.Highlight("aXa", 2)
	want := []Span{
		{Text: "a", Match: true, Current: true},
		{Text: "X"},
		{Text: "a", Match: true},
	}
	if len(spans) != len(want) {
		t.Fatalf("Highlight = %+v, want %+v", spans, want)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Fatalf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}

	plain := e.Highlight("bXb", 1)
	if len(plain) != 1 || plain[0].Text != "bXb" || plain[0].Match {
		t.Fatalf("Highlight of line without matches = %+v", plain)
	}
}

func TestSearch_HighlightPreservesOriginalCase(t *testing.T) {
	e := newSearch("Foo foo", "FOO")
	spans := e.Highlight("Foo foo", 0)
	var joined strings.Builder
	matches := 0
	for _, s := range spans {
		joined.WriteString(s.Text)
		if s.Match {
			matches++
		}
	}
	if joined.String() != "Foo foo" {
		t.Fatalf("spans rebuild %q, want original line", joined.String())
	}
	if matches != 2 {
		t.Fatalf("match spans = %d, want 2", matches)
	}
}

func TestSearch_CurrentLine(t *testing.T) {
	e := newSearch("x\nfoo\nbar\nfoo", "foo")
	if e.CurrentLine() != 1 {
		t.Fatalf("CurrentLine = %d, want 1", e.CurrentLine())
	}
	e.Next()
	if e.CurrentLine() != 3 {
		t.Fatalf("CurrentLine = %d, want 3", e.CurrentLine())
	}
	e.Clear()
	if e.CurrentLine() != -1 || e.Active() {
		t.Fatalf("after Clear CurrentLine=%d Active=%v", e.CurrentLine(), e.Active())
	}
}
