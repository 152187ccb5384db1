package panel

import (
	"fmt"
	"strings"
)

// Turn is one executed command and its result. Turns are never modified
// after being appended.
type Turn struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
}

// LineClass selects the style of a transcript line.
type LineClass int

const (
	ClassCommand LineClass = iota
	ClassStdout
	ClassStderr
	ClassMeta
	ClassError
)

// String returns the class name.
func (c LineClass) String() string {
	switch c {
	case ClassCommand:
		return "command"
	case ClassStdout:
		return "stdout"
	case ClassStderr:
		return "stderr"
	case ClassMeta:
		return "meta"
	case ClassError:
		return "error"
	default:
		return "unknown"
	}
}

// Line is a classified display line.
type Line struct {
	Text  string
	Class LineClass
}

// Transcript is the append-only history of a shell panel plus an optional
// transient error line.
type Transcript struct {
	turns   []Turn
	errMsg  string
	lines   []Line
	texts   []string
	dirty   bool
	version uint64
	stick   bool
}

// Append adds a turn.
func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
	t.touch()
}

// Clear removes every turn and the error line.
func (t *Transcript) Clear() {
	if len(t.turns) == 0 && t.errMsg == "" {
		return
	}
	t.turns = nil
	t.errMsg = ""
	t.touch()
}

// SetError sets or clears the transient error line.
func (t *Transcript) SetError(msg string) {
	if msg == t.errMsg {
		return
	}
	t.errMsg = msg
	t.touch()
}

// Error returns the transient error line text.
func (t *Transcript) Error() string { return t.errMsg }

// Turns returns a copy of the history.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int { return len(t.turns) }

// Version increments whenever the projected lines change.
func (t *Transcript) Version() uint64 { return t.version }

func (t *Transcript) touch() {
	t.dirty = true
	t.version++
}

// Lines projects the history into classified lines. The projection is cached
// until the turns or the error line change.
func (t *Transcript) Lines() []Line {
	if t.dirty || t.lines == nil {
		t.project()
	}
	return t.lines
}

// Texts returns the plain text of Lines, for searching.
func (t *Transcript) Texts() []string {
	if t.dirty || t.lines == nil {
		t.project()
	}
	return t.texts
}

func (t *Transcript) project() {
	lines := make([]Line, 0, len(t.turns)*3)
	for _, turn := range t.turns {
		lines = append(lines, Line{Text: "$ " + turn.Command, Class: ClassCommand})
		lines = appendOutput(lines, turn.Stdout, ClassStdout)
		lines = appendOutput(lines, turn.Stderr, ClassStderr)
		lines = append(lines, Line{Text: fmt.Sprintf("exit code: %d", turn.ExitCode), Class: ClassMeta})
	}
	if t.errMsg != "" {
		lines = append(lines, Line{Text: "[ERROR] " + t.errMsg, Class: ClassError})
	}
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	t.lines = lines
	t.texts = texts
	t.dirty = false
}

func appendOutput(lines []Line, out string, class LineClass) []Line {
	if out == "" {
		return lines
	}
	for _, l := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		lines = append(lines, Line{Text: l, Class: class})
	}
	return lines
}

// MarkStickToBottom asks the next render to scroll to the last line.
func (t *Transcript) MarkStickToBottom() { t.stick = true }

// ConsumeStickToBottom reports and clears the stick-to-bottom request.
func (t *Transcript) ConsumeStickToBottom() bool {
	s := t.stick
	t.stick = false
	return s
}

// ClearCommand is handled locally and never sent to the backend.
const ClearCommand = "clear"

// SubmitAction tells the caller what a submitted command requires.
type SubmitAction int

const (
	// SubmitIgnored means the input was blank.
	SubmitIgnored SubmitAction = iota
	// SubmitCleared means the transcript and search were reset locally.
	SubmitCleared
	// SubmitRemote means the command must be executed by the backend.
	SubmitRemote
)

// Exec is a command handed to the backend. Seq is the issue order the
// result is applied in.
type Exec struct {
	Seq     int
	Command string
}

type outcome struct {
	turn Turn
	err  error
	skip bool
}

// Shell combines a transcript with its search state. Results of remote
// commands are applied in the order the commands were submitted.
type Shell struct {
	Transcript *Transcript
	Search     *SearchEngine
	issued     int
	applied    int
	held       map[int]outcome
}

// NewShell returns an empty shell.
func NewShell() *Shell {
	return &Shell{Transcript: &Transcript{}, Search: NewSearchEngine(), held: map[int]outcome{}}
}

// Submit interprets the input line. For SubmitRemote the returned command is
// trimmed and the caller runs it, then reports back through Complete with
// the same Seq.
func (s *Shell) Submit(input string) (Exec, SubmitAction) {
	cmd := strings.TrimSpace(input)
	switch cmd {
	case "":
		return Exec{}, SubmitIgnored
	case ClearCommand:
		s.Transcript.Clear()
		s.Search.Clear()
		s.Search.SetLines(s.Transcript.Texts())
		s.Transcript.MarkStickToBottom()
		return Exec{}, SubmitCleared
	}
	if s.Transcript.Error() != "" {
		s.Transcript.SetError("")
		s.Search.SetLines(s.Transcript.Texts())
	}
	e := Exec{Seq: s.issued, Command: cmd}
	s.issued++
	return e, SubmitRemote
}

// Pending reports the number of commands whose result is not yet applied.
func (s *Shell) Pending() int { return s.issued - s.applied }

// Complete records the outcome of the command issued as seq. It is held
// until every earlier command has completed. It reports whether the
// transcript changed.
func (s *Shell) Complete(seq int, turn Turn, err error) bool {
	return s.settle(seq, outcome{turn: turn, err: err})
}

// Discard settles seq without touching the transcript.
func (s *Shell) Discard(seq int) bool {
	return s.settle(seq, outcome{skip: true})
}

func (s *Shell) settle(seq int, o outcome) bool {
	if seq < s.applied || seq >= s.issued {
		return false
	}
	if s.held == nil {
		s.held = map[int]outcome{}
	}
	s.held[seq] = o

	changed := false
	for {
		next, ok := s.held[s.applied]
		if !ok {
			break
		}
		delete(s.held, s.applied)
		s.applied++
		if next.skip {
			continue
		}
		if next.err != nil {
			s.Transcript.SetError(fmt.Sprintf("failed to execute command: %v", next.err))
		} else {
			s.Transcript.Append(next.turn)
		}
		changed = true
	}
	if changed {
		s.Search.SetLines(s.Transcript.Texts())
		s.Transcript.MarkStickToBottom()
	}
	return changed
}
