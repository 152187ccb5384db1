package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nachokhan/peke-panel/internal/logging"
	"github.com/nachokhan/peke-panel/internal/panel"
)

// shellPanel is a remote command session with its input line.
type shellPanel struct {
	*panel.Shell
	input textinput.Model
}

func newShellPanel() *shellPanel {
	in := textinput.New()
	in.Prompt = "$ "
	in.Placeholder = "command"
	in.CharLimit = 1024
	return &shellPanel{Shell: panel.NewShell(), input: in}
}

func (p *floatingPanel) shellToolbar(theme Theme, width int, spin string) string {
	styles := theme.Styles()
	bg := NewBgStyle(theme.FocusBg)
	eng := p.engine()

	var left string
	if p.searching || eng.Active() {
		left = bg.Space() + p.search.View()
	} else {
		left = bg.Space() + bg.Render("ctrl+f", styles.AccentText) + bg.Sep(":") +
			bg.Render("search", styles.MutedText) + bg.Spaces(2) +
			bg.Render("clear", styles.AccentText) + bg.Sep(":") +
			bg.Render("reset transcript", styles.MutedText)
	}

	var right string
	if eng.Active() {
		right = bg.Render(eng.Indicator(), styles.AccentText)
	}
	if p.shell.Pending() > 0 {
		if right != "" {
			right += bg.Spaces(2)
		}
		right += spin + bg.Render(" running", styles.MutedText)
	}
	if right != "" {
		right += bg.Space()
	}
	return bg.Split(left, right, width)
}

// handleShellKey processes keyboard input for an open shell panel.
func (m Model) handleShellKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.panel
	eng := p.engine()

	switch {
	case key.Matches(msg, m.keys.ClosePanel):
		if eng.Active() {
			p.clearSearch(m.theme)
			return m, nil
		}
		m.closePanel()
		return m, nil

	case key.Matches(msg, m.keys.ShellSearch):
		return m, p.beginSearch()

	case key.Matches(msg, m.keys.NextMatchAlt):
		eng.Next()
		p.render(m.theme)
		p.scrollToCurrent()
		return m, nil

	case key.Matches(msg, m.keys.PrevMatchAlt):
		eng.Prev()
		p.render(m.theme)
		p.scrollToCurrent()
		return m, nil

	case key.Matches(msg, m.keys.SubmitCommand):
		return m.submitShell()
	}

	if m.handlePanelScrollKey(msg, false) {
		return m, nil
	}

	var cmd tea.Cmd
	p.shell.input, cmd = p.shell.input.Update(msg)
	return m, cmd
}

func (m Model) submitShell() (tea.Model, tea.Cmd) {
	p := m.panel
	exec, action := p.shell.Submit(p.shell.input.Value())
	p.shell.input.Reset()

	switch action {
	case panel.SubmitCleared:
		p.search.Reset()
		p.render(m.theme)
		return m, nil
	case panel.SubmitRemote:
		p.render(m.theme)
		return m, tea.Batch(m.execCmd(p.shell.Shell, p.target.ID, exec), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) execCmd(shell *panel.Shell, id string, exec panel.Exec) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		if client == nil {
			return execResultMsg{shell: shell, seq: exec.Seq, turn: panel.Turn{Command: exec.Command}, err: errors.New("no backend configured")}
		}
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		res, err := client.Exec(ctx, id, exec.Command)
		return execResultMsg{
			shell: shell,
			seq:   exec.Seq,
			turn: panel.Turn{
				Command:  exec.Command,
				Stdout:   res.Stdout,
				Stderr:   res.Stderr,
				ExitCode: res.ReturnCode,
			},
			err: err,
		}
	}
}

func (m *Model) handleExecResult(msg execResultMsg) {
	p := m.panel
	if p == nil || p.shell == nil || p.shell.Shell != msg.shell {
		logging.Debug("dropping exec result for closed panel", "command", msg.turn.Command)
		return
	}
	if isAuthError(msg.err) {
		p.shell.Discard(msg.seq)
		return
	}
	if msg.err != nil {
		logging.Warn("exec failed", "container", p.target.ID, "command", msg.turn.Command, "error", msg.err)
	}
	p.shell.Complete(msg.seq, msg.turn, msg.err)
	p.render(m.theme)
}

type execResultMsg struct {
	shell *panel.Shell
	seq   int
	turn  panel.Turn
	err   error
}
