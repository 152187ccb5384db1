package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nachokhan/peke-panel/internal/logging"
	"github.com/nachokhan/peke-panel/internal/panel"
)

// logsPanel holds the state of a logs panel body.
type logsPanel struct {
	buffer   *panel.LogBuffer
	search   *panel.SearchEngine
	tracker  *panel.RequestTracker
	lines    int
	loading  bool
	fetchErr string
	flashing bool
}

func newLogsPanel() *logsPanel {
	return &logsPanel{
		buffer:  &panel.LogBuffer{},
		search:  panel.NewSearchEngine(),
		tracker: &panel.RequestTracker{},
		lines:   panel.DefaultLines,
	}
}

func (p *floatingPanel) logsToolbar(theme Theme, width int, spin string) string {
	styles := theme.Styles()
	bg := NewBgStyle(theme.FocusBg)
	l := p.logs

	colon := bg.Sep(":")
	hint := func(k, desc string) string {
		return bg.Render(k, styles.AccentText) + colon + bg.Render(desc, styles.MutedText)
	}
	left := bg.Space() + bg.Join([]string{
		hint("m", fmt.Sprintf("%d lines", l.lines)),
		hint("r", "refresh"),
		hint("c", "copy"),
		hint("e", "export"),
	}, "  ")

	var right string
	switch {
	case l.flashing:
		right = bg.Render("Copied!", styles.SuccessText)
	case l.loading:
		right = spin + bg.Render(" loading", styles.MutedText)
	case l.fetchErr != "":
		right = bg.Render(l.fetchErr, styles.DangerText)
	}
	if right != "" {
		right += bg.Space()
	}
	return bg.Split(left, right, width)
}

// handleLogsKey processes keyboard input for an open logs panel.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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

	case key.Matches(msg, m.keys.Search):
		return m, p.beginSearch()

	case key.Matches(msg, m.keys.NextMatch), key.Matches(msg, m.keys.NextMatchAlt):
		eng.Next()
		p.render(m.theme)
		p.scrollToCurrent()
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch), key.Matches(msg, m.keys.PrevMatchAlt):
		eng.Prev()
		p.render(m.theme)
		p.scrollToCurrent()
		return m, nil

	case key.Matches(msg, m.keys.RefreshLogs):
		return m, m.fetchLogs()

	case key.Matches(msg, m.keys.CycleLines):
		p.logs.lines = panel.NextLineCount(p.logs.lines)
		return m, m.fetchLogs()

	case key.Matches(msg, m.keys.CopyLogs):
		return m, m.copyLogs()

	case key.Matches(msg, m.keys.ExportLogs):
		return m, m.exportLogs()
	}

	m.handlePanelScrollKey(msg, true)
	return m, nil
}

// fetchLogs issues a fetch for the open logs panel. Any response still in
// flight becomes stale.
func (m *Model) fetchLogs() tea.Cmd {
	p := m.panel
	if p == nil || p.logs == nil {
		return nil
	}
	tracker := p.logs.tracker
	req := tracker.Issue(p.target.ID, p.logs.lines)
	p.logs.loading = true
	p.logs.fetchErr = ""

	client := m.client
	ctx := m.ctx
	fetch := func() tea.Msg {
		if client == nil {
			return logsFetchedMsg{tracker: tracker, req: req, err: errors.New("no backend configured")}
		}
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		text, err := client.FetchLogs(ctx, req.ContainerID, req.Lines)
		return logsFetchedMsg{tracker: tracker, req: req, text: text, err: err}
	}
	return tea.Batch(fetch, m.spinner.Tick)
}

func (m *Model) handleLogsFetched(msg logsFetchedMsg) {
	if msg.tracker == nil || !msg.tracker.Accept(msg.req) {
		logging.Debug("dropping stale logs response", "container", msg.req.ContainerID, "seq", msg.req.Seq)
		return
	}
	p := m.panel
	if p == nil || p.logs == nil || p.logs.tracker != msg.tracker {
		return
	}

	p.logs.loading = false
	if isAuthError(msg.err) {
		return
	}
	if msg.err != nil {
		logging.Warn("fetch logs failed", "container", msg.req.ContainerID, "lines", msg.req.Lines, "error", msg.err)
		p.logs.fetchErr = "Failed to load logs"
		p.render(m.theme)
		return
	}

	p.logs.buffer.Replace(msg.text)
	p.logs.search.SetLines(p.logs.buffer.Lines())
	p.logs.buffer.MarkStickToBottom()
	p.render(m.theme)
}

// copyLogs copies the raw log text. The flash shows whatever the outcome.
func (m *Model) copyLogs() tea.Cmd {
	l := m.panel.logs
	if err := l.buffer.Copy(m.clipboard); err != nil {
		logging.Warn("copy logs failed", "container", m.panel.target.ID, "error", err)
	}
	m.flashSeq++
	l.flashing = true
	seq := m.flashSeq
	return tea.Tick(CopyFlashDuration, func(time.Time) tea.Msg {
		return copyFlashDoneMsg{seq: seq}
	})
}

func (m *Model) exportLogs() tea.Cmd {
	p := m.panel
	if p.logs.buffer.Empty() {
		return m.setNotice("No logs to export", false)
	}
	path, err := p.logs.buffer.Export(m.exportDir, p.target.ID, m.now())
	if err != nil {
		logging.Warn("export logs failed", "container", p.target.ID, "error", err)
		return m.setNotice(fmt.Sprintf("export failed: %v", err), true)
	}
	logging.Info("logs exported", "container", p.target.ID, "path", path)
	return m.setNotice("Saved "+path, false)
}

type logsFetchedMsg struct {
	tracker *panel.RequestTracker
	req     panel.Request
	text    string
	err     error
}

type copyFlashDoneMsg struct{ seq int }
