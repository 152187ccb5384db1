package ui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nachokhan/peke-panel/internal/api"
	"github.com/nachokhan/peke-panel/internal/logging"
	"github.com/nachokhan/peke-panel/internal/panel"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("peke", styles.Logo)}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts,
			bg.Render("API "+classifyConnectionError(m.snapshot.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)))
	case !m.snapshot.HasStatus:
		parts = append(parts, bg.Render("Connecting...", styles.MutedText))
	default:
		running, stopped := countServices(m.snapshot.Services)
		parts = append(parts,
			bg.Render(fmt.Sprintf("%d running", running), styles.SuccessText),
			bg.Render(fmt.Sprintf("%d stopped", stopped), styles.MutedText))
		if len(m.stacks) > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("%d stacks", len(m.stacks)), styles.InfoText))
		}
	}

	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render("updated "+m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}
	if m.panel != nil {
		parts = append(parts, bg.Render("polling paused", styles.WarningText))
	}

	left := bg.Join(parts, sep)
	right := ""
	if m.notice != "" {
		style := styles.InfoText
		if m.noticeErr {
			style = styles.DangerText
		}
		right = bg.Render(truncate(m.notice, max(m.width/2, 10)), style)
	}

	inner := max(m.width-2, 0)
	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Split(left, right, inner))
}

// renderCommandBar renders the key hints for the active surface.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.panel != nil && m.panel.kind == panel.KindShell:
		commands = []cmd{
			{"enter", "Run"},
			{"ctrl+f", "Search"},
			{"ctrl+n/p", "Next/Prev"},
			{"pgup/pgdn", "Scroll"},
			{"esc", "Close"},
		}
	case m.panel != nil:
		commands = []cmd{
			{"r", "Refresh"},
			{"m", fmt.Sprintf("%d lines", m.panel.logs.lines)},
			{"/", "Search"},
			{"n/N", "Next/Prev"},
			{"c", "Copy"},
			{"e", "Export"},
			{"esc", "Close"},
		}
	case m.focus == focusStacks:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Open stack"},
			{"tab", "Services"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"s", "Start"},
			{"x", "Stop"},
			{"R", "Restart"},
			{"l", "Logs"},
			{"t", "Shell"},
			{"tab", "Stacks"},
			{"L", "Logout"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, sep))
}

// renderContent lays out the stacks sidebar and the services table.
func (m Model) renderContent() string {
	height := max(m.height-chromeRows, 3)

	if m.width < LayoutCompactWidth {
		return m.renderServices(m.width, height)
	}

	sidebar := m.renderStacksSidebar(SidebarWidth, height)
	services := m.renderServices(m.width-SidebarWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, services)
}

// Services table columns. Name takes what is left.
var serviceColumns = []struct {
	title string
	width int
}{
	{"STATUS", 12},
	{"UPTIME", 14},
	{"CPU", 8},
	{"RAM", 16},
	{"PORT", 12},
	{"NET", 18},
}

func (m Model) serviceColumnCount(width int) int {
	n := len(serviceColumns)
	if width < LayoutWideWidth {
		n-- // drop NET
	}
	return n
}

// renderServices renders the services table inside a titled box.
func (m Model) renderServices(width, height int) string {
	focused := m.focus == focusServices && m.panel == nil
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	inner := width - 2

	title := fmt.Sprintf("Services (%d)", len(m.snapshot.Services))
	var lines []string

	switch {
	case !m.snapshot.HasStatus && m.snapshot.LastError != nil:
		lines = append(lines, bg.FillLine(bg.Render(truncate(m.snapshot.LastError.Error(), inner), styles.DangerText), inner))
	case !m.snapshot.HasStatus:
		lines = append(lines, bg.FillLine(bg.Render("Waiting for the first status poll...", styles.MutedText), inner))
	case len(m.snapshot.Services) == 0:
		lines = append(lines, bg.FillLine(bg.Render("No containers reported", styles.MutedText), inner))
	default:
		cols := m.serviceColumnCount(inner)
		lines = append(lines, m.renderServiceHeader(inner, cols, bg))
		for i, svc := range m.snapshot.Services {
			lines = append(lines, m.renderServiceRow(svc, inner, cols, i == m.selectedRow && focused))
		}
	}

	return m.renderTitledBox(title, strings.Join(scrollWindow(lines, height-2, m.selectedRow+1), "\n"), width, height, focused)
}

func (m Model) renderServiceHeader(width, cols int, bg BgStyle) string {
	styles := m.theme.Styles()
	nameWidth := nameColumnWidth(width, cols)
	parts := []string{bg.Render(padRight("NAME", nameWidth), styles.FaintText)}
	for _, c := range serviceColumns[:cols] {
		parts = append(parts, bg.Render(padRight(c.title, c.width), styles.FaintText))
	}
	return bg.FillLine(strings.Join(parts, bg.Space()), width)
}

func (m Model) renderServiceRow(svc api.Service, width, cols int, selected bool) string {
	rowBg := m.theme.SurfaceAlt
	if m.focus == focusServices && m.panel == nil {
		rowBg = m.theme.FocusBg
	}
	textStyle := m.theme.Styles().Text
	mutedStyle := m.theme.Styles().MutedText
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(svc.Status)))
	if selected {
		rowBg = m.theme.SelectionBg
		textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		mutedStyle = textStyle
		statusStyle = textStyle.Bold(true)
	}
	bg := NewBgStyle(rowBg)

	values := []string{svc.Status, svc.Uptime, svc.CPUUsage, svc.RAMUsage, svc.Port, svc.NetUsage}
	nameWidth := nameColumnWidth(width, cols)
	parts := []string{bg.Render(padRight(truncate(svc.DisplayName(), nameWidth), nameWidth), textStyle)}
	for i, c := range serviceColumns[:cols] {
		style := mutedStyle
		if i == 0 {
			style = statusStyle
		}
		parts = append(parts, bg.Render(padRight(truncate(dash(values[i]), c.width), c.width), style))
	}
	return bg.FillLine(strings.Join(parts, bg.Space()), width)
}

func nameColumnWidth(width, cols int) int {
	used := 0
	for _, c := range serviceColumns[:cols] {
		used += c.width + 1
	}
	return max(width-used, 12)
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	inner := max(width-2, 0)
	title = truncate(title, max(inner-4, 0))
	leftPad := max((inner-len(title)-2)/2, 0)
	rightPad := max(inner-len(title)-2-leftPad, 0)

	top := bg.Render("┌"+strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad)+"┐", borderStyle)
	bottom := bg.Render("└"+strings.Repeat("─", inner)+"┘", borderStyle)

	contentLines := strings.Split(content, "\n")
	rows := make([]string, 0, height)
	rows = append(rows, top)
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		rows = append(rows, bg.Render("│", borderStyle)+bg.FillLine(line, inner)+bg.Render("│", borderStyle))
	}
	rows = append(rows, bottom)
	return strings.Join(rows, "\n")
}

// handleDashboardKey processes keys for the services table and the stacks
// sidebar.
func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus == focusStacks {
		return m.handleStacksKey(msg)
	}

	count := len(m.snapshot.Services)
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = max(count-1, 0)
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.refreshNow()
		return m, m.loadStacksCmd()
	}

	svc, ok := m.selectedService()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Start):
		return m, m.controlCmd(svc.ID, svc.DisplayName(), api.ActionStart)
	case key.Matches(msg, m.keys.Stop):
		return m, m.controlCmd(svc.ID, svc.DisplayName(), api.ActionStop)
	case key.Matches(msg, m.keys.Restart):
		return m, m.controlCmd(svc.ID, svc.DisplayName(), api.ActionRestart)
	case key.Matches(msg, m.keys.OpenLogs):
		return m.openPanel(panel.KindLogs, panelTarget{ID: svc.ID, Name: svc.DisplayName()})
	case key.Matches(msg, m.keys.OpenShell):
		return m.openPanel(panel.KindShell, panelTarget{ID: svc.ID, Name: svc.DisplayName()})
	}

	return m, nil
}

func (m Model) selectedService() (api.Service, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Services) {
		return api.Service{}, false
	}
	return m.snapshot.Services[m.selectedRow], true
}

func (m Model) controlCmd(id, name string, action api.Action) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		if client == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		err := client.Control(ctx, id, action)
		return controlResultMsg{name: name, action: action, err: err}
	}
}

func (m Model) handleControlResult(msg controlResultMsg) (tea.Model, tea.Cmd) {
	if isAuthError(msg.err) {
		return m, nil
	}

	var notice tea.Cmd
	if msg.err != nil {
		logging.Warn("container action failed", "action", msg.action, "container", msg.name, "error", msg.err)
		notice = m.setNotice(fmt.Sprintf("%s %s failed: %v", msg.action, msg.name, msg.err), true)
	} else {
		logging.Info("container action done", "action", msg.action, "container", msg.name)
		notice = m.setNotice(fmt.Sprintf("%s %s: done", msg.action, msg.name), false)
	}

	m.refreshNow()
	return m, tea.Batch(notice, m.loadStacksCmd())
}

func countServices(services []api.Service) (running, stopped int) {
	for _, svc := range services {
		if svc.Running() {
			running++
		} else {
			stopped++
		}
	}
	return running, stopped
}

// classifyConnectionError shortens transport errors for the header.
func classifyConnectionError(err error) string {
	if err == nil {
		return "unreachable"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "connection refused"
	case strings.Contains(msg, "no such host"):
		return "host not found"
	case strings.Contains(msg, "returned status"):
		return "error response"
	default:
		return "unreachable"
	}
}

// scrollWindow returns at most height lines keeping index visible.
func scrollWindow(lines []string, height, index int) []string {
	if height <= 0 {
		return nil
	}
	if len(lines) <= height {
		return lines
	}
	start := scrollStart(len(lines), height, index)
	return lines[start : start+height]
}

// scrollStart is the first visible line when count lines scroll through a
// window of height rows keeping index visible.
func scrollStart(count, height, index int) int {
	if height <= 0 || count <= height {
		return 0
	}
	return max(min(index-height+1, count-height), 0)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type controlResultMsg struct {
	name   string
	action api.Action
	err    error
}
