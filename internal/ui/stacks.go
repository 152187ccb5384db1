package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nachokhan/peke-panel/internal/api"
	"github.com/nachokhan/peke-panel/internal/logging"
	"github.com/nachokhan/peke-panel/internal/panel"
)

// renderStacksSidebar renders the stack list.
func (m Model) renderStacksSidebar(width, height int) string {
	focused := m.focus == focusStacks && m.panel == nil
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	inner := width - 2

	var lines []string
	switch {
	case m.stacksErr != "":
		lines = append(lines, bg.FillLine(bg.Render(truncate(m.stacksErr, inner), styles.MutedText), inner))
	case len(m.stacks) == 0:
		lines = append(lines, bg.FillLine(bg.Render("No stacks", styles.MutedText), inner))
	default:
		for i, s := range m.stacks {
			lines = append(lines, m.renderStackRow(s, inner, focused && i == m.selectedStack, bgColor))
		}
	}

	return m.renderTitledBox("Stacks", strings.Join(scrollWindow(lines, height-2, m.selectedStack), "\n"), width, height, focused)
}

func (m Model) renderStackRow(s api.StackSummary, width int, selected bool, bgColor string) string {
	nameStyle := m.theme.Styles().Text
	countStyle := m.theme.Styles().FaintText
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(s.Status)))
	if selected {
		bgColor = m.theme.SelectionBg
		nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		countStyle = nameStyle
	}
	bg := NewBgStyle(bgColor)

	count := fmt.Sprintf("%d", s.ContainersCount)
	name := truncate(stackName(s.StackID, s.DisplayName), max(width-len(count)-4, 4))
	left := bg.Render("●", dot) + bg.Space() + bg.Render(name, nameStyle)
	return bg.Split(left, bg.Render(count, countStyle), width)
}

func stackName(id, display string) string {
	if strings.TrimSpace(display) != "" {
		return display
	}
	return id
}

func (m Model) handleStacksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.stacks)
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedStack < count-1 {
			m.selectedStack++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedStack > 0 {
			m.selectedStack--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedStack = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedStack = max(count-1, 0)
	case key.Matches(msg, m.keys.Reload):
		m.refreshNow()
		return m, m.loadStacksCmd()
	case key.Matches(msg, m.keys.Confirm):
		if m.selectedStack < count {
			return m, m.stackDetailCmd(m.stacks[m.selectedStack].StackID)
		}
	}
	return m, nil
}

func (m Model) loadStacksCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		if client == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		stacks, err := client.ListStacks(ctx)
		return stacksMsg{stacks: stacks, err: err}
	}
}

func (m *Model) handleStacks(msg stacksMsg) {
	if isAuthError(msg.err) {
		return
	}
	if msg.err != nil {
		logging.Debug("list stacks failed", "error", msg.err)
		m.stacksErr = "Stacks unavailable"
		return
	}
	m.stacks = msg.stacks
	m.stacksErr = ""
	m.clampSelection()
	if len(m.stacks) == 0 && m.focus == focusStacks {
		m.focus = focusServices
	}
}

func (m Model) stackDetailCmd(id string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		if client == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		detail, err := client.StackDetail(ctx, id)
		return stackDetailMsg{id: id, detail: detail, err: err}
	}
}

func (m Model) handleStackDetail(msg stackDetailMsg) (tea.Model, tea.Cmd) {
	if isAuthError(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		logging.Warn("load stack failed", "stack", msg.id, "error", msg.err)
		return m, m.setNotice(fmt.Sprintf("stack %s: %v", msg.id, msg.err), true)
	}
	if m.panel != nil || m.view != ViewDashboard {
		return m, nil
	}
	m.modal = newStackModal(msg.detail)
	return m, nil
}

// stackModal shows one stack's containers and opens panels for them.
type stackModal struct {
	detail   api.StackDetail
	selected int
}

var _ Modal = (*stackModal)(nil)

func newStackModal(detail api.StackDetail) *stackModal {
	return &stackModal{detail: detail}
}

// Update implements Modal.
func (s *stackModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}

	count := len(s.detail.Containers)
	switch {
	case key.Matches(keyMsg, keys.Escape), key.Matches(keyMsg, keys.Quit):
		return s, nil, true
	case key.Matches(keyMsg, keys.Down):
		if s.selected < count-1 {
			s.selected++
		}
	case key.Matches(keyMsg, keys.Up):
		if s.selected > 0 {
			s.selected--
		}
	case key.Matches(keyMsg, keys.OpenLogs):
		return s.open(panel.KindLogs, "logs")
	case key.Matches(keyMsg, keys.OpenShell):
		return s.open(panel.KindShell, "exec")
	}
	return s, nil, false
}

func (s *stackModal) open(kind panel.Kind, action string) (Modal, tea.Cmd, bool) {
	if s.selected >= len(s.detail.Containers) {
		return s, nil, false
	}
	c := s.detail.Containers[s.selected]
	if !c.Can(action) {
		return s, nil, false
	}
	target := panelTarget{ID: c.ID, Name: strings.TrimPrefix(c.Name, "/")}
	return s, func() tea.Msg { return openPanelMsg{kind: kind, target: target} }, true
}

// View implements Modal.
func (s *stackModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	sum := s.detail.Summary

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(stackName(s.detail.StackID, s.detail.DisplayName)))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d containers · cpu %s · ram %s / %s",
		sum.ContainersCount, dash(sum.CPUAvg), dash(sum.RAMTotalUsed), dash(sum.RAMHostTotal))))
	b.WriteString("\n\n")

	if len(s.detail.Containers) == 0 {
		b.WriteString(styles.MutedText.Render("No containers"))
	}
	for i, c := range s.detail.Containers {
		name := padRight(truncate(strings.TrimPrefix(c.Name, "/"), 24), 24)
		state := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.StatusColor(c.State))).Render(padRight(dash(c.State), 10))
		metrics := styles.FaintText.Render(fmt.Sprintf("%-8s %-14s %s", dash(c.CPU), dash(c.RAM), dash(c.Uptime)))
		marker := "  "
		nameStyle := styles.Text
		if i == s.selected {
			marker = styles.AccentText.Render("▶ ")
			nameStyle = styles.AccentText.Bold(true)
		}
		b.WriteString(marker + nameStyle.Render(name) + " " + state + " " + metrics)
		if i < len(s.detail.Containers)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("j/k select · l logs · t shell · esc close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

type stacksMsg struct {
	stacks []api.StackSummary
	err    error
}

type stackDetailMsg struct {
	id     string
	detail api.StackDetail
	err    error
}
