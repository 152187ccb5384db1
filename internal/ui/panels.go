package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nachokhan/peke-panel/internal/logging"
	"github.com/nachokhan/peke-panel/internal/panel"
)

// panelTarget names the container a panel is attached to.
type panelTarget struct {
	ID   string
	Name string
}

func (t panelTarget) shortID() string {
	if len(t.ID) > 12 {
		return t.ID[:12]
	}
	return t.ID
}

func (t panelTarget) label() string {
	id := t.shortID()
	if t.Name == "" || t.Name == id || t.Name == t.ID {
		return id
	}
	return t.Name + " (" + id + ")"
}

// floatingPanel is a draggable, resizable window drawn over the dashboard.
// Exactly one of logs or shell is set.
type floatingPanel struct {
	kind   panel.Kind
	target panelTarget
	geo    *panel.GeometryController

	viewport  viewport.Model
	search    textinput.Model
	searching bool

	logs  *logsPanel
	shell *shellPanel
}

func newFloatingPanel(kind panel.Kind, target panelTarget, store panel.GeometryStore) *floatingPanel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.CharLimit = 256

	p := &floatingPanel{
		kind:     kind,
		target:   target,
		geo:      panel.NewGeometryController(kind, store),
		viewport: viewport.New(0, 0),
		search:   search,
	}
	if kind == panel.KindShell {
		p.shell = newShellPanel()
	} else {
		p.logs = newLogsPanel()
	}
	return p
}

// engine returns the search engine for the panel's buffer.
func (p *floatingPanel) engine() *panel.SearchEngine {
	if p.shell != nil {
		return p.shell.Search
	}
	return p.logs.search
}

func (p *floatingPanel) busy() bool {
	if p.shell != nil {
		return p.shell.Pending() > 0
	}
	return p.logs.loading
}

func (p *floatingPanel) title() string {
	if p.shell != nil {
		return "Shell"
	}
	return "Logs"
}

// chrome measures the fixed rows around the body.
func (p *floatingPanel) chrome(theme Theme, inner int) panel.Chrome {
	return panel.Chrome{
		Header:  1 + lipgloss.Height(p.titleRow(theme, inner)),
		Toolbar: lipgloss.Height(p.toolbarRow(theme, inner, "")),
		Input:   lipgloss.Height(p.inputRow(theme, inner)),
		Frame:   1,
	}
}

// layout recomputes the minimum size and sizes the body to the geometry.
func (p *floatingPanel) layout(theme Theme) {
	g := p.geo.Geometry()
	ch := p.chrome(theme, g.Width-2)
	p.geo.RecomputeMinSize(ch)
	g = p.geo.Geometry()

	p.viewport.Width = g.Width - 2
	p.viewport.Height = max(g.Height-ch.Header-ch.Toolbar-ch.Input-ch.Frame, 1)
	p.search.Width = max(g.Width/3, 10)
	if p.shell != nil {
		p.shell.input.Width = max(g.Width-8, 10)
	}
	p.render(theme)
}

// render rebuilds the body content from the buffer and search state.
func (p *floatingPanel) render(theme Theme) {
	styles := theme.Styles()
	bg := NewBgStyle(theme.FocusBg)
	width := p.viewport.Width
	eng := p.engine()

	var lines []string
	var stick bool
	if p.shell != nil {
		for i, l := range p.shell.Transcript.Lines() {
			lines = append(lines, renderSpans(eng.Highlight(l.Text, i), lineStyle(styles, l.Class), styles, bg, width))
		}
		if len(lines) == 0 {
			lines = append(lines, bg.FillLine(bg.Render("Run a command below. Type clear to reset.", styles.MutedText), width))
		}
		stick = p.shell.Transcript.ConsumeStickToBottom()
	} else {
		for i, l := range p.logs.buffer.Lines() {
			lines = append(lines, renderSpans(eng.Highlight(l, i), styles.Text, styles, bg, width))
		}
		if len(lines) == 0 {
			msg := "No log output"
			if p.logs.loading {
				msg = "Loading logs..."
			}
			lines = append(lines, bg.FillLine(bg.Render(msg, styles.MutedText), width))
		}
		stick = p.logs.buffer.ConsumeStickToBottom()
	}

	p.viewport.SetContent(strings.Join(lines, "\n"))
	if stick {
		p.viewport.GotoBottom()
	}
}

func lineStyle(styles Styles, class panel.LineClass) lipgloss.Style {
	switch class {
	case panel.ClassCommand:
		return styles.AccentText.Bold(true)
	case panel.ClassStderr:
		return styles.WarningText
	case panel.ClassMeta:
		return styles.FaintText
	case panel.ClassError:
		return styles.DangerText
	default:
		return styles.Text
	}
}

// renderSpans styles highlight spans and fits the result to width.
func renderSpans(spans []panel.Span, base lipgloss.Style, styles Styles, bg BgStyle, width int) string {
	var b strings.Builder
	for _, s := range spans {
		text := strings.ReplaceAll(s.Text, "\t", "    ")
		switch {
		case s.Current:
			b.WriteString(styles.CurrentMatch.Render(text))
		case s.Match:
			b.WriteString(styles.Match.Render(text))
		default:
			b.WriteString(bg.Render(text, base))
		}
	}
	return bg.FillLine(b.String(), width)
}

// scrollToCurrent centers the current match in the body.
func (p *floatingPanel) scrollToCurrent() {
	line := p.engine().CurrentLine()
	if line < 0 {
		return
	}
	p.viewport.SetYOffset(max(line-p.viewport.Height/2, 0))
}

func (p *floatingPanel) beginSearch() tea.Cmd {
	p.searching = true
	if p.shell != nil {
		p.shell.input.Blur()
	}
	return p.search.Focus()
}

// endSearch leaves the search field. clear also drops the query.
func (p *floatingPanel) endSearch(clear bool, theme Theme) tea.Cmd {
	p.searching = false
	p.search.Blur()
	if clear {
		p.search.Reset()
		p.engine().Clear()
		p.render(theme)
	}
	if p.shell != nil {
		return p.shell.input.Focus()
	}
	return nil
}

func (p *floatingPanel) clearSearch(theme Theme) {
	p.search.Reset()
	p.engine().Clear()
	p.render(theme)
}

// updateInputs forwards a message to whichever input has focus.
func (p *floatingPanel) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case p.searching:
		p.search, cmd = p.search.Update(msg)
	case p.shell != nil:
		p.shell.input, cmd = p.shell.input.Update(msg)
	}
	return cmd
}

// view renders the framed panel at its current size.
func (p *floatingPanel) view(theme Theme, spin string) string {
	g := p.geo.Geometry()
	inner := g.Width - 2

	borderColor := theme.Border
	if p.geo.Active() {
		borderColor = theme.BorderFocus
	}
	bg := NewBgStyle(theme.FocusBg)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Text))
	handleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))
	side := bg.Render("│", borderStyle)

	title := " " + p.title() + " "
	rows := make([]string, 0, g.Height)
	rows = append(rows, bg.Render("┌─", borderStyle)+
		bg.Render(title, titleStyle)+
		bg.Render(strings.Repeat("─", max(inner-1-len(title), 0))+"┐", borderStyle))
	rows = append(rows, side+p.titleRow(theme, inner)+side)
	rows = append(rows, side+p.toolbarRow(theme, inner, spin)+side)

	body := strings.Split(p.viewport.View(), "\n")
	for i := 0; i < p.viewport.Height; i++ {
		var line string
		if i < len(body) {
			line = body[i]
		}
		rows = append(rows, side+bg.FillLine(line, inner)+side)
	}

	rows = append(rows, side+p.inputRow(theme, inner)+side)
	rows = append(rows, bg.Render("└"+strings.Repeat("─", max(inner-1, 0)), borderStyle)+
		bg.Render("◢", handleStyle)+
		bg.Render("┘", borderStyle))
	return strings.Join(rows, "\n")
}

// titleRow is the draggable row under the top border.
func (p *floatingPanel) titleRow(theme Theme, width int) string {
	styles := theme.Styles()
	bg := NewBgStyle(theme.FocusBg)
	left := bg.Space() + bg.Render(p.target.label(), styles.Text.Bold(true))
	right := bg.Render("esc close", styles.FaintText) + bg.Space()
	return bg.Split(left, right, width)
}

func (p *floatingPanel) toolbarRow(theme Theme, width int, spin string) string {
	if p.shell != nil {
		return p.shellToolbar(theme, width, spin)
	}
	return p.logsToolbar(theme, width, spin)
}

func (p *floatingPanel) inputRow(theme Theme, width int) string {
	styles := theme.Styles()
	bg := NewBgStyle(theme.FocusBg)
	if p.shell != nil {
		return bg.FillLine(bg.Space()+p.shell.input.View(), width)
	}
	eng := p.engine()
	if p.searching || eng.Active() {
		indicator := bg.Render(eng.Indicator(), styles.AccentText) + bg.Space()
		return bg.Split(bg.Space()+p.search.View(), indicator, width)
	}
	return bg.FillLine(bg.Space()+bg.Render("/ to search", styles.FaintText), width)
}

// handlePanelKey routes keys while a panel is open.
func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.panel.searching {
		return m.handlePanelSearchKey(msg)
	}
	if m.panel.shell != nil {
		return m.handleShellKey(msg)
	}
	return m.handleLogsKey(msg)
}

// handlePanelSearchKey drives the incremental search field.
func (m Model) handlePanelSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.panel
	eng := p.engine()

	switch {
	case key.Matches(msg, m.keys.Escape):
		return m, p.endSearch(true, m.theme)

	case key.Matches(msg, m.keys.Confirm):
		if eng.Count() > 0 && p.shell != nil {
			// Enter steps through hits while the shell field is focused
			eng.Next()
			p.render(m.theme)
			p.scrollToCurrent()
			return m, nil
		}
		return m, p.endSearch(false, m.theme)

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

	case key.Matches(msg, m.keys.ShellSearch):
		return m, p.endSearch(false, m.theme)
	}

	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	if q := p.search.Value(); q != eng.Query() {
		eng.SetQuery(q)
		p.render(m.theme)
		p.scrollToCurrent()
	}
	return m, cmd
}

// handlePanelScrollKey applies body scrolling keys. It reports whether the
// key was consumed.
func (m Model) handlePanelScrollKey(msg tea.KeyMsg, vim bool) bool {
	vp := &m.panel.viewport
	switch {
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		vp.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		vp.HalfPageUp()
	case vim && key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case vim && key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case vim && key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case vim && key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	default:
		return false
	}
	return true
}

// openPanel closes any open panel and opens a new one for target.
func (m Model) openPanel(kind panel.Kind, target panelTarget) (tea.Model, tea.Cmd) {
	if m.view != ViewDashboard || target.ID == "" {
		return m, nil
	}
	m.closePanel()
	m.modal = nil

	var store panel.GeometryStore
	if m.prefs != nil {
		store = m.prefs
	}
	m.panel = newFloatingPanel(kind, target, store)
	m.suspendPolling()
	m.panel.layout(m.theme)
	logging.Debug("panel opened", "kind", kind, "container", target.ID)

	if kind == panel.KindShell {
		return m, m.panel.shell.input.Focus()
	}
	return m, m.fetchLogs()
}

// closePanel tears the panel down. In-flight responses for it are dropped.
func (m *Model) closePanel() {
	p := m.panel
	if p == nil {
		return
	}
	p.geo.End()
	if p.logs != nil {
		p.logs.tracker.Close()
	}
	m.panel = nil
	m.resumePolling()
	logging.Debug("panel closed", "kind", p.kind, "container", p.target.ID)
}

type openPanelMsg struct {
	kind   panel.Kind
	target panelTarget
}
