package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nachokhan/peke-panel/internal/api"
	"github.com/nachokhan/peke-panel/internal/auth"
	"github.com/nachokhan/peke-panel/internal/config"
	"github.com/nachokhan/peke-panel/internal/logging"
	"github.com/nachokhan/peke-panel/internal/panel"
	"github.com/nachokhan/peke-panel/internal/prefs"
	"github.com/nachokhan/peke-panel/internal/state"
)

// View represents the current top-level screen.
type View int

const (
	ViewLogin View = iota
	ViewDashboard
)

type focusPane int

const (
	focusServices focusPane = iota
	focusStacks
)

const sessionExpiredText = "Session expired. Please log in again."

// Session is the credential holder the UI logs in and out of.
// *auth.Session implements it.
type Session interface {
	LoggedIn() bool
	Login(token string) error
	Logout() error
}

// Poller is the dashboard status poller. Open panels hold a suspension.
type Poller interface {
	Suspend()
	Resume()
	Refresh()
	OnUpdate(fn func())
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    api.Backend
	Session   Session
	Watcher   *auth.Watcher
	Store     *state.Store
	Poller    Poller
	Prefs     *prefs.Store
	Config    *config.Config
	Clipboard panel.Clipboard
	ThemeName string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators
	ctx       context.Context
	client    api.Backend
	session   Session
	store     *state.Store
	poller    Poller
	prefs     *prefs.Store
	clipboard panel.Clipboard
	exportDir string
	now       func() time.Time

	// UI state
	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	view    View
	focus   focusPane
	width   int
	height  int
	ready   bool

	login loginForm

	// Dashboard data
	snapshot      state.Snapshot
	selectedRow   int
	stacks        []api.StackSummary
	stacksErr     string
	selectedStack int

	// Overlays
	modal    Modal
	showHelp bool
	panel    *floatingPanel

	notice    string
	noticeErr bool
	noticeSeq int
	flashSeq  int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" && opts.Prefs != nil {
		themeName = opts.Prefs.Load().Theme
	}

	exportDir := "."
	if opts.Config != nil {
		exportDir = opts.Config.ExportDirectory()
	}

	clip := opts.Clipboard
	if clip == nil {
		clip = panel.SystemClipboard{}
	}

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		session:   opts.Session,
		store:     opts.Store,
		poller:    opts.Poller,
		prefs:     opts.Prefs,
		clipboard: clip,
		exportDir: exportDir,
		now:       time.Now,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		view:      ViewLogin,
		login:     newLoginForm(),
	}
	if m.session != nil && m.session.LoggedIn() {
		m.view = ViewDashboard
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}
	if m.view == ViewLogin {
		cmds = append(cmds, textinput.Blink)
		return tea.Batch(cmds...)
	}
	cmds = append(cmds, m.loadStacksCmd())
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		if m.panel != nil {
			m.panel.layout(m.theme)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		return m, nil

	case sessionExpiredMsg:
		if m.view == ViewLogin && m.panel == nil {
			return m, nil
		}
		logging.Info("session expired, returning to login")
		m.resetSession(sessionExpiredText)
		return m, textinput.Blink

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case controlResultMsg:
		return m.handleControlResult(msg)

	case stacksMsg:
		m.handleStacks(msg)
		return m, nil

	case stackDetailMsg:
		return m.handleStackDetail(msg)

	case openPanelMsg:
		return m.openPanel(msg.kind, msg.target)

	case logsFetchedMsg:
		m.handleLogsFetched(msg)
		return m, nil

	case execResultMsg:
		m.handleExecResult(msg)
		return m, nil

	case copyFlashDoneMsg:
		if m.panel != nil && m.panel.logs != nil && m.flashSeq == msg.seq {
			m.panel.logs.flashing = false
		}
		return m, nil

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeErr = false
		}
		return m, nil
	}

	return m.forwardToInputs(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.view == ViewLogin {
		return m.renderLogin()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	screen := m.renderMain()
	if m.panel != nil {
		g := m.panel.geo.Geometry()
		screen = overlay(screen, m.panel.view(m.theme, m.spinner.View()), g.Left, g.Top, m.width, m.height)
	}
	return screen
}

// handleKey routes keyboard input to the innermost active surface.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.view == ViewLogin {
		return m.handleLoginKey(msg)
	}

	if m.panel != nil {
		return m.handlePanelKey(msg)
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		return m.logout()

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		m.toggleFocus()
		return m, nil
	}

	return m.handleDashboardKey(msg)
}

// forwardToInputs hands cursor blink and other unclaimed messages to
// whichever text input currently has focus.
func (m Model) forwardToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view == ViewLogin {
		var cmd tea.Cmd
		m.login, cmd = m.login.update(msg)
		return m, cmd
	}
	if m.panel != nil {
		return m, m.panel.updateInputs(msg)
	}
	return m, nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.panel != nil {
		m.panel.render(m.theme)
	}
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SaveTheme(m.theme.Name); err != nil {
		logging.Warn("save theme failed", "theme", m.theme.Name, "error", err)
	}
}

func (m *Model) toggleFocus() {
	if m.focus == focusServices && len(m.stacks) > 0 && m.width >= LayoutCompactWidth {
		m.focus = focusStacks
		return
	}
	m.focus = focusServices
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if m.session != nil {
		if err := m.session.Logout(); err != nil {
			logging.Warn("logout failed", "error", err)
		}
	}
	logging.Info("logged out")
	m.resetSession("")
	return m, textinput.Blink
}

// resetSession drops everything tied to the old credential and shows the
// login form.
func (m *Model) resetSession(reason string) {
	m.closePanel()
	m.modal = nil
	m.showHelp = false
	m.stacks = nil
	m.stacksErr = ""
	m.selectedRow = 0
	m.selectedStack = 0
	m.focus = focusServices
	m.snapshot = state.Snapshot{}
	m.notice = ""
	m.noticeErr = false
	if m.store != nil {
		m.store.Reset()
	}
	m.login = newLoginForm()
	m.login.err = reason
	m.view = ViewLogin
}

func (m Model) busy() bool {
	if m.login.submitting {
		return true
	}
	return m.panel != nil && m.panel.busy()
}

// setNotice shows a transient message in the header.
func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.noticeErr = isErr
	seq := m.noticeSeq
	return tea.Tick(NoticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m *Model) clampSelection() {
	n := len(m.snapshot.Services)
	if m.selectedRow >= n {
		m.selectedRow = max(n-1, 0)
	}
	if m.selectedStack >= len(m.stacks) {
		m.selectedStack = max(len(m.stacks)-1, 0)
	}
}

func (m *Model) suspendPolling() {
	if m.poller != nil {
		m.poller.Suspend()
	}
}

func (m *Model) resumePolling() {
	if m.poller != nil {
		m.poller.Resume()
	}
}

func (m *Model) refreshNow() {
	if m.poller != nil {
		m.poller.Refresh()
	}
}

// renderMain renders the dashboard screen.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// isAuthError reports failures the session watcher already handles.
func isAuthError(err error) bool {
	return errors.Is(err, api.ErrUnauthorized)
}

// Messages

type snapshotMsg state.Snapshot

type sessionExpiredMsg struct{}

type noticeExpiredMsg struct{ seq int }

// Commands

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and wires the session watcher and the
// poller to it. It returns when the program exits or ctx is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx

	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if opts.Watcher != nil {
		unsubscribe := opts.Watcher.Subscribe(func() {
			p.Send(sessionExpiredMsg{})
		})
		defer unsubscribe()
	}

	if opts.Poller != nil && opts.Store != nil {
		store := opts.Store
		opts.Poller.OnUpdate(func() {
			p.Send(snapshotMsg(store.Snapshot()))
		})
		defer opts.Poller.OnUpdate(nil)
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
