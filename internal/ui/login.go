package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nachokhan/peke-panel/internal/api"
	"github.com/nachokhan/peke-panel/internal/logging"
)

const (
	loginUser = iota
	loginPassword
)

// loginForm is the username/password form shown while logged out.
type loginForm struct {
	inputs     [2]textinput.Model
	focus      int
	submitting bool
	err        string
}

func newLoginForm() loginForm {
	user := textinput.New()
	user.Placeholder = "username"
	user.Prompt = "user     "
	user.CharLimit = 128
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.Prompt = "password "
	pass.CharLimit = 256
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return loginForm{inputs: [2]textinput.Model{user, pass}}
}

func (f *loginForm) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f loginForm) credentials() (string, string) {
	return strings.TrimSpace(f.inputs[loginUser].Value()), f.inputs[loginPassword].Value()
}

func (f loginForm) update(msg tea.Msg) (loginForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// handleLoginKey processes keyboard input on the login form.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Tab), msg.String() == "down":
		m.login.setFocus((m.login.focus + 1) % len(m.login.inputs))
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ShiftTab), msg.String() == "up":
		m.login.setFocus((m.login.focus + len(m.login.inputs) - 1) % len(m.login.inputs))
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Confirm):
		user, pass := m.login.credentials()
		if m.login.focus == loginUser && pass == "" {
			m.login.setFocus(loginPassword)
			return m, textinput.Blink
		}
		if user == "" || pass == "" {
			m.login.err = "Username and password are required."
			return m, nil
		}
		m.login.err = ""
		m.login.submitting = true
		return m, tea.Batch(m.loginCmd(user, pass), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.update(msg)
	return m, cmd
}

func (m Model) loginCmd(user, pass string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		if client == nil {
			return loginResultMsg{err: errors.New("no backend configured")}
		}
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		token, err := client.Login(ctx, user, pass)
		return loginResultMsg{user: user, token: token, err: err}
	}
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if msg.err != nil {
		logging.Warn("login failed", "user", msg.user, "error", msg.err)
		m.login.err = loginErrorText(msg.err)
		m.login.inputs[loginPassword].Reset()
		m.login.setFocus(loginPassword)
		return m, textinput.Blink
	}

	if m.session != nil {
		if err := m.session.Login(msg.token); err != nil {
			logging.Error("persist token failed", "error", err)
			m.login.err = fmt.Sprintf("could not save session: %v", err)
			return m, nil
		}
	}

	logging.Info("logged in", "user", msg.user)
	m.login = newLoginForm()
	m.view = ViewDashboard
	m.refreshNow()

	cmds := []tea.Cmd{m.loadStacksCmd()}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return m, tea.Batch(cmds...)
}

func loginErrorText(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Detail != "" {
		return statusErr.Detail
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return "Invalid username or password."
	}
	return fmt.Sprintf("login failed: %v", err)
}

// renderLogin renders the centered login box.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	width := 44

	var b strings.Builder
	b.WriteString(bg.Render("peke", styles.Logo))
	b.WriteString(bg.Render(" · container dashboard", styles.MutedText))
	b.WriteString("\n\n")
	for i, in := range m.login.inputs {
		b.WriteString(in.View())
		if i < len(m.login.inputs)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")

	switch {
	case m.login.submitting:
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Signing in..."))
	case m.login.err != "":
		b.WriteString(styles.DangerText.Render(truncate(m.login.err, width-4)))
	default:
		b.WriteString(styles.FaintText.Render("enter: sign in · tab: next field"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(width).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type loginResultMsg struct {
	user  string
	token string
	err   error
}
