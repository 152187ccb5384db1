package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Logout     key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Confirm    key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Dashboard actions
	Start     key.Binding
	Stop      key.Binding
	Restart   key.Binding
	Reload    key.Binding
	OpenLogs  key.Binding
	OpenShell key.Binding

	// Panel actions
	Search        key.Binding
	ShellSearch   key.Binding
	NextMatch     key.Binding
	PrevMatch     key.Binding
	NextMatchAlt  key.Binding
	PrevMatchAlt  key.Binding
	RefreshLogs   key.Binding
	CycleLines    key.Binding
	CopyLogs      key.Binding
	ExportLogs    key.Binding
	ClosePanel    key.Binding
	SubmitCommand key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Log out"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Switch pane"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Switch pane"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open stack"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Stop"),
		),
		Restart: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Restart"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Reload now"),
		),
		OpenLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Logs panel"),
		),
		OpenShell: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Shell panel"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		ShellSearch: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "Search transcript"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Previous match"),
		),
		NextMatchAlt: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "Next match"),
		),
		PrevMatchAlt: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Previous match"),
		),
		RefreshLogs: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh logs"),
		),
		CycleLines: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "More lines"),
		),
		CopyLogs: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Copy logs"),
		),
		ExportLogs: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Export logs"),
		),
		ClosePanel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close panel"),
		),
		SubmitCommand: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Run command"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Tab, k.Confirm},
		{k.Start, k.Stop, k.Restart, k.Reload, k.OpenLogs, k.OpenShell},
		{k.Search, k.NextMatch, k.PrevMatch, k.RefreshLogs, k.CycleLines, k.CopyLogs, k.ExportLogs},
		{k.SubmitCommand, k.ShellSearch, k.NextMatchAlt, k.PrevMatchAlt, k.ClosePanel},
		{k.CycleTheme, k.Logout, k.Help, k.Quit},
	}
}
