package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Modal is a full-screen dialog that owns the keyboard while open.
// Update returns the updated modal, a command, and whether the modal closed.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}
