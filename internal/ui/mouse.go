package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nachokhan/peke-panel/internal/logging"
	"github.com/nachokhan/peke-panel/internal/panel"
)

// wheelLines is how far one wheel notch scrolls a panel body.
const wheelLines = 3

// handleMouse routes pointer events. An open panel captures every event so
// a drag that leaves the frame keeps tracking.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.view != ViewDashboard || m.showHelp || m.modal != nil {
		return m, nil
	}
	if m.panel != nil {
		m.handlePanelMouse(msg)
		return m, nil
	}
	m.handleDashboardMouse(msg)
	return m, nil
}

func (m *Model) handlePanelMouse(msg tea.MouseMsg) {
	p := m.panel
	pt := panel.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			region := p.geo.PointerDown(pt)
			logging.Debug("panel pointer down", "kind", p.kind, "region", region)
		case tea.MouseButtonWheelUp:
			if p.geo.HitTest(pt) == panel.RegionBody {
				p.viewport.ScrollUp(wheelLines)
			}
		case tea.MouseButtonWheelDown:
			if p.geo.HitTest(pt) == panel.RegionBody {
				p.viewport.ScrollDown(wheelLines)
			}
		}

	case tea.MouseActionMotion:
		if !p.geo.Move(pt) {
			return
		}
		if p.geo.Resizing() {
			p.layout(m.theme)
		}

	case tea.MouseActionRelease:
		if p.geo.End() {
			g := p.geo.Geometry()
			logging.Debug("panel geometry saved", "kind", p.kind, "top", g.Top, "left", g.Left, "width", g.Width, "height", g.Height)
		}
	}
}

// handleDashboardMouse selects rows on click and moves the selection with
// the wheel.
func (m *Model) handleDashboardMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}

	sidebar := m.width >= LayoutCompactWidth
	inSidebar := sidebar && msg.X < SidebarWidth

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if inSidebar {
			m.selectedStack = max(m.selectedStack-1, 0)
		} else if m.selectedRow > 0 {
			m.selectedRow--
		}
		return
	case tea.MouseButtonWheelDown:
		if inSidebar {
			m.selectedStack = max(min(m.selectedStack+1, len(m.stacks)-1), 0)
		} else {
			m.selectedRow = max(min(m.selectedRow+1, len(m.snapshot.Services)-1), 0)
		}
		return
	case tea.MouseButtonLeft:
	default:
		return
	}

	// Rows start below the header rows and the box border.
	visible := max(m.height-chromeRows, 3) - 2
	offset := msg.Y - chromeRows - 1
	if offset < 0 || offset >= visible {
		return
	}

	if inSidebar {
		idx := scrollStart(len(m.stacks), visible, m.selectedStack) + offset
		if idx < len(m.stacks) {
			m.focus = focusStacks
			m.selectedStack = idx
		}
		return
	}

	if !m.snapshot.HasStatus || len(m.snapshot.Services) == 0 {
		return
	}
	// The first table line is the column header.
	idx := scrollStart(len(m.snapshot.Services)+1, visible, m.selectedRow+1) + offset - 1
	if idx >= 0 && idx < len(m.snapshot.Services) {
		m.focus = focusServices
		m.selectedRow = idx
	}
}
