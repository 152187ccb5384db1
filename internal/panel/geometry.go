package panel

import "github.com/nachokhan/peke-panel/internal/logging"

// Kind identifies a panel type. Geometry is persisted per kind, so every
// container shares the last logs panel placement.
type Kind string

const (
	KindLogs  Kind = "logs"
	KindShell Kind = "shell"
)

// Geometry is a panel rectangle in terminal cells.
type Geometry struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// Point is a pointer position in terminal cells.
type Point struct {
	X int
	Y int
}

// Chrome holds measured heights of the fixed panel rows.
type Chrome struct {
	Header  int
	Toolbar int
	Input   int
	Frame   int
}

// Region classifies a point relative to the panel frame.
type Region int

const (
	RegionOutside Region = iota
	RegionBody
	RegionHeader
	RegionHandle
)

// GeometryStore persists geometry by panel kind.
type GeometryStore interface {
	LoadGeometry(kind Kind) (Geometry, bool)
	SaveGeometry(kind Kind, g Geometry) error
}

const (
	// MinWidth is fixed so long titles or commands never force lateral growth.
	MinWidth = 40
	// minHeightFloor applies before any chrome has been measured.
	minHeightFloor = 10
	// headerRows covers the top border and the title row.
	headerRows = 2
	// handleCols is the width of the bottom-right resize grip.
	handleCols = 2
)

// DefaultGeometry returns the built-in placement for kind.
func DefaultGeometry(kind Kind) Geometry {
	switch kind {
	case KindShell:
		return Geometry{Top: 6, Left: 12, Width: 80, Height: 20}
	default:
		return Geometry{Top: 4, Left: 8, Width: 90, Height: 24}
	}
}

// contentMargin is the number of body rows that must stay visible.
func contentMargin(kind Kind) int {
	if kind == KindShell {
		return 5
	}
	return 6
}

type interaction int

const (
	idle interaction = iota
	dragging
	resizing
)

// GeometryController owns a panel's rectangle and the pointer gesture
// currently acting on it.
type GeometryController struct {
	kind  Kind
	store GeometryStore

	geo       Geometry
	minWidth  int
	minHeight int

	mode        interaction
	dragOffset  Point
	startSize   Point
	startCursor Point
}

// NewGeometryController restores the persisted geometry for kind, falling
// back to defaults. store may be nil.
func NewGeometryController(kind Kind, store GeometryStore) *GeometryController {
	c := &GeometryController{
		kind:      kind,
		store:     store,
		minWidth:  MinWidth,
		minHeight: minHeightFloor,
	}
	geo := DefaultGeometry(kind)
	if store != nil {
		if saved, ok := store.LoadGeometry(kind); ok {
			geo = saved
		}
	}
	c.geo = c.clamp(geo)
	return c
}

// Kind returns the panel kind.
func (c *GeometryController) Kind() Kind { return c.kind }

// Geometry returns the current rectangle.
func (c *GeometryController) Geometry() Geometry { return c.geo }

// MinSize returns the current minimum width and height.
func (c *GeometryController) MinSize() (int, int) { return c.minWidth, c.minHeight }

// Active reports whether a drag or resize is in progress.
func (c *GeometryController) Active() bool { return c.mode != idle }

// Dragging reports whether a drag is in progress.
func (c *GeometryController) Dragging() bool { return c.mode == dragging }

// Resizing reports whether a resize is in progress.
func (c *GeometryController) Resizing() bool { return c.mode == resizing }

// HitTest classifies p against the frame.
func (c *GeometryController) HitTest(p Point) Region {
	g := c.geo
	if p.X < g.Left || p.X >= g.Left+g.Width || p.Y < g.Top || p.Y >= g.Top+g.Height {
		return RegionOutside
	}
	if p.Y == g.Top+g.Height-1 && p.X >= g.Left+g.Width-handleCols {
		return RegionHandle
	}
	if p.Y < g.Top+headerRows {
		return RegionHeader
	}
	return RegionBody
}

// PointerDown starts whichever interaction the region under p allows and
// returns the region that was hit.
func (c *GeometryController) PointerDown(p Point) Region {
	region := c.HitTest(p)
	switch region {
	case RegionHeader:
		c.BeginDrag(p)
	case RegionHandle:
		c.BeginResize(p)
	}
	return region
}

// BeginDrag starts a move if p is in the header and nothing else is active.
func (c *GeometryController) BeginDrag(p Point) bool {
	if c.mode != idle || c.HitTest(p) != RegionHeader {
		return false
	}
	c.mode = dragging
	c.dragOffset = Point{X: p.X - c.geo.Left, Y: p.Y - c.geo.Top}
	return true
}

// BeginResize starts a resize if p is on the handle and nothing else is
// active.
func (c *GeometryController) BeginResize(p Point) bool {
	if c.mode != idle || c.HitTest(p) != RegionHandle {
		return false
	}
	c.mode = resizing
	c.startSize = Point{X: c.geo.Width, Y: c.geo.Height}
	c.startCursor = p
	return true
}

// Move applies a pointer motion to the active interaction. It reports
// whether the geometry changed.
func (c *GeometryController) Move(p Point) bool {
	prev := c.geo
	switch c.mode {
	case dragging:
		c.geo.Left = max(0, p.X-c.dragOffset.X)
		c.geo.Top = max(0, p.Y-c.dragOffset.Y)
	case resizing:
		c.geo.Width = max(c.minWidth, c.startSize.X+p.X-c.startCursor.X)
		c.geo.Height = max(c.minHeight, c.startSize.Y+p.Y-c.startCursor.Y)
	default:
		return false
	}
	return c.geo != prev
}

// End finishes the active interaction and persists the geometry. It returns
// false without touching anything when no interaction was active.
func (c *GeometryController) End() bool {
	if c.mode == idle {
		return false
	}
	c.mode = idle
	c.persist()
	return true
}

// RecomputeMinSize derives the minimum height from measured chrome and grows
// the panel if it no longer fits. Width is never affected by content.
func (c *GeometryController) RecomputeMinSize(ch Chrome) {
	c.minWidth = MinWidth
	c.minHeight = MinHeightFor(c.kind, ch)
	c.geo = c.clamp(c.geo)
}

// MinHeightFor is the pure minimum height computation.
func MinHeightFor(kind Kind, ch Chrome) int {
	return max(minHeightFloor, ch.Header+ch.Toolbar+ch.Input+ch.Frame+contentMargin(kind))
}

func (c *GeometryController) clamp(g Geometry) Geometry {
	g.Top = max(0, g.Top)
	g.Left = max(0, g.Left)
	g.Width = max(c.minWidth, g.Width)
	g.Height = max(c.minHeight, g.Height)
	return g
}

func (c *GeometryController) persist() {
	if c.store == nil {
		return
	}
	if err := c.store.SaveGeometry(c.kind, c.geo); err != nil {
		logging.Warn("save panel geometry failed", "kind", c.kind, "error", err)
	}
}
