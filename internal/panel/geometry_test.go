package panel

import (
	"errors"
	"math/rand/v2"
	"testing"
)

type memoryStore struct {
	saved map[Kind]Geometry
	saves int
	err   error
}

func (s *memoryStore) LoadGeometry(kind Kind) (Geometry, bool) {
	g, ok := s.saved[kind]
	return g, ok
}

func (s *memoryStore) SaveGeometry(kind Kind, g Geometry) error {
	s.saves++
	if s.err != nil {
		return s.err
	}
	if s.saved == nil {
		s.saved = map[Kind]Geometry{}
	}
	s.saved[kind] = g
	return nil
}

func TestNewGeometryController_UsesDefaultsWithoutStore(t *testing.T) {
	c := NewGeometryController(KindLogs, nil)
	if got, want := c.Geometry(), DefaultGeometry(KindLogs); got != want {
		t.Fatalf("Geometry = %+v, want %+v", got, want)
	}
	c = NewGeometryController(KindShell, &memoryStore{})
	if got, want := c.Geometry(), DefaultGeometry(KindShell); got != want {
		t.Fatalf("Geometry = %+v, want %+v", got, want)
	}
}

func TestNewGeometryController_ClampsPersistedGeometry(t *testing.T) {
	store := &memoryStore{saved: map[Kind]Geometry{
		KindLogs: {Top: -3, Left: 2, Width: 5, Height: 1},
	}}
	c := NewGeometryController(KindLogs, store)
	want := Geometry{Top: 0, Left: 2, Width: MinWidth, Height: minHeightFloor}
	if got := c.Geometry(); got != want {
		t.Fatalf("Geometry = %+v, want %+v", got, want)
	}
}

func TestHitTest(t *testing.T) {
	c := NewGeometryController(KindLogs, nil) // {4, 8, 90, 24}
	tests := []struct {
		name string
		p    Point
		want Region
	}{
		{"above", Point{X: 10, Y: 3}, RegionOutside},
		{"left of frame", Point{X: 7, Y: 5}, RegionOutside},
		{"border row", Point{X: 8, Y: 4}, RegionHeader},
		{"title row", Point{X: 50, Y: 5}, RegionHeader},
		{"body", Point{X: 50, Y: 6}, RegionBody},
		{"bottom border", Point{X: 50, Y: 27}, RegionBody},
		{"handle", Point{X: 96, Y: 27}, RegionHandle},
		{"handle corner", Point{X: 97, Y: 27}, RegionHandle},
		{"right of frame", Point{X: 98, Y: 27}, RegionOutside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.HitTest(tt.p); got != tt.want {
				t.Fatalf("HitTest(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDrag_MovesByOffsetAndClampsAtZero(t *testing.T) {
	c := NewGeometryController(KindLogs, nil)
	if !c.BeginDrag(Point{X: 10, Y: 4}) {
		t.Fatalf("BeginDrag from header returned false")
	}
	c.Move(Point{X: 30, Y: 20})
	g := c.Geometry()
	if g.Left != 28 || g.Top != 20 {
		t.Fatalf("after move Left,Top = %d,%d, want 28,20", g.Left, g.Top)
	}
	c.Move(Point{X: 1, Y: 0})
	g = c.Geometry()
	if g.Left != 0 || g.Top != 0 {
		t.Fatalf("after move past origin Left,Top = %d,%d, want 0,0", g.Left, g.Top)
	}
	c.Move(Point{X: 500, Y: 300})
	g = c.Geometry()
	if g.Left != 498 || g.Top != 300 {
		t.Fatalf("panel clamped at far edge: %+v", g)
	}
	if g.Width != 90 || g.Height != 24 {
		t.Fatalf("drag changed size: %+v", g)
	}
}

func TestDrag_RejectedOutsideHeader(t *testing.T) {
	c := NewGeometryController(KindLogs, nil)
	if c.BeginDrag(Point{X: 20, Y: 10}) {
		t.Fatalf("BeginDrag from body returned true")
	}
	if c.Move(Point{X: 0, Y: 0}) {
		t.Fatalf("Move without interaction changed geometry")
	}
}

func TestResize_ClampsToMinimum(t *testing.T) {
	c := NewGeometryController(KindLogs, nil)
	if !c.BeginResize(Point{X: 97, Y: 27}) {
		t.Fatalf("BeginResize from handle returned false")
	}
	c.Move(Point{X: 107, Y: 30})
	g := c.Geometry()
	if g.Width != 100 || g.Height != 27 {
		t.Fatalf("after grow Width,Height = %d,%d, want 100,27", g.Width, g.Height)
	}
	c.Move(Point{X: 0, Y: 0})
	g = c.Geometry()
	minW, minH := c.MinSize()
	if g.Width != minW || g.Height != minH {
		t.Fatalf("after shrink Width,Height = %d,%d, want %d,%d", g.Width, g.Height, minW, minH)
	}
	if g.Top != 4 || g.Left != 8 {
		t.Fatalf("resize moved the panel: %+v", g)
	}
}

func TestPointerDown_OnlyOneInteraction(t *testing.T) {
	c := NewGeometryController(KindLogs, nil)
	if region := c.PointerDown(Point{X: 10, Y: 4}); region != RegionHeader {
		t.Fatalf("PointerDown region = %v, want header", region)
	}
	if c.BeginResize(Point{X: 97, Y: 27}) {
		t.Fatalf("BeginResize succeeded during drag")
	}
	if !c.Dragging() || c.Resizing() {
		t.Fatalf("Dragging=%v Resizing=%v, want drag only", c.Dragging(), c.Resizing())
	}
}

func TestEnd_PersistsOnlyAfterGesture(t *testing.T) {
	store := &memoryStore{}
	c := NewGeometryController(KindShell, store)

	if c.End() {
		t.Fatalf("End without gesture returned true")
	}
	if store.saves != 0 {
		t.Fatalf("End without gesture wrote to store")
	}
	before := c.Geometry()

	c.PointerDown(Point{X: 0, Y: 0})
	if c.End() {
		t.Fatalf("End after press outside the panel returned true")
	}
	if c.Geometry() != before {
		t.Fatalf("geometry changed without a gesture")
	}

	c.PointerDown(Point{X: 13, Y: 6})
	c.Move(Point{X: 20, Y: 9})
	if !c.End() {
		t.Fatalf("End after drag returned false")
	}
	if store.saves != 1 {
		t.Fatalf("saves = %d, want 1", store.saves)
	}
	if c.Active() {
		t.Fatalf("interaction still active after End")
	}
}

func TestEnd_SaveErrorIsNotFatal(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}
	c := NewGeometryController(KindLogs, store)
	c.PointerDown(Point{X: 10, Y: 4})
	if !c.End() {
		t.Fatalf("End returned false")
	}
}

func TestGeometry_RoundTripThroughStore(t *testing.T) {
	store := &memoryStore{}
	c := NewGeometryController(KindLogs, store)
	c.PointerDown(Point{X: 10, Y: 4})
	c.Move(Point{X: 15, Y: 9})
	c.End()
	c.PointerDown(Point{X: c.Geometry().Left + c.Geometry().Width - 1, Y: c.Geometry().Top + c.Geometry().Height - 1})
	c.Move(Point{X: 200, Y: 200})
	c.End()

	reopened := NewGeometryController(KindLogs, store)
	if reopened.Geometry() != c.Geometry() {
		t.Fatalf("reloaded geometry = %+v, want %+v", reopened.Geometry(), c.Geometry())
	}
	other := NewGeometryController(KindShell, store)
	if other.Geometry() != DefaultGeometry(KindShell) {
		t.Fatalf("shell panel picked up logs geometry: %+v", other.Geometry())
	}
}

func TestGestures_NeverBreakMinimumSize(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	store := &memoryStore{}
	c := NewGeometryController(KindShell, store)

	for i := 0; i < 500; i++ {
		g := c.Geometry()
		var start Point
		switch rng.IntN(3) {
		case 0:
			start = Point{X: g.Left + rng.IntN(g.Width), Y: g.Top + rng.IntN(headerRows)}
		case 1:
			start = Point{X: g.Left + g.Width - 1, Y: g.Top + g.Height - 1}
		default:
			start = Point{X: rng.IntN(200), Y: rng.IntN(80)}
		}
		c.PointerDown(start)
		for j := 0; j < 1+rng.IntN(5); j++ {
			c.Move(Point{X: rng.IntN(300) - 50, Y: rng.IntN(120) - 20})
		}
		if rng.IntN(4) == 0 {
			c.RecomputeMinSize(Chrome{Header: 2, Toolbar: 1, Input: 1 + rng.IntN(8), Frame: 2})
		}
		c.End()

		g = c.Geometry()
		minW, minH := c.MinSize()
		if g.Width < minW || g.Height < minH || g.Top < 0 || g.Left < 0 {
			t.Fatalf("step %d: geometry %+v violates min %dx%d", i, g, minW, minH)
		}
	}
}

func TestRecomputeMinSize(t *testing.T) {
	c := NewGeometryController(KindShell, nil)
	c.RecomputeMinSize(Chrome{Header: 2, Toolbar: 1, Input: 3, Frame: 2})
	if _, h := c.MinSize(); h != 13 {
		t.Fatalf("MinHeight = %d, want 13", h)
	}
	if c.Geometry().Height != 20 {
		t.Fatalf("Height = %d, want unchanged 20", c.Geometry().Height)
	}

	c.RecomputeMinSize(Chrome{Header: 2, Toolbar: 1, Input: 12, Frame: 2})
	if _, h := c.MinSize(); h != 22 {
		t.Fatalf("MinHeight = %d, want 22", h)
	}
	if c.Geometry().Height != 22 {
		t.Fatalf("Height = %d, want grown to 22", c.Geometry().Height)
	}
	if w, _ := c.MinSize(); w != MinWidth {
		t.Fatalf("MinWidth = %d, want constant %d", w, MinWidth)
	}
}

func TestMinHeightFor(t *testing.T) {
	tests := []struct {
		kind Kind
		ch   Chrome
		want int
	}{
		{KindLogs, Chrome{}, minHeightFloor},
		{KindLogs, Chrome{Header: 2, Toolbar: 1, Frame: 2}, 11},
		{KindShell, Chrome{Header: 2, Toolbar: 1, Input: 1, Frame: 2}, 11},
		{KindShell, Chrome{Header: 1}, minHeightFloor},
	}
	for _, tt := range tests {
		if got := MinHeightFor(tt.kind, tt.ch); got != tt.want {
			t.Errorf("MinHeightFor(%s, %+v) = %d, want %d", tt.kind, tt.ch, got, tt.want)
		}
	}
}
