package grid

// Session is the edit session a grid is in. Only one session runs at a time.
type Session int

const (
	Idle Session = iota
	// Drawing is the initial placement of a grid.
	Drawing
	// Modifying is a drag of a point or of the whole grid.
	Modifying
)

func (s Session) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Modifying:
		return "modifying"
	}
	return "unknown"
}

// DragMode selects what a drag moves.
type DragMode int

const (
	// DragPoint moves a single common point.
	DragPoint DragMode = iota
	// DragGrid translates the whole grid along with the grabbed point.
	DragGrid
)

// DragState identifies the point under an active drag.
type DragState struct {
	Line  int
	Point int
	Mode  DragMode
}

// Session returns the current edit session.
func (g *Grid) Session() Session {
	return g.session
}

// Drag returns the active drag, if any.
func (g *Grid) Drag() (DragState, bool) {
	if g.drag == nil {
		return DragState{}, false
	}
	return *g.drag, true
}

// Place builds a grid of primary x secondary common points at anchor in a
// single edit.
func (g *Grid) Place(anchor Point, primary, secondary int) error {
	if err := g.checkPlacement(anchor); err != nil {
		return err
	}
	if anchor.X < 0 || anchor.Y < 0 {
		Logger().Debug("placement ignored", "x", anchor.X, "y", anchor.Y)
		return nil
	}
	g.place(anchor, primary, secondary)
	g.completed("place")
	return nil
}

// BeginPlacement starts the Drawing session: a grid with the default line
// counts is built at anchor and follows UpdatePlacement until EndPlacement.
func (g *Grid) BeginPlacement(anchor Point) error {
	if err := g.checkPlacement(anchor); err != nil {
		return err
	}
	if anchor.X < 0 || anchor.Y < 0 {
		Logger().Debug("placement ignored", "x", anchor.X, "y", anchor.Y)
		return nil
	}
	g.place(anchor, g.defaultPrimary, g.defaultSecondary)
	g.session = Drawing
	g.drag = &DragState{Line: 0, Point: g.NthCommonPoint(0, 1), Mode: DragPoint}
	g.lines[0].Active = true
	g.changed()
	return nil
}

func (g *Grid) checkPlacement(anchor Point) error {
	if g.session != Idle {
		return ErrSessionActive
	}
	if !anchor.finite() {
		return ErrNotNumeric
	}
	if !g.Empty() {
		return ErrGridExists
	}
	return nil
}

// UpdatePlacement sizes the grid being drawn so that its second common point
// on the first line sits at the distance of p from the anchor.
func (g *Grid) UpdatePlacement(p Point) error {
	if g.session != Drawing {
		return ErrNoSession
	}
	if !p.finite() {
		return ErrNotNumeric
	}
	d := p.Sub(g.lines[0].Points[0].Pos()).Length()
	if d < 1 {
		return nil
	}
	g.rescale(d)
	g.changed()
	return nil
}

// EndPlacement completes the Drawing session.
func (g *Grid) EndPlacement() error {
	if g.session != Drawing {
		return ErrNoSession
	}
	g.finish()
	g.completed("place")
	return nil
}

// BeginDrag starts the Modifying session on the point at (line, point).
func (g *Grid) BeginDrag(line, point int, mode DragMode) error {
	if g.session != Idle {
		return ErrSessionActive
	}
	if g.Empty() {
		return ErrEmptyGrid
	}
	gp, ok := g.point(PointRef{Line: line, Point: point})
	if !ok {
		return ErrOutOfBounds
	}
	if mode == DragPoint && !g.IsCommonPoint(line, point) {
		return ErrNotCommonPoint
	}
	g.session = Modifying
	g.drag = &DragState{Line: line, Point: point, Mode: mode}
	g.lines[line].Active = true
	gp.Active = true
	g.changed()
	return nil
}

// DragTo moves the dragged point, or the whole grid, to p.
func (g *Grid) DragTo(p Point) error {
	if g.session != Modifying {
		return ErrNoSession
	}
	if !p.finite() {
		return ErrNotNumeric
	}
	switch g.drag.Mode {
	case DragGrid:
		if p.X < 0 || p.Y < 0 || !g.moveTo(p, true) {
			return nil
		}
	default:
		gp, ok := g.point(PointRef{Line: g.drag.Line, Point: g.drag.Point})
		if !ok {
			return ErrOutOfBounds
		}
		gp.setPos(p)
		if g.refinement {
			g.regenerateRefinement()
		}
	}
	g.changed()
	return nil
}

// EndDrag completes the Modifying session.
func (g *Grid) EndDrag() error {
	if g.session != Modifying {
		return ErrNoSession
	}
	op := "drag point"
	if g.drag.Mode == DragGrid {
		op = "drag grid"
	}
	g.finish()
	g.completed(op)
	return nil
}

// Finalize completes whatever session is active and reports whether there
// was one. Hosts call it before leaving the image the grid belongs to.
func (g *Grid) Finalize() bool {
	switch g.session {
	case Drawing:
		_ = g.EndPlacement()
	case Modifying:
		_ = g.EndDrag()
	default:
		return false
	}
	return true
}

func (g *Grid) finish() {
	if g.drag != nil {
		if l := g.drag.Line; l >= 0 && l < len(g.lines) {
			g.lines[l].Active = false
		}
		if gp, ok := g.point(PointRef{Line: g.drag.Line, Point: g.drag.Point}); ok {
			gp.Active = false
		}
	}
	g.drag = nil
	g.session = Idle
}

// SetHighlight marks the point at ref as highlighted and clears every other
// highlight. A ref outside the grid clears them all.
func (g *Grid) SetHighlight(ref PointRef) {
	changed := false
	for i, l := range g.lines {
		for j := range l.Points {
			want := i == ref.Line && j == ref.Point
			if l.Points[j].Highlight != want {
				l.Points[j].Highlight = want
				changed = true
			}
		}
	}
	if changed {
		g.host.Repaint()
	}
}
