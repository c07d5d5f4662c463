package grid

import (
	"math"
	"slices"
)

// SetPrimaryLineCount grows or shrinks the grid to n main lines. Counts
// below MinLines are ignored.
func (g *Grid) SetPrimaryLineCount(n int) {
	if g.Empty() {
		return
	}
	if n < MinLines {
		Logger().Debug("primary line count ignored", "n", n)
		return
	}
	if n == g.LogicalPrimaryLineCount() {
		return
	}
	g.endSession()
	for g.LogicalPrimaryLineCount() < n {
		g.growPrimary()
	}
	for g.LogicalPrimaryLineCount() > n {
		g.shrinkPrimary()
	}
	g.completed("primary lines")
}

// SetSecondaryLineCount grows or shrinks every main line to n common
// points. Counts below MinLines are ignored.
func (g *Grid) SetSecondaryLineCount(n int) {
	if g.Empty() {
		return
	}
	if n < MinLines {
		Logger().Debug("secondary line count ignored", "n", n)
		return
	}
	if n == g.LogicalSecondaryLineCount() {
		return
	}
	g.endSession()
	for g.LogicalSecondaryLineCount() < n {
		g.growSecondary()
	}
	for g.LogicalSecondaryLineCount() > n {
		g.shrinkSecondary()
	}
	g.completed("secondary lines")
}

// endSession finalizes an open session before an edit re-indexes lines or
// points, so the drag never refers to a slot that moved.
func (g *Grid) endSession() {
	if g.session != Idle {
		Logger().Debug("session finalized by structural edit", "session", g.session.String())
		g.Finalize()
	}
}

func (g *Grid) growPrimary() {
	last := len(g.structuralMains())
	g.addMainPrimaryLine(len(g.lines), nil)
	if g.refinement {
		g.addRefinementPoints(last, 0)
		g.addSubsidiaryLinesBetween(last-1, last, 0)
	}
}

// shrinkPrimary drops the last main line together with the subsidiary
// lines leading up to it.
func (g *Grid) shrinkPrimary() {
	last := g.PreviousMainLine(len(g.lines))
	prev := g.PreviousMainLine(last)
	if prev == NotFound {
		return
	}
	clear(g.lines[prev+1:])
	g.lines = g.lines[:prev+1]
}

func (g *Grid) growSecondary() {
	lastCommon := g.LogicalSecondaryLineCount() - 1
	g.addSecondaryLine()
	if g.refinement {
		g.addRefinementPoints(0, lastCommon)
		g.addSubsidiaryLinesBetween(0, g.LogicalPrimaryLineCount()-1, lastCommon)
	}
}

// shrinkSecondary drops the last common point of every main line together
// with the slots interpolated towards it, on every line.
func (g *Grid) shrinkSecondary() {
	n := g.LogicalSecondaryLineCount()
	if n <= MinLines-1 {
		return
	}
	keep := g.NthCommonPoint(0, n-2) + 1
	for _, l := range g.lines {
		l.Points = l.Points[:min(keep, len(l.Points))]
	}
}

// SetRefinementEnabled switches refinement on or off. Enabling generates
// every subsidiary line and refinement point; disabling reduces the grid
// to its common points.
func (g *Grid) SetRefinementEnabled(enabled bool) {
	if enabled == g.refinement {
		return
	}
	if g.Empty() {
		g.refinement = enabled
		return
	}
	g.endSession()
	if enabled {
		g.refinement = true
		g.regenerateRefinement()
	} else {
		g.stripRefinement()
		g.refinement = false
	}
	g.completed("refinement")
}

// stripRefinement keeps only common points and drops every line left
// without points, which removes all subsidiary lines.
func (g *Grid) stripRefinement() {
	for i, l := range g.lines {
		kept := l.Points[:0]
		for j, p := range l.Points {
			if g.IsCommonPoint(i, j) {
				kept = append(kept, p)
			}
		}
		clear(l.Points[len(kept):])
		l.Points = kept
	}
	g.lines = slices.DeleteFunc(g.lines, func(l *PrimaryLine) bool {
		return len(l.Points) == 0
	})
}

// SetSpacing rescales the grid about its first point so that both the step
// between main lines and the step between common points measure s, keeping
// the current orientation of each direction. Values below 1 are ignored.
func (g *Grid) SetSpacing(s float64) error {
	if !isFinite(s) {
		return ErrNotNumeric
	}
	if s < 1 {
		Logger().Debug("spacing ignored", "spacing", s)
		return nil
	}
	if g.Empty() {
		g.spacing = s
		return nil
	}
	g.rescale(s)
	g.completed("spacing")
	return nil
}

func (g *Grid) rescale(s float64) {
	anchor := g.lines[0].Points[0].Pos()
	across := Pt(1, 0)
	if m := g.NextMainLine(0); m != NotFound {
		across = g.lines[m].Points[0].Pos().Sub(anchor)
	}
	along := Pt(0, 1)
	if c := g.NthCommonPoint(0, 1); c != NotFound {
		along = g.lines[0].Points[c].Pos().Sub(anchor)
	}
	across = unitOr(across, Pt(1, 0)).Mul(s)
	along = unitOr(along, Pt(0, 1)).Mul(s)

	stride := 1.0
	if g.refinement {
		stride = Subdivision
	}
	for i, l := range g.lines {
		for j := range l.Points {
			l.Points[j].setPos(anchor.
				Add(across.Mul(float64(i) / stride)).
				Add(along.Mul(float64(j) / stride)))
		}
	}
	g.spacing = s
}

func unitOr(v, fallback Point) Point {
	n := v.Length()
	if n == 0 || !isFinite(n) {
		return fallback
	}
	return v.Mul(1 / n)
}

// Rotate turns every point by deg degrees about the grid's middle point.
func (g *Grid) Rotate(deg float64) error {
	if !isFinite(deg) {
		return ErrNotNumeric
	}
	if g.Empty() || deg == 0 {
		return nil
	}
	g.rotate(deg)
	g.completed("rotate")
	return nil
}

func (g *Grid) rotate(deg float64) {
	c, _ := g.MiddlePoint()
	sin, cos := math.Sincos(deg * math.Pi / 180)
	g.eachPoint(func(p *GridPoint) {
		p.setPos(p.Pos().rotateAbout(c, sin, cos))
	})
}

// Angle returns the orientation of the grid in whole degrees: the direction
// from the middle of the first main line to the middle of the grid.
func (g *Grid) Angle() int {
	c, ok := g.MiddlePoint()
	if !ok {
		return 0
	}
	first := g.lines[0].Points
	m := first[0].Pos().Mid(first[len(first)-1].Pos())
	d := c.Sub(m)
	return int(math.Round(math.Atan2(d.Y, d.X) * 180 / math.Pi))
}

// SetAngle rotates the grid to deg degrees. Angles outside 0..90 are ignored.
func (g *Grid) SetAngle(deg float64) error {
	if !isFinite(deg) {
		return ErrNotNumeric
	}
	if deg < 0 || deg > 90 {
		Logger().Debug("angle ignored", "angle", deg)
		return nil
	}
	if g.Empty() {
		return nil
	}
	delta := deg - float64(g.Angle())
	if delta == 0 {
		return nil
	}
	g.rotate(delta)
	g.completed("angle")
	return nil
}

// SetOffset moves the grid so that its first point, or the point under the
// active drag when usingActiveDrag is set, lands on p. Negative coordinates
// are ignored.
func (g *Grid) SetOffset(p Point, usingActiveDrag bool) error {
	if !p.finite() {
		return ErrNotNumeric
	}
	if p.X < 0 || p.Y < 0 {
		Logger().Debug("offset ignored", "x", p.X, "y", p.Y)
		return nil
	}
	if g.Empty() {
		return nil
	}
	if usingActiveDrag && g.drag == nil {
		return ErrNoSession
	}
	if !g.moveTo(p, usingActiveDrag) {
		return nil
	}
	g.completed("offset")
	return nil
}

// moveTo translates the grid and reports whether anything moved.
func (g *Grid) moveTo(p Point, usingActiveDrag bool) bool {
	ref := g.lines[0].Points[0].Pos()
	if usingActiveDrag {
		gp, ok := g.point(PointRef{Line: g.drag.Line, Point: g.drag.Point})
		if !ok {
			return false
		}
		ref = gp.Pos()
	}
	delta := p.Sub(ref)
	if delta == (Point{}) {
		return false
	}
	g.eachPoint(func(gp *GridPoint) {
		gp.setPos(gp.Pos().Add(delta))
	})
	return true
}

// Remove deletes every line and restores the default spacing.
func (g *Grid) Remove() {
	if g.Empty() {
		return
	}
	g.lines = nil
	g.spacing = g.defaultSpacing
	g.drag = nil
	g.session = Idle
	g.host.Repaint()
	Logger().Info("grid removed")
	g.host.NotifyRemoved()
}
