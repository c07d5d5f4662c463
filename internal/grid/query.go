package grid

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// CompactPoint is the geometric part of a GridPoint.
type CompactPoint struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	IsCommonPoint bool    `json:"isCommonPoint"`
}

// CompactLine is the minimal snapshot of a primary line used to copy a grid
// between images.
type CompactLine struct {
	UUID   string         `json:"uuid"`
	Points []CompactPoint `json:"points"`
}

// MiddlePoint returns the midpoint between the first point of the first line
// and the last point of the last line.
func (g *Grid) MiddlePoint() (Point, bool) {
	if g.Empty() {
		return Point{}, false
	}
	first := g.lines[0].Points
	last := g.lines[len(g.lines)-1].Points
	if len(first) == 0 || len(last) == 0 {
		return Point{}, false
	}
	return first[0].Pos().Mid(last[len(last)-1].Pos()), true
}

// ExportCompact returns the compact form of every line.
func (g *Grid) ExportCompact() []CompactLine {
	out := make([]CompactLine, 0, len(g.lines))
	for _, l := range g.lines {
		cl := CompactLine{UUID: l.UUID, Points: make([]CompactPoint, len(l.Points))}
		for j, p := range l.Points {
			cl.Points[j] = CompactPoint{X: p.X, Y: p.Y, IsCommonPoint: p.IsCommonPoint}
		}
		out = append(out, cl)
	}
	return out
}

// ExportFull returns a deep copy of every line.
func (g *Grid) ExportFull() []FullLine {
	out := make([]FullLine, 0, len(g.lines))
	for _, l := range g.lines {
		out = append(out, l.clone())
	}
	return out
}

// NearestPoint returns the point closest to p and its distance.
func (g *Grid) NearestPoint(p Point) (PointRef, float64, bool) {
	best, dist := PointRef{Line: NotFound, Point: NotFound}, math.Inf(1)
	for i, l := range g.lines {
		for j := range l.Points {
			if d := l.Points[j].Pos().Sub(p).Length(); d < dist {
				best, dist = PointRef{Line: i, Point: j}, d
			}
		}
	}
	return best, dist, best.Line != NotFound
}

// CloneLines deep-copies lines and gives every copy a fresh UUID.
func CloneLines(lines []CompactLine) []CompactLine {
	out := make([]CompactLine, len(lines))
	for i, l := range lines {
		out[i] = CompactLine{
			UUID:   uuid.NewString(),
			Points: append([]CompactPoint(nil), l.Points...),
		}
	}
	return out
}

// FromCompact rebuilds a grid from its compact form. The lines must follow
// the positional conventions for the given refinement setting. Spacing is
// recovered from the first two common points. Lines without a UUID get one.
func FromCompact(lines []CompactLine, refinement bool, opts ...Option) (*Grid, error) {
	g := New(append(opts, WithRefinement(refinement))...)
	for _, cl := range lines {
		l := &PrimaryLine{UUID: cl.UUID, Visible: true, Points: make([]GridPoint, len(cl.Points))}
		if l.UUID == "" {
			l.UUID = uuid.NewString()
		}
		for j, p := range cl.Points {
			if !isFinite(p.X) || !isFinite(p.Y) {
				return nil, fmt.Errorf("%w: line %s point %d", ErrNotNumeric, cl.UUID, j)
			}
			l.Points[j] = GridPoint{X: p.X, Y: p.Y, IsCommonPoint: p.IsCommonPoint}
		}
		g.lines = append(g.lines, l)
	}
	for i, l := range g.lines {
		l.subsidiary = !g.IsMainLine(i)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if c := g.NthCommonPoint(0, 1); c != NotFound {
		if s := g.lines[0].Points[c].Pos().Sub(g.lines[0].Points[0].Pos()).Length(); s >= 1 {
			g.spacing = s
		}
	}
	g.relink()
	return g, nil
}

// Validate checks the positional invariants: minimum size, equal slot count
// on every line, main lines and common points exactly where the topology
// places them, and a main line at both ends of a refined grid.
func (g *Grid) Validate() error {
	if g.Empty() {
		return nil
	}
	if len(g.lines) < MinLines {
		return fmt.Errorf("%w: %d primary lines", ErrInvalidTopology, len(g.lines))
	}
	if g.refinement && (len(g.lines)-1)%Subdivision != 0 {
		return fmt.Errorf("%w: %d primary lines do not end on a main line", ErrInvalidTopology, len(g.lines))
	}
	slots := len(g.lines[0].Points)
	if slots < MinLines {
		return fmt.Errorf("%w: %d points per line", ErrInvalidTopology, slots)
	}
	if g.refinement && (slots-1)%Subdivision != 0 {
		return fmt.Errorf("%w: %d points per line do not end on a common point", ErrInvalidTopology, slots)
	}
	for i, l := range g.lines {
		if len(l.Points) != slots {
			return fmt.Errorf("%w: line %d has %d points, want %d", ErrInvalidTopology, i, len(l.Points), slots)
		}
		if l.subsidiary == g.IsMainLine(i) {
			return fmt.Errorf("%w: line %d misplaced", ErrInvalidTopology, i)
		}
		for j, p := range l.Points {
			if p.IsCommonPoint != g.IsCommonPoint(i, j) {
				return fmt.Errorf("%w: line %d point %d common=%t", ErrInvalidTopology, i, j, p.IsCommonPoint)
			}
		}
	}
	return nil
}
