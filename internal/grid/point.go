package grid

import "math"

// Point is a position or a displacement in image space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Length returns the euclidean length of p taken as a vector.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Lerp interpolates between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return p.Lerp(q, 0.5)
}

// rotateAbout rotates p around c. sin and cos are those of the rotation angle.
func (p Point) rotateAbout(c Point, sin, cos float64) Point {
	d := p.Sub(c)
	return Point{
		X: c.X + d.X*cos - d.Y*sin,
		Y: c.Y + d.X*sin + d.Y*cos,
	}
}

func (p Point) finite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// PointRef addresses a point by its primary line index and its slot on that line.
type PointRef struct {
	Line  int `json:"line"`
	Point int `json:"point"`
}

// GridPoint is one control (common) or refinement point of a primary line.
// Adjacency lists the neighbours a renderer should connect the point to; it
// is rebuilt after every structural change and carries no topology meaning.
type GridPoint struct {
	X             float64    `json:"x"`
	Y             float64    `json:"y"`
	IsCommonPoint bool       `json:"isCommonPoint"`
	Active        bool       `json:"active"`
	Highlight     bool       `json:"highlight"`
	Adjacency     []PointRef `json:"adjacency,omitempty"`
}

// Pos returns the point's coordinates.
func (gp GridPoint) Pos() Point {
	return Point{X: gp.X, Y: gp.Y}
}

func (gp *GridPoint) setPos(p Point) {
	gp.X, gp.Y = p.X, p.Y
}

func commonPoint(p Point) GridPoint {
	return GridPoint{X: p.X, Y: p.Y, IsCommonPoint: true}
}

func refinementPoint(p Point) GridPoint {
	return GridPoint{X: p.X, Y: p.Y}
}
