// Package grid implements the parametric grid mesh edited on top of an
// image: a list of primary lines whose points form a rectangular lattice of
// common (control) points, optionally refined by interpolated lines and
// points.
//
// Positions in the line and point lists carry meaning. With refinement
// enabled only every Subdivision-th line is a main line and only every
// Subdivision-th slot on a main line holds a common point; everything in
// between is interpolated. Topology questions go through the functions in
// topology.go rather than index arithmetic at the call site.
//
// A Grid is not safe for concurrent use.
package grid

const (
	// Subdivision is the number of cells a refined grid splits each cell into
	// along both directions.
	Subdivision = 4

	// NotFound is returned by index lookups that run off the grid.
	NotFound = -1

	// MinLines is the smallest logical line count along either direction.
	MinLines = 2

	DefaultSpacing        = 20.0
	DefaultPrimaryLines   = 5
	DefaultSecondaryLines = 5
)

// Host is the collaborator that renders and stores the grid.
type Host interface {
	// Repaint is called after every state change.
	Repaint()
	// NotifyCompleted is called once per completed logical edit with the
	// compact form of the grid.
	NotifyCompleted(snapshot []CompactLine)
	// NotifyRemoved is called once when the grid is removed.
	NotifyRemoved()
}

// NopHost ignores all notifications.
type NopHost struct{}

func (NopHost) Repaint()                      {}
func (NopHost) NotifyCompleted([]CompactLine) {}
func (NopHost) NotifyRemoved()                {}

// Grid is the mesh of one image.
type Grid struct {
	lines      []*PrimaryLine
	refinement bool
	spacing    float64

	defaultSpacing   float64
	defaultPrimary   int
	defaultSecondary int

	session Session
	drag    *DragState
	host    Host
}

// Option configures a Grid.
type Option func(*Grid)

// WithHost sets the collaborator notified of changes.
func WithHost(h Host) Option {
	return func(g *Grid) {
		if h != nil {
			g.host = h
		}
	}
}

// WithSpacing sets the default spacing used for placement and restored on removal.
func WithSpacing(s float64) Option {
	return func(g *Grid) {
		if isFinite(s) && s >= 1 {
			g.defaultSpacing = s
		}
	}
}

// WithLineCounts sets the logical line counts used by BeginPlacement.
func WithLineCounts(primary, secondary int) Option {
	return func(g *Grid) {
		g.defaultPrimary = max(primary, MinLines)
		g.defaultSecondary = max(secondary, MinLines)
	}
}

// WithRefinement sets whether the grid starts refined.
func WithRefinement(enabled bool) Option {
	return func(g *Grid) {
		g.refinement = enabled
	}
}

// New returns an empty grid.
func New(opts ...Option) *Grid {
	g := &Grid{
		defaultSpacing:   DefaultSpacing,
		defaultPrimary:   DefaultPrimaryLines,
		defaultSecondary: DefaultSecondaryLines,
		host:             NopHost{},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.spacing = g.defaultSpacing
	return g
}

// Lines returns the live line list for rendering. Callers must not modify it.
func (g *Grid) Lines() []*PrimaryLine {
	return g.lines
}

// Empty reports whether the grid has no lines.
func (g *Grid) Empty() bool {
	return len(g.lines) == 0
}

func (g *Grid) Spacing() float64 {
	return g.spacing
}

func (g *Grid) RefinementEnabled() bool {
	return g.refinement
}

// SetHost replaces the collaborator notified of changes.
func (g *Grid) SetHost(h Host) {
	if h == nil {
		h = NopHost{}
	}
	g.host = h
}

// changed rebuilds adjacency and asks the host to repaint.
func (g *Grid) changed() {
	g.relink()
	g.host.Repaint()
}

// completed closes a logical edit.
func (g *Grid) completed(op string) {
	g.changed()
	Logger().Info("grid edit completed",
		"op", op,
		"primary", g.LogicalPrimaryLineCount(),
		"secondary", g.LogicalSecondaryLineCount(),
		"refinement", g.refinement)
	g.host.NotifyCompleted(g.ExportCompact())
}

func (g *Grid) relink() {
	for i, l := range g.lines {
		for j := range l.Points {
			adj := l.Points[j].Adjacency[:0]
			if j+1 < len(l.Points) {
				adj = append(adj, PointRef{Line: i, Point: j + 1})
			}
			if i+1 < len(g.lines) && j < len(g.lines[i+1].Points) {
				adj = append(adj, PointRef{Line: i + 1, Point: j})
			}
			l.Points[j].Adjacency = adj
		}
	}
}

// point returns the point at ref, or false when ref is outside the grid.
func (g *Grid) point(ref PointRef) (*GridPoint, bool) {
	if ref.Line < 0 || ref.Line >= len(g.lines) {
		return nil, false
	}
	l := g.lines[ref.Line]
	if ref.Point < 0 || ref.Point >= len(l.Points) {
		return nil, false
	}
	return &l.Points[ref.Point], true
}

func (g *Grid) eachPoint(fn func(p *GridPoint)) {
	for _, l := range g.lines {
		for j := range l.Points {
			fn(&l.Points[j])
		}
	}
}
