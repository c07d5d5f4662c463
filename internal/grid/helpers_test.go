package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

type recordingHost struct {
	repaints  int
	completed int
	removed   int
	last      []CompactLine
}

func (h *recordingHost) Repaint() { h.repaints++ }

func (h *recordingHost) NotifyCompleted(s []CompactLine) {
	h.completed++
	h.last = s
}

func (h *recordingHost) NotifyRemoved() { h.removed++ }

// placed returns a grid of primary x secondary common points anchored at
// the origin.
func placed(t *testing.T, primary, secondary int, spacing float64, opts ...Option) (*Grid, *recordingHost) {
	t.Helper()
	h := &recordingHost{}
	g := New(append([]Option{WithSpacing(spacing), WithHost(h)}, opts...)...)
	require.NoError(t, g.Place(Pt(0, 0), primary, secondary))
	requireConsistent(t, g)
	*h = recordingHost{}
	return g, h
}

// commonGrid returns the common points of every main line.
func commonGrid(g *Grid) [][]Point {
	var out [][]Point
	for _, i := range g.MainLines() {
		var row []Point
		for j := range g.lines[i].Points {
			if g.IsCommonPoint(i, j) {
				row = append(row, g.lines[i].Points[j].Pos())
			}
		}
		out = append(out, row)
	}
	return out
}

func linePoints(l *PrimaryLine) []Point {
	out := make([]Point, len(l.Points))
	for j, p := range l.Points {
		out[j] = p.Pos()
	}
	return out
}

func requireSamePoints(t *testing.T, want, got any) {
	t.Helper()
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}
}

// requireConsistent asserts every positional invariant of a non-transient grid.
func requireConsistent(t *testing.T, g *Grid) {
	t.Helper()
	require.NoError(t, g.Validate())
	if g.Empty() {
		return
	}
	require.Equal(t, g.MainLines(), g.structuralMains(), "built main lines must sit on main indices")

	primary, secondary := g.LogicalPrimaryLineCount(), g.LogicalSecondaryLineCount()
	require.GreaterOrEqual(t, primary, MinLines)
	require.GreaterOrEqual(t, secondary, MinLines)
	for _, i := range g.MainLines() {
		require.Len(t, g.lines[i].commonSlots(), secondary, "line %d", i)
	}
	if g.refinement {
		require.Equal(t, (primary-1)*Subdivision+1, g.TotalPrimaryLineCount())
		require.Equal(t, (secondary-1)*Subdivision+1, g.TotalSecondaryLineCount())
	} else {
		require.Equal(t, primary, g.TotalPrimaryLineCount())
		require.Equal(t, secondary, g.TotalSecondaryLineCount())
	}

	seen := map[string]bool{}
	for i, l := range g.lines {
		require.False(t, seen[l.UUID], "duplicate uuid on line %d", i)
		seen[l.UUID] = true
		for j, p := range l.Points {
			for _, ref := range p.Adjacency {
				_, ok := g.point(ref)
				require.True(t, ok, "line %d point %d links outside the grid: %+v", i, j, ref)
			}
		}
	}
}
