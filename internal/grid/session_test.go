package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawingSession(t *testing.T) {
	h := &recordingHost{}
	g := New(WithHost(h), WithSpacing(5), WithLineCounts(4, 3))

	require.NoError(t, g.BeginPlacement(Pt(10, 10)))
	assert.Equal(t, Drawing, g.Session())
	assert.Equal(t, 4, g.LogicalPrimaryLineCount())
	assert.Equal(t, 3, g.LogicalSecondaryLineCount())
	drag, ok := g.Drag()
	require.True(t, ok)
	assert.Equal(t, DragState{Line: 0, Point: 1, Mode: DragPoint}, drag)
	assert.True(t, g.Lines()[0].Active)
	assert.Zero(t, h.completed)

	require.NoError(t, g.UpdatePlacement(Pt(10, 40)))
	assert.InDelta(t, 30, g.Spacing(), 1e-9)
	requireSamePoints(t, Pt(10, 40), g.Lines()[0].Points[1].Pos())
	requireSamePoints(t, Pt(40, 10), g.Lines()[1].Points[0].Pos())

	require.NoError(t, g.UpdatePlacement(Pt(10.5, 10)), "too close to resize")
	assert.InDelta(t, 30, g.Spacing(), 1e-9)
	assert.ErrorIs(t, g.UpdatePlacement(Pt(math.Inf(-1), 0)), ErrNotNumeric)

	require.NoError(t, g.EndPlacement())
	assert.Equal(t, Idle, g.Session())
	_, ok = g.Drag()
	assert.False(t, ok)
	assert.False(t, g.Lines()[0].Active)
	assert.Equal(t, 1, h.completed)
	assert.Len(t, h.last, 4)
	requireConsistent(t, g)
}

func TestPlacementErrors(t *testing.T) {
	g := New()
	assert.ErrorIs(t, g.UpdatePlacement(Pt(1, 1)), ErrNoSession)
	assert.ErrorIs(t, g.EndPlacement(), ErrNoSession)
	assert.ErrorIs(t, g.Place(Pt(math.NaN(), 0), 3, 3), ErrNotNumeric)

	require.NoError(t, g.BeginPlacement(Pt(-3, 4)))
	assert.True(t, g.Empty())
	assert.Equal(t, Idle, g.Session())

	require.NoError(t, g.BeginPlacement(Pt(3, 4)))
	assert.ErrorIs(t, g.Place(Pt(0, 0), 3, 3), ErrSessionActive)
	assert.ErrorIs(t, g.BeginDrag(0, 0, DragPoint), ErrSessionActive)
	require.NoError(t, g.EndPlacement())

	assert.ErrorIs(t, g.Place(Pt(0, 0), 3, 3), ErrGridExists)
	assert.ErrorIs(t, g.BeginPlacement(Pt(0, 0)), ErrGridExists)
}

func TestPlaceClampsCounts(t *testing.T) {
	g := New()
	require.NoError(t, g.Place(Pt(0, 0), 0, 1))
	assert.Equal(t, MinLines, g.LogicalPrimaryLineCount())
	assert.Equal(t, MinLines, g.LogicalSecondaryLineCount())
}

func TestDragErrors(t *testing.T) {
	g := New()
	assert.ErrorIs(t, g.BeginDrag(0, 0, DragPoint), ErrEmptyGrid)
	assert.ErrorIs(t, g.DragTo(Pt(1, 1)), ErrNoSession)
	assert.ErrorIs(t, g.EndDrag(), ErrNoSession)

	g, _ = placed(t, 3, 3, 5, WithRefinement(true))
	assert.ErrorIs(t, g.BeginDrag(9, 0, DragPoint), ErrOutOfBounds)
	assert.ErrorIs(t, g.BeginDrag(0, -1, DragPoint), ErrOutOfBounds)
	assert.ErrorIs(t, g.BeginDrag(0, 1, DragPoint), ErrNotCommonPoint)
	assert.ErrorIs(t, g.BeginDrag(1, 0, DragPoint), ErrNotCommonPoint)
	assert.Equal(t, Idle, g.Session())

	require.NoError(t, g.BeginDrag(1, 1, DragGrid))
	assert.ErrorIs(t, g.DragTo(Pt(math.NaN(), 1)), ErrNotNumeric)
	assert.ErrorIs(t, g.BeginPlacement(Pt(0, 0)), ErrSessionActive)
}

func TestDragPointRefined(t *testing.T) {
	g, h := placed(t, 3, 3, 5, WithRefinement(true))

	require.NoError(t, g.BeginDrag(4, 4, DragPoint))
	assert.Equal(t, Modifying, g.Session())
	assert.True(t, g.Lines()[4].Points[4].Active)

	require.NoError(t, g.DragTo(Pt(7, 7)))
	lines := g.Lines()
	requireSamePoints(t, Pt(7, 7), lines[4].Points[4].Pos())
	requireSamePoints(t, Pt(6, 3.5), lines[4].Points[2].Pos())
	requireSamePoints(t, Pt(3.5, 6), lines[2].Points[4].Pos())
	requireConsistent(t, g)
	assert.Zero(t, h.completed)

	require.NoError(t, g.EndDrag())
	assert.Equal(t, Idle, g.Session())
	assert.False(t, g.Lines()[4].Points[4].Active)
	assert.False(t, g.Lines()[4].Active)
	assert.Equal(t, 1, h.completed)
	assert.Positive(t, h.repaints)
}

func TestDragGrid(t *testing.T) {
	g, h := placed(t, 3, 3, 5)

	require.NoError(t, g.BeginDrag(1, 1, DragGrid))
	require.NoError(t, g.DragTo(Pt(20, 20)))
	requireSamePoints(t, Pt(15, 15), g.Lines()[0].Points[0].Pos())
	requireSamePoints(t, Pt(20, 20), g.Lines()[1].Points[1].Pos())

	require.NoError(t, g.DragTo(Pt(-1, 20)))
	requireSamePoints(t, Pt(20, 20), g.Lines()[1].Points[1].Pos())

	require.NoError(t, g.SetOffset(Pt(30, 30), true))
	requireSamePoints(t, Pt(25, 25), g.Lines()[0].Points[0].Pos())
	assert.Equal(t, 1, h.completed)

	require.NoError(t, g.EndDrag())
	assert.Equal(t, 2, h.completed)
}

func TestFinalize(t *testing.T) {
	g, h := placed(t, 3, 3, 5)
	assert.False(t, g.Finalize())

	require.NoError(t, g.BeginDrag(2, 2, DragPoint))
	require.NoError(t, g.DragTo(Pt(12, 12)))
	assert.True(t, g.Finalize())
	assert.Equal(t, Idle, g.Session())
	assert.Equal(t, 1, h.completed)
	got := h.last[2].Points[2]
	requireSamePoints(t, Pt(12, 12), Pt(got.X, got.Y))
	assert.False(t, g.Finalize())

	g = New()
	require.NoError(t, g.BeginPlacement(Pt(0, 0)))
	assert.True(t, g.Finalize())
	assert.Equal(t, Idle, g.Session())
}

func requireNoActive(t *testing.T, g *Grid) {
	t.Helper()
	for i, l := range g.Lines() {
		require.False(t, l.Active, "line %d", i)
		for j, p := range l.Points {
			require.False(t, p.Active, "line %d point %d", i, j)
		}
	}
}

func TestStructuralEditEndsSession(t *testing.T) {
	edits := []struct {
		name    string
		refined bool
		edit    func(g *Grid)
	}{
		{name: "enable refinement", edit: func(g *Grid) { g.SetRefinementEnabled(true) }},
		{name: "disable refinement", refined: true, edit: func(g *Grid) { g.SetRefinementEnabled(false) }},
		{name: "shrink primary", edit: func(g *Grid) { g.SetPrimaryLineCount(2) }},
		{name: "grow primary", refined: true, edit: func(g *Grid) { g.SetPrimaryLineCount(4) }},
		{name: "shrink secondary", refined: true, edit: func(g *Grid) { g.SetSecondaryLineCount(2) }},
		{name: "grow secondary", edit: func(g *Grid) { g.SetSecondaryLineCount(4) }},
	}
	for _, tt := range edits {
		t.Run(tt.name+" while modifying", func(t *testing.T) {
			g, h := placed(t, 3, 3, 5, WithRefinement(tt.refined))
			last := 2
			if tt.refined {
				last = 8
			}
			require.NoError(t, g.BeginDrag(last, last, DragPoint))
			require.NoError(t, g.DragTo(Pt(12, 12)))

			tt.edit(g)
			assert.Equal(t, Idle, g.Session())
			_, ok := g.Drag()
			assert.False(t, ok)
			requireNoActive(t, g)
			requireConsistent(t, g)
			assert.Equal(t, 2, h.completed, "drag then edit")
			assert.ErrorIs(t, g.DragTo(Pt(20, 20)), ErrNoSession)
		})
		t.Run(tt.name+" while drawing", func(t *testing.T) {
			h := &recordingHost{}
			g := New(WithHost(h), WithSpacing(5), WithLineCounts(3, 3), WithRefinement(tt.refined))
			require.NoError(t, g.BeginPlacement(Pt(0, 0)))
			require.NoError(t, g.UpdatePlacement(Pt(0, 10)))

			tt.edit(g)
			assert.Equal(t, Idle, g.Session())
			requireNoActive(t, g)
			requireConsistent(t, g)
			assert.Equal(t, 2, h.completed, "placement then edit")
			assert.ErrorIs(t, g.UpdatePlacement(Pt(0, 20)), ErrNoSession)
		})
	}
}

func TestRefinementKeepsDraggedPoint(t *testing.T) {
	g, _ := placed(t, 3, 3, 5)
	require.NoError(t, g.BeginDrag(1, 1, DragPoint))
	require.NoError(t, g.DragTo(Pt(7, 7)))

	g.SetRefinementEnabled(true)
	requireSamePoints(t, Pt(7, 7), commonGrid(g)[1][1])
	requireSamePoints(t, Pt(7, 7), g.Lines()[4].Points[4].Pos())

	require.NoError(t, g.BeginDrag(8, 8, DragPoint))
	require.NoError(t, g.DragTo(Pt(12, 12)))
	g.SetPrimaryLineCount(2)
	assert.Equal(t, Idle, g.Session())
	assert.ErrorIs(t, g.DragTo(Pt(14, 14)), ErrNoSession)
	requireConsistent(t, g)
}

func TestNoOpEditKeepsSession(t *testing.T) {
	g, _ := placed(t, 3, 3, 5)
	require.NoError(t, g.BeginDrag(1, 1, DragPoint))

	g.SetPrimaryLineCount(3)
	g.SetSecondaryLineCount(1)
	g.SetRefinementEnabled(false)
	assert.Equal(t, Modifying, g.Session())
	require.NoError(t, g.DragTo(Pt(6, 6)))
	require.NoError(t, g.EndDrag())
}

func TestSetHighlight(t *testing.T) {
	g, h := placed(t, 3, 3, 5)

	g.SetHighlight(PointRef{Line: 1, Point: 2})
	assert.True(t, g.Lines()[1].Points[2].Highlight)
	assert.Equal(t, 1, h.repaints)

	g.SetHighlight(PointRef{Line: 1, Point: 2})
	assert.Equal(t, 1, h.repaints)

	g.SetHighlight(PointRef{Line: 0, Point: 0})
	assert.False(t, g.Lines()[1].Points[2].Highlight)
	assert.True(t, g.Lines()[0].Points[0].Highlight)

	g.SetHighlight(PointRef{Line: NotFound, Point: NotFound})
	g.eachPoint(func(p *GridPoint) {
		assert.False(t, p.Highlight)
	})
}

func TestSessionString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "drawing", Drawing.String())
	assert.Equal(t, "modifying", Modifying.String())
	assert.Equal(t, "unknown", Session(7).String())
}
