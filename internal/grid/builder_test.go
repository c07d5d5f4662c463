package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceStraightColumns(t *testing.T) {
	g, _ := placed(t, 3, 3, 5)

	require.Len(t, g.Lines(), 3)
	requireSamePoints(t, [][]Point{
		{Pt(0, 0), Pt(0, 5), Pt(0, 10)},
		{Pt(5, 0), Pt(5, 5), Pt(5, 10)},
		{Pt(10, 0), Pt(10, 5), Pt(10, 10)},
	}, commonGrid(g))
	for _, l := range g.Lines() {
		assert.True(t, l.Visible)
		assert.NotEmpty(t, l.UUID)
	}
}

func TestPlaceRefined(t *testing.T) {
	g, _ := placed(t, 3, 3, 5, WithRefinement(true))

	require.Len(t, g.Lines(), 9)
	for i, l := range g.Lines() {
		assert.Len(t, l.Points, 9, "line %d", i)
	}
	requireSamePoints(t, [][]Point{
		{Pt(0, 0), Pt(0, 5), Pt(0, 10)},
		{Pt(5, 0), Pt(5, 5), Pt(5, 10)},
		{Pt(10, 0), Pt(10, 5), Pt(10, 10)},
	}, commonGrid(g))

	requireSamePoints(t, Pt(0, 1.25), g.Lines()[0].Points[1].Pos())
	requireSamePoints(t, Pt(1.25, 0), g.Lines()[1].Points[0].Pos())
	requireSamePoints(t, Pt(7.5, 6.25), g.Lines()[6].Points[5].Pos())
}

func TestFirstLineFromAnchor(t *testing.T) {
	g := New(WithSpacing(5))
	g.addMainPrimaryLine(0, &Point{X: 3, Y: 4})
	requireSamePoints(t, []Point{Pt(3, 4), Pt(3, 9)}, linePoints(g.lines[0]))

	g.addMainPrimaryLine(1, nil)
	requireSamePoints(t, []Point{Pt(8, 4), Pt(8, 9)}, linePoints(g.lines[1]))

	assert.Panics(t, func() {
		New().addMainPrimaryLine(0, nil)
	})
}

func TestExtrapolateAfterRotation(t *testing.T) {
	g, _ := placed(t, 3, 3, 5)
	require.NoError(t, g.Rotate(30))

	g.SetPrimaryLineCount(4)
	requireConsistent(t, g)
	c := commonGrid(g)
	require.Len(t, c, 4)
	for j := range c[3] {
		want := c[2][j].Add(c[2][j].Sub(c[1][j]))
		requireSamePoints(t, want, c[3][j])
	}

	g.SetSecondaryLineCount(4)
	requireConsistent(t, g)
	c = commonGrid(g)
	for i := range c {
		require.Len(t, c[i], 4)
		want := c[i][2].Add(c[i][2].Sub(c[i][1]))
		requireSamePoints(t, want, c[i][3])
	}
}

func TestSubsidiaryLinesInterpolateMains(t *testing.T) {
	g, _ := placed(t, 3, 4, 8, WithRefinement(true))
	require.NoError(t, g.Rotate(17))

	lines := g.Lines()
	for _, m := range []int{0, 4} {
		for k := 1; k < Subdivision; k++ {
			for j := range lines[m+k].Points {
				want := lines[m].Points[j].Pos().Lerp(lines[m+Subdivision].Points[j].Pos(), float64(k)/Subdivision)
				requireSamePoints(t, want, lines[m+k].Points[j].Pos())
			}
		}
	}
}

func TestAdjacency(t *testing.T) {
	g, _ := placed(t, 3, 3, 5)

	lines := g.Lines()
	assert.Equal(t, []PointRef{{Line: 0, Point: 1}, {Line: 1, Point: 0}}, lines[0].Points[0].Adjacency)
	assert.Equal(t, []PointRef{{Line: 2, Point: 1}}, lines[1].Points[1].Adjacency[1:])
	assert.Equal(t, []PointRef{{Line: 2, Point: 2}}, lines[2].Points[1].Adjacency)
	assert.Empty(t, lines[2].Points[2].Adjacency)
}
