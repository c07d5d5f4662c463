package grid

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlePoint(t *testing.T) {
	_, ok := New().MiddlePoint()
	assert.False(t, ok)

	g, _ := placed(t, 3, 3, 5)
	m, ok := g.MiddlePoint()
	require.True(t, ok)
	requireSamePoints(t, Pt(5, 5), m)
}

func TestNearestPoint(t *testing.T) {
	_, _, ok := New().NearestPoint(Pt(1, 1))
	assert.False(t, ok)

	g, _ := placed(t, 3, 3, 5)
	ref, d, ok := g.NearestPoint(Pt(6, 4))
	require.True(t, ok)
	assert.Equal(t, PointRef{Line: 1, Point: 1}, ref)
	assert.InDelta(t, math.Sqrt2, d, 1e-9)
}

func TestExportCompact(t *testing.T) {
	empty := New().ExportCompact()
	require.NotNil(t, empty)
	b, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	g, _ := placed(t, 2, 2, 5)
	b, err = json.Marshal(g.ExportCompact())
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, g.Lines()[0].UUID, decoded[0]["uuid"])
	pts := decoded[1]["points"].([]any)
	require.Len(t, pts, 2)
	assert.Equal(t, map[string]any{"x": 5.0, "y": 5.0, "isCommonPoint": true}, pts[1])
}

func TestExportFullIsCopy(t *testing.T) {
	g, _ := placed(t, 2, 2, 5)
	full := g.ExportFull()
	require.Len(t, full, 2)
	assert.Equal(t, g.Lines()[0].UUID, full[0].UUID)
	assert.NotEmpty(t, full[0].Points[0].Adjacency)

	full[0].Points[0].X = 99
	full[0].Points[0].Adjacency[0].Line = 7
	assert.Equal(t, 0.0, g.Lines()[0].Points[0].X)
	assert.Equal(t, 0, g.Lines()[0].Points[0].Adjacency[0].Line)
}

func TestCloneLines(t *testing.T) {
	g, _ := placed(t, 3, 2, 5)
	src := g.ExportCompact()

	clone := CloneLines(src)
	require.Len(t, clone, len(src))
	for i := range src {
		assert.NotEqual(t, src[i].UUID, clone[i].UUID)
		assert.Equal(t, src[i].Points, clone[i].Points)
	}
	clone[0].Points[0].X = 42
	assert.Equal(t, 0.0, src[0].Points[0].X)
}

func TestFromCompactRoundTrip(t *testing.T) {
	for _, refined := range []bool{false, true} {
		g, _ := placed(t, 4, 3, 6, WithRefinement(refined))
		require.NoError(t, g.Rotate(33))
		src := g.ExportCompact()

		got, err := FromCompact(src, refined)
		require.NoError(t, err)
		requireConsistent(t, got)
		assert.Equal(t, refined, got.RefinementEnabled())
		assert.InDelta(t, 6, got.Spacing(), 1e-9)
		if diff := cmp.Diff(src, got.ExportCompact()); diff != "" {
			t.Errorf("refined=%t (-want +got):\n%s", refined, diff)
		}
		assert.NotEmpty(t, got.Lines()[0].Points[0].Adjacency)
	}
}

func TestFromCompactRejects(t *testing.T) {
	g, _ := placed(t, 3, 3, 5, WithRefinement(true))
	refined := g.ExportCompact()

	_, err := FromCompact(refined, false)
	assert.ErrorIs(t, err, ErrInvalidTopology, "refined lines read as unrefined")

	_, err = FromCompact(refined[:8], true)
	assert.ErrorIs(t, err, ErrInvalidTopology, "ends on a subsidiary line")

	_, err = FromCompact(refined[:1], true)
	assert.ErrorIs(t, err, ErrInvalidTopology)

	plain := []CompactLine{
		{Points: []CompactPoint{{X: 0, Y: 0, IsCommonPoint: true}, {X: 0, Y: 5, IsCommonPoint: true}}},
		{Points: []CompactPoint{{X: 5, Y: 0, IsCommonPoint: true}}},
	}
	_, err = FromCompact(plain, false)
	assert.ErrorIs(t, err, ErrInvalidTopology, "unequal slot counts")

	plain[1].Points = append(plain[1].Points, CompactPoint{X: math.NaN(), Y: 5, IsCommonPoint: true})
	_, err = FromCompact(plain, false)
	assert.ErrorIs(t, err, ErrNotNumeric)

	plain[1].Points[1].X = 5
	got, err := FromCompact(plain, false)
	require.NoError(t, err)
	assert.NotEmpty(t, got.Lines()[0].UUID)
	assert.NotEqual(t, got.Lines()[0].UUID, got.Lines()[1].UUID)
}

func TestFromCompactEmpty(t *testing.T) {
	g, err := FromCompact(nil, true)
	require.NoError(t, err)
	assert.True(t, g.Empty())
	assert.True(t, g.RefinementEnabled())
}
