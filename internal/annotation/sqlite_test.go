package annotation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridmesh/internal/grid"
)

func openTestDB(t *testing.T) *SQLiteBackend {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "grids.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	b := NewSQLiteBackend(db)
	require.NoError(t, b.Init(context.Background()))
	require.NoError(t, b.Init(context.Background()), "migration is repeatable")
	return b
}

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	b := openTestDB(t)

	_, err := b.Load(ctx, "a.png")
	assert.ErrorIs(t, err, ErrNotFound)

	s := State{
		Lines: []grid.CompactLine{
			{UUID: "l1", Points: []grid.CompactPoint{{X: 1.5, Y: 2, IsCommonPoint: true}, {X: 1.5, Y: 7, IsCommonPoint: true}}},
			{UUID: "l2", Points: []grid.CompactPoint{{X: 6.5, Y: 2, IsCommonPoint: true}, {X: 6.5, Y: 7, IsCommonPoint: true}}},
		},
		Pinned: true,
	}
	require.NoError(t, b.Save(ctx, "b.png", s))
	require.NoError(t, b.Save(ctx, "a.png", State{Refinement: true}))

	got, err := b.Load(ctx, "b.png")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(s, got))

	got, err = b.Load(ctx, "a.png")
	require.NoError(t, err)
	assert.True(t, got.Refinement)
	assert.Empty(t, got.Lines)

	s.Lines = s.Lines[:1]
	s.Refinement = true
	require.NoError(t, b.Save(ctx, "b.png", s))
	got, err = b.Load(ctx, "b.png")
	require.NoError(t, err)
	assert.Len(t, got.Lines, 1)
	assert.True(t, got.Refinement)

	ids, err := b.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, ids)

	require.NoError(t, b.Delete(ctx, "a.png"))
	ids, err = b.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.png"}, ids)
}

func TestManagerOnSQLite(t *testing.T) {
	ctx := context.Background()
	b := openTestDB(t)

	m := NewManager(b, WithRefinement(true))
	require.NoError(t, m.Do(ctx, "a.png", func(g *grid.Grid) error {
		return g.Place(grid.Pt(10, 10), 2, 3)
	}))
	want, err := m.CompactState(ctx, "a.png")
	require.NoError(t, err)
	require.Len(t, want, 5)

	reopened := NewManager(b, WithRefinement(true))
	got, err := reopened.CompactState(ctx, "a.png")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got))
}
