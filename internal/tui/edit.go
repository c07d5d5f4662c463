package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gridmesh/internal/annotation"
	"gridmesh/internal/geom"
	"gridmesh/internal/grid"
)

var errNoImage = errors.New("open an image first (tab)")

// edit runs fn on the open image's grid and reports the outcome on the
// status line.
func (m *Model) edit(op string, fn func(g *grid.Grid) error) bool {
	if m.selPath == "" {
		m.status = errNoImage.Error()
		return false
	}
	m.events.reset()
	err := m.grids.Do(m.ctx, m.imageID(), fn)
	m.refreshGrid()
	if err != nil {
		m.logger.Warn("grid edit failed", "op", op, "image", m.imageID(), "err", err)
		m.status = op + ": " + err.Error()
		return false
	}
	switch {
	case m.events.removed != nil:
		m.status = "grid removed"
		m.markImage(false)
	case m.events.completed != nil:
		m.status = op + ": " + m.summary()
		m.markImage(true)
	}
	if m.showPoints {
		m.refreshPointsTable()
	}
	return true
}

func (m *Model) refreshGrid() {
	if m.selPath == "" {
		m.g = nil
		return
	}
	g, err := m.grids.Grid(m.ctx, m.imageID())
	if err != nil {
		m.logger.Error("loading grid failed", "image", m.imageID(), "err", err)
		m.status = "load grid: " + err.Error()
	}
	m.g = g
}

// markImage updates the grid marker of the open image in the explorer.
func (m *Model) markImage(has bool) {
	for i, it := range m.items {
		f, ok := it.(fileItem)
		if !ok || f.path != m.selPath || f.hasGrid == has {
			continue
		}
		f.hasGrid = has
		m.items[i] = f
		m.l.SetItem(i, f)
	}
}

func (m Model) summary() string {
	g := m.g
	if g == nil || g.Empty() {
		return "no grid"
	}
	return fmt.Sprintf("%dx%d lines  spacing %.1f  angle %d°  refine %s",
		g.LogicalPrimaryLineCount(), g.LogicalSecondaryLineCount(), g.Spacing(), g.Angle(), onOff(g.RefinementEnabled()))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m *Model) setRefinement(enabled bool) {
	if m.selPath == "" {
		m.status = errNoImage.Error()
		return
	}
	m.events.reset()
	if err := m.grids.SetRefinement(m.ctx, m.imageID(), enabled); err != nil {
		m.status = "refine: " + err.Error()
		return
	}
	m.refreshGrid()
	m.status = "refine " + onOff(enabled) + "  " + m.summary()
	if m.showPoints {
		m.refreshPointsTable()
	}
}

func (m *Model) removeGrid() {
	m.edit("remove", func(g *grid.Grid) error {
		if g.Empty() {
			return grid.ErrEmptyGrid
		}
		g.Remove()
		return nil
	})
}

// copyToAll copies the open image's grid onto every other image in the
// explorer.
func (m *Model) copyToAll() {
	if m.selPath == "" {
		m.status = errNoImage.Error()
		return
	}
	lines, err := m.grids.CompactState(m.ctx, m.imageID())
	if err != nil {
		m.status = "copy: " + err.Error()
		return
	}
	if len(lines) == 0 {
		m.status = "copy: " + grid.ErrEmptyGrid.Error()
		return
	}
	ids := m.otherImageIDs()
	if len(ids) == 0 {
		m.status = "copy: no other images"
		return
	}
	if err := m.grids.SetStateForImages(m.ctx, lines, ids, m.grids.Refinement(m.imageID())); err != nil {
		m.status = "copy: " + err.Error()
		return
	}
	m.refreshDir()
	m.status = fmt.Sprintf("copied grid to %d images", len(ids))
}

// exportPath is where the compact state of the image at path is written.
func exportPath(path string) string {
	return path + ".grid.json"
}

// exportGrid writes the open grid next to the image: the compact state as
// JSON by default, or one of the geometry formats.
func (m *Model) exportGrid(format string) {
	if m.selPath == "" {
		m.status = errNoImage.Error()
		return
	}
	lines, err := m.grids.CompactState(m.ctx, m.imageID())
	if err != nil {
		m.status = "export: " + err.Error()
		return
	}
	out := exportPath(m.selPath)
	var b []byte
	if format == "" || format == "json" {
		s := annotation.State{Lines: lines, Refinement: m.grids.Refinement(m.imageID())}
		b, err = json.MarshalIndent(s, "", "  ")
	} else {
		f := geom.Format(format)
		out = m.selPath + f.Ext()
		b, err = geom.Encode(f, m.imageID(), lines)
	}
	if err != nil {
		m.status = "export: " + err.Error()
		return
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		m.status = "export: " + err.Error()
		return
	}
	m.status = "exported " + filepath.Base(out)
}

// parseGridJSON accepts an exported state, a GeoJSON export or a bare line
// list. The last two take the given refinement setting.
func parseGridJSON(s string, refinement bool) ([]grid.CompactLine, bool, error) {
	d, err := geom.DecodeGeoJSON([]byte(s))
	if err == nil {
		return d.Compact(), refinement, nil
	}
	if !errors.Is(err, geom.ErrNotGeoJSON) {
		return nil, false, err
	}
	var st annotation.State
	if err := json.Unmarshal([]byte(s), &st); err == nil {
		return st.Lines, st.Refinement, nil
	}
	var lines []grid.CompactLine
	if err := json.Unmarshal([]byte(s), &lines); err != nil {
		return nil, false, fmt.Errorf("expected an exported grid or a line list: %w", err)
	}
	return lines, refinement, nil
}

func (m *Model) importGrid(s string) {
	if m.selPath == "" {
		m.status = errNoImage.Error()
		return
	}
	lines, refinement, err := parseGridJSON(s, m.grids.Refinement(m.imageID()))
	if err != nil {
		m.status = "paste: " + err.Error()
		return
	}
	if err := m.grids.SetStateForImages(m.ctx, lines, []string{m.imageID()}, refinement); err != nil {
		m.status = "paste: " + err.Error()
		return
	}
	m.refreshGrid()
	m.markImage(len(lines) > 0)
	if m.showPoints {
		m.refreshPointsTable()
	}
	m.status = "imported " + m.summary()
}
