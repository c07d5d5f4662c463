package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"gridmesh/internal/grid"
)

var pointColumns = []string{"line", "point", "x", "y", "uuid"}

// refreshPointsTable rebuilds the table from the common points of the open grid.
func (m *Model) refreshPointsTable() {
	cols, rows := m.buildPointRows()
	// An empty table is hidden rather than rendered.
	if len(rows) == 0 {
		m.showPoints = false
		m.status = "no grid points on this image"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for _, c := range cols {
		w := 10
		if c == "line" || c == "point" {
			w = 6
		}
		tcols = append(tcols, table.Column{Title: c, Width: w})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// Clear rows first so the table never holds rows wider than its columns.
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildPointRows lists every common point by main line ordinal and common
// point ordinal.
func (m *Model) buildPointRows() ([]string, [][]string) {
	g := m.g
	if g == nil || g.Empty() {
		return pointColumns, nil
	}
	lines := g.Lines()
	var rows [][]string
	for li, i := range g.MainLines() {
		for n := 0; ; n++ {
			j := g.NthCommonPoint(i, n)
			if j == grid.NotFound {
				break
			}
			p := lines[i].Points[j]
			rows = append(rows, []string{
				fmt.Sprintf("%d", li),
				fmt.Sprintf("%d", n),
				fmt.Sprintf("%.2f", p.X),
				fmt.Sprintf("%.2f", p.Y),
				shortUUID(lines[i].UUID),
			})
		}
	}
	return pointColumns, rows
}
