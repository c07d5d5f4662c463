// Package geom converts grid lines to and from common geometry formats.
package geom

import "gridmesh/internal/grid"

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (b *BBox) add(pt [2]float64, first bool) {
	if first {
		*b = BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
		return
	}
	b.MinX = min(b.MinX, pt[0])
	b.MinY = min(b.MinY, pt[1])
	b.MaxX = max(b.MaxX, pt[0])
	b.MaxY = max(b.MaxY, pt[1])
}

// Data is the drawable form of a grid: one polyline per primary line, with
// the common point flag of every vertex.
type Data struct {
	UUIDs  []string
	Lines  [][][2]float64
	Common [][]bool
	BBox   BBox
}

func (d *Data) addLine(id string, ls [][2]float64, common []bool) {
	n := d.points()
	for i, p := range ls {
		d.BBox.add(p, n+i == 0)
	}
	d.UUIDs = append(d.UUIDs, id)
	d.Lines = append(d.Lines, ls)
	d.Common = append(d.Common, common)
}

func (d Data) points() int {
	n := 0
	for _, ls := range d.Lines {
		n += len(ls)
	}
	return n
}

// FromLines builds Data from compact grid lines.
func FromLines(lines []grid.CompactLine) Data {
	var d Data
	for _, l := range lines {
		ls := make([][2]float64, len(l.Points))
		common := make([]bool, len(l.Points))
		for j, p := range l.Points {
			ls[j] = [2]float64{p.X, p.Y}
			common[j] = p.IsCommonPoint
		}
		d.addLine(l.UUID, ls, common)
	}
	return d
}

// Compact turns Data back into compact grid lines.
func (d Data) Compact() []grid.CompactLine {
	out := make([]grid.CompactLine, len(d.Lines))
	for i, ls := range d.Lines {
		out[i].UUID = d.UUIDs[i]
		out[i].Points = make([]grid.CompactPoint, len(ls))
		for j, p := range ls {
			out[i].Points[j] = grid.CompactPoint{X: p[0], Y: p[1], IsCommonPoint: d.Common[i][j]}
		}
	}
	return out
}
