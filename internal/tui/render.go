package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gridmesh/internal/grid"
)

// Extent of the canvas when the open image has no decodable backdrop.
const (
	fallbackExtentW = 1000
	fallbackExtentH = 1000
)

// hitRadiusMicro is how close, in micro-pixels, the pointer must be to grab
// a point.
const hitRadiusMicro = 4

func (m Model) extent() (float64, float64) {
	if m.img != nil {
		return float64(m.img.Width), float64(m.img.Height)
	}
	return fallbackExtentW, fallbackExtentH
}

// scale returns micro-pixels per image pixel for a w x h cell canvas: the
// image fits the canvas at zoom 1.
func (m Model) scale(w, h int) float64 {
	ew, eh := m.extent()
	return min(float64(w*2)/ew, float64(h*4)/eh) * m.zoom
}

// toMicro maps an image point onto the canvas microgrid, applying pan.
func (m Model) toMicro(p grid.Point, w, h int) (int, int) {
	s := m.scale(w, h)
	return int(math.Floor(p.X*s)) + m.offsetX*2, int(math.Floor(p.Y*s)) + m.offsetY*4
}

// cellToImage maps the centre of a canvas cell back to image coordinates.
func (m Model) cellToImage(cx, cy, w, h int) grid.Point {
	s := m.scale(w, h)
	return grid.Pt(
		(float64((cx-m.offsetX)*2)+1)/s,
		(float64((cy-m.offsetY)*4)+2)/s,
	)
}

func (m Model) hitRadius(w, h int) float64 {
	return hitRadiusMicro / m.scale(w, h)
}

// canvas layers in drawing order
type layer int

const (
	layerNone layer = iota
	layerBackdrop
	layerFine
	layerMain
	layerHover
	layerActive
)

var layerStyles = map[layer]lipgloss.Style{
	layerBackdrop: backdropStyle,
	layerFine:     fineStyle,
	layerMain:     mainStyle,
	layerHover:    hoverStyle,
	layerActive:   activeStyle,
}

type cell struct {
	r rune
	l layer
}

func (m Model) renderCanvas(w, h int) string {
	back := newBrailleBuf(w, h)
	fine := newBrailleBuf(w, h)
	main := newBrailleBuf(w, h)

	if m.showBackdrop && m.img != nil {
		s := m.scale(w, h)
		for my := 0; my < h*4; my++ {
			y := (float64(my-m.offsetY*4) + 0.5) / s
			for mx := 0; mx < w*2; mx++ {
				x := (float64(mx-m.offsetX*2) + 0.5) / s
				if m.img.Dark(x, y) {
					back.setPixel(mx, my)
				}
			}
		}
	}

	markers := map[[2]int]cell{}
	if g := m.g; g != nil && !g.Empty() {
		lines := g.Lines()
		for i, l := range lines {
			for j, p := range l.Points {
				x0, y0 := m.toMicro(p.Pos(), w, h)
				for _, ref := range p.Adjacency {
					q := lines[ref.Line].Points[ref.Point]
					x1, y1 := m.toMicro(q.Pos(), w, h)
					buf := fine
					if (ref.Line == i && g.IsMainLine(i)) || (ref.Line != i && g.IsCommonPoint(0, j)) {
						buf = main
					}
					buf.drawLineMicro(x0, y0, x1, y1)
				}
				if p.IsCommonPoint {
					main.dot(x0, y0)
				}
				if x0 < 0 || y0 < 0 {
					continue
				}
				key := [2]int{x0 / 2, y0 / 4}
				switch {
				case p.Active:
					markers[key] = cell{r: '●', l: layerActive}
				case p.Highlight:
					if _, taken := markers[key]; !taken {
						markers[key] = cell{r: '◯', l: layerHover}
					}
				}
			}
		}
	}

	rows := make([]string, h)
	cells := make([]cell, w)
	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			c := cell{r: ' ', l: layerNone}
			switch {
			case main.mask(cx, cy) != 0:
				c = cell{r: brailleRune(main.mask(cx, cy) | fine.mask(cx, cy)), l: layerMain}
			case fine.mask(cx, cy) != 0:
				c = cell{r: brailleRune(fine.mask(cx, cy)), l: layerFine}
			case back.mask(cx, cy) != 0:
				c = cell{r: brailleRune(back.mask(cx, cy)), l: layerBackdrop}
			}
			if mk, ok := markers[[2]int{cx, cy}]; ok {
				c = mk
			}
			cells[cx] = c
		}
		rows[cy] = renderRow(cells)
	}
	return strings.Join(rows, "\n")
}

// renderRow styles runs of cells that share a layer.
func renderRow(cells []cell) string {
	var sb strings.Builder
	start := 0
	for i := 1; i <= len(cells); i++ {
		if i < len(cells) && cells[i].l == cells[start].l {
			continue
		}
		run := make([]rune, 0, i-start)
		for _, c := range cells[start:i] {
			run = append(run, c.r)
		}
		if st, ok := layerStyles[cells[start].l]; ok {
			sb.WriteString(st.Render(string(run)))
		} else {
			sb.WriteString(string(run))
		}
		start = i
	}
	return sb.String()
}
