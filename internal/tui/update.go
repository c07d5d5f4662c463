package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridmesh/internal/geom"
	"gridmesh/internal/grid"
)

// Step sizes of the keyboard edits.
const (
	rotateStep  = 5.0
	spacingStep = 1.0
)

type canvasLayout struct {
	originX, originY int
	mapW, mapH       int
	contentW         int
	contentH         int
}

// layout must match the composition in View.
func (m Model) layout() canvasLayout {
	sw := 0
	if m.showSidebar {
		sw = sidebarWidth
	}
	headerHeight := 1
	footerHeight := 2
	contentW := max(10, m.width)
	if popup := m.popupBox(contentW); popup != "" {
		headerHeight += lipgloss.Height(popup)
	}
	contentH := max(4, m.height-headerHeight-footerHeight)
	lay := canvasLayout{
		originY:  headerHeight,
		mapW:     max(10, contentW-sw-1),
		mapH:     contentH,
		contentW: contentW,
		contentH: contentH,
	}
	if m.showSidebar {
		lay.originX = sw + 1
	}
	return lay
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
	case tea.KeyMsg:
		// While the list filters, keys belong to it.
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.input != inputNone {
			return m.updateInput(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input = inputNone
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.ta.Value())
		mode := m.input
		m.input = inputNone
		m.ta.Blur()
		if text == "" {
			m.status = "input: empty"
			return m, nil
		}
		if mode == inputPaste {
			m.importGrid(text)
		} else {
			m.runCommand(text)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m *Model) startInput(mode inputMode) {
	m.input = mode
	m.ta.SetValue("")
	if mode == inputPaste {
		m.ta.Placeholder = "Paste an exported grid, a GeoJSON export or a JSON line list. Enter imports; Esc cancels."
		m.status = "paste mode"
	} else {
		m.ta.Placeholder = "spacing 12 | angle 30 | rotate -5 | primary 5 | secondary 4 | offset 10 40 | place 0 0 [5 5] | refine on | remove | copy | export [json|geojson|wkt|csv|kml]"
		m.status = "command mode"
	}
	m.ta.Focus()
}

// handleKey runs the global key bindings. It reports false for keys that
// should reach the sidebar list.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.leaveImage()
		return tea.Quit, true
	case "esc":
		if m.g != nil && m.g.Session() != grid.Idle {
			m.leaveImage()
			m.refreshGrid()
			m.status = "edit finished  " + m.summary()
		}
		m.infoPopup = ""
	case "]":
		m.edit("primary", func(g *grid.Grid) error {
			g.SetPrimaryLineCount(g.LogicalPrimaryLineCount() + 1)
			return nil
		})
	case "[":
		m.edit("primary", func(g *grid.Grid) error {
			g.SetPrimaryLineCount(g.LogicalPrimaryLineCount() - 1)
			return nil
		})
	case "}":
		m.edit("secondary", func(g *grid.Grid) error {
			g.SetSecondaryLineCount(g.LogicalSecondaryLineCount() + 1)
			return nil
		})
	case "{":
		m.edit("secondary", func(g *grid.Grid) error {
			g.SetSecondaryLineCount(g.LogicalSecondaryLineCount() - 1)
			return nil
		})
	case ">":
		m.edit("rotate", func(g *grid.Grid) error { return g.Rotate(rotateStep) })
	case "<":
		m.edit("rotate", func(g *grid.Grid) error { return g.Rotate(-rotateStep) })
	case ".":
		m.edit("spacing", func(g *grid.Grid) error { return g.SetSpacing(g.Spacing() + spacingStep) })
	case ",":
		m.edit("spacing", func(g *grid.Grid) error { return g.SetSpacing(g.Spacing() - spacingStep) })
	case "r":
		if m.selPath != "" {
			m.setRefinement(!m.grids.Refinement(m.imageID()))
		} else {
			m.status = errNoImage.Error()
		}
	case "x":
		m.removeGrid()
	case "c":
		m.copyToAll()
	case "e":
		m.exportGrid("json")
	case "E":
		m.exportGrid(string(geom.GeoJSON))
	case "p":
		m.startInput(inputPaste)
	case ":":
		m.startInput(inputCommand)
	case "g":
		m.moveGrid = !m.moveGrid
		if m.moveGrid {
			m.status = "drag moves the whole grid"
		} else {
			m.status = "drag moves single points"
		}
	case "b":
		m.showBackdrop = !m.showBackdrop
		m.status = "backdrop " + onOff(m.showBackdrop)
	case "a":
		m.showPoints = !m.showPoints
		if m.showPoints {
			m.refreshPointsTable()
		}
	case "i":
		m.infoPopup = m.inspect()
	case "n":
		m.stepImage(1)
	case "N":
		m.stepImage(-1)
	case "+", "=":
		if m.zoom < 64 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
	case "h":
		m.helpVisible = !m.helpVisible
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
		}
	case "up", "down":
		if m.showPoints {
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return cmd, true
		}
		if m.showSidebar {
			return nil, false
		}
		if msg.String() == "up" {
			m.offsetY--
		} else {
			m.offsetY++
		}
	case "left":
		m.offsetX -= 2
	case "right":
		m.offsetX += 2
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	lay := m.layout()
	cx, cy := msg.X-lay.originX, msg.Y-lay.originY
	inside := cx >= 0 && cx < lay.mapW && cy >= 0 && cy < lay.mapH
	m.hovering = inside
	if inside {
		m.hoverCellX, m.hoverCellY = cx, cy
		m.hoverImg = m.cellToImage(cx, cy, lay.mapW, lay.mapH)
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inside:
		if m.zoom < 64 {
			m.zoom *= 1.2
		}
	case msg.Button == tea.MouseButtonWheelDown && inside:
		if m.zoom > 0.05 {
			m.zoom /= 1.2
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inside:
		m.press(m.hoverImg, msg.Shift || m.moveGrid, lay)
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.dragTo(m.cellToImage(cx, cy, lay.mapW, lay.mapH))
	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.release()
	case msg.Action == tea.MouseActionMotion && inside:
		m.hover(lay)
	}
}

// press starts a placement on an empty grid, or a drag of the point under
// the pointer.
func (m *Model) press(p grid.Point, moveGrid bool, lay canvasLayout) {
	if m.g == nil || m.g.Empty() {
		if m.edit("place", func(g *grid.Grid) error { return g.BeginPlacement(p) }) && m.g.Session() == grid.Drawing {
			m.dragging = true
			m.status = "placing: drag to size the grid, release to finish"
		}
		return
	}
	ref, d, ok := m.g.NearestPoint(p)
	if !ok || d > m.hitRadius(lay.mapW, lay.mapH) {
		m.status = "no grid point under the pointer"
		return
	}
	mode := grid.DragPoint
	if moveGrid {
		mode = grid.DragGrid
	}
	if m.edit("drag", func(g *grid.Grid) error { return g.BeginDrag(ref.Line, ref.Point, mode) }) {
		m.dragging = true
		m.status = fmt.Sprintf("dragging line %d point %d", ref.Line, ref.Point)
	}
}

func (m *Model) dragTo(p grid.Point) {
	switch m.g.Session() {
	case grid.Drawing:
		m.edit("place", func(g *grid.Grid) error { return g.UpdatePlacement(p) })
	case grid.Modifying:
		m.edit("drag", func(g *grid.Grid) error { return g.DragTo(p) })
	default:
		m.dragging = false
	}
}

func (m *Model) release() {
	m.dragging = false
	switch m.g.Session() {
	case grid.Drawing:
		m.edit("place", func(g *grid.Grid) error { return g.EndPlacement() })
	case grid.Modifying:
		m.edit("drag", func(g *grid.Grid) error { return g.EndDrag() })
	}
}

// hover highlights the point under the pointer.
func (m *Model) hover(lay canvasLayout) {
	if m.g == nil || m.g.Empty() {
		m.hoverHit = false
		return
	}
	ref, d, ok := m.g.NearestPoint(m.hoverImg)
	m.hoverHit = ok && d <= m.hitRadius(lay.mapW, lay.mapH)
	if !m.hoverHit {
		ref = grid.PointRef{Line: grid.NotFound, Point: grid.NotFound}
	}
	m.hoverRef = ref
	_ = m.grids.Do(m.ctx, m.imageID(), func(g *grid.Grid) error {
		g.SetHighlight(ref)
		return nil
	})
}

// inspect describes the open image and grid for the info popup.
func (m Model) inspect() string {
	name := filepath.Base(m.selPath)
	if m.selPath == "" {
		name = "<none>"
	}
	meta := []string{
		"image: " + name,
		"grid: " + m.summary(),
	}
	if m.img != nil {
		meta = append(meta, fmt.Sprintf("size: %dx%d %s", m.img.Width, m.img.Height, m.img.Format))
	}
	if g := m.g; g != nil && !g.Empty() {
		meta = append(meta,
			fmt.Sprintf("lines: %d total, %d main", g.TotalPrimaryLineCount(), g.LogicalPrimaryLineCount()),
			fmt.Sprintf("points per line: %d", g.TotalSecondaryLineCount()),
			"session: "+g.Session().String())
		if c, ok := g.MiddlePoint(); ok {
			meta = append(meta, fmt.Sprintf("middle: %.1f, %.1f", c.X, c.Y))
		}
	}
	if m.hoverHit {
		meta = append(meta, fmt.Sprintf("hover: line %d point %d", m.hoverRef.Line, m.hoverRef.Point))
	}
	return strings.Join(meta, "\n")
}
