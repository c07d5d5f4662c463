package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	// Header
	title := " gridmesh ─ image grid annotator "
	if m.selPath != "" {
		title += "─ " + filepath.Base(m.selPath) + " "
	}
	header := lipgloss.NewStyle().Width(lay.contentW).Render(titleStyle.Render(title))

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	// Canvas, input or points table
	var mapView string
	switch {
	case m.showPoints:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(lay.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.mapH-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.input != inputNone:
		m.ta.SetWidth(lay.mapW)
		m.ta.SetHeight(min(lay.mapH, 12))
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(m.renderCanvas(lay.mapW, lay.mapH))
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hovering {
		coords = dimStyle.Render(fmt.Sprintf("  x=%.1f y=%.1f  ", m.hoverImg.X, m.hoverImg.Y))
	}
	left := lipgloss.JoinVertical(lipgloss.Left, status, help)
	spacerW := max(0, lay.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(lay.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, right))

	parts := []string{header}
	if popup := m.popupBox(lay.contentW); popup != "" {
		parts = append(parts, popup)
	}
	parts = append(parts, body, footer)
	ui := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

// popupBox renders the info popup shown between header and body.
func (m Model) popupBox(contentW int) string {
	if m.infoPopup == "" || m.showPoints {
		return ""
	}
	return boxStyle.MaxWidth(max(20, min(48, contentW/2))).Render(m.infoPopup)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"click place/drag",
		"g grid-drag",
		"[ ] lines",
		"{ } rows",
		"< > rotate",
		", . spacing",
		"r refine",
		"x remove",
		"c copy",
		"e/E export json/geojson",
		"p paste",
		": cmd",
		"a points",
		"n/N image",
		"Tab files",
		"q quit",
	}
	return dimStyle.Render(" " + strings.Join(keys, "  "))
}
