package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	list "github.com/charmbracelet/bubbles/list"

	"gridmesh/internal/backdrop"
)

type fileItem struct {
	title, desc string
	path        string
	hasGrid     bool
}

func (f fileItem) Title() string {
	if f.hasGrid {
		return "▦ " + f.title
	}
	return "  " + f.title
}
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// imageID derives the storage key of an image from its path.
func imageID(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !backdrop.Supported(name) {
			continue
		}
		p := filepath.Join(m.cwd, name)
		has, err := m.grids.HasGridForImages(m.ctx, []string{imageID(p)})
		if err != nil {
			m.logger.Warn("grid lookup failed", "image", name, "err", err)
		}
		items = append(items, fileItem{title: name, desc: filepath.Ext(name), path: p, hasGrid: has})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).title < items[j].(fileItem).title })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no images in current directory"
	}
}

// otherImageIDs lists every image in the explorer except the open one.
func (m Model) otherImageIDs() []string {
	var ids []string
	for _, it := range m.items {
		if f, ok := it.(fileItem); ok && f.path != m.selPath {
			ids = append(ids, imageID(f.path))
		}
	}
	return ids
}

// loadPath opens the image at p, completing any edit left open on the
// previous image first.
func (m *Model) loadPath(p string) {
	if m.selPath != "" && m.selPath != p {
		m.leaveImage()
	}
	m.selPath = p
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.hovering = false

	img, err := backdrop.Load(p)
	m.img = img
	m.refreshGrid()
	if m.showPoints {
		m.refreshPointsTable()
	}
	if err != nil {
		m.logger.Warn("backdrop unavailable", "path", p, "err", err)
		m.status = "opened " + filepath.Base(p) + " without backdrop: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("opened %s (%dx%d %s)  %s", filepath.Base(p), img.Width, img.Height, img.Format, m.summary())
}

func (m *Model) leaveImage() {
	done, err := m.grids.Finalize(m.ctx, m.imageID())
	if err != nil {
		m.logger.Error("finalizing grid failed", "image", m.imageID(), "err", err)
	}
	if done {
		m.logger.Info("edit session finalized", "image", m.imageID())
	}
	m.dragging = false
}

// stepImage opens the image delta positions away in the explorer.
func (m *Model) stepImage(delta int) {
	if len(m.items) == 0 {
		m.status = "no images in current directory"
		return
	}
	idx := -1
	for i, it := range m.items {
		if it.(fileItem).path == m.selPath {
			idx = i
			break
		}
	}
	next := (idx + delta + len(m.items)) % len(m.items)
	if idx == -1 && delta < 0 {
		next = len(m.items) - 1
	}
	m.l.Select(next)
	m.loadPath(m.items[next].(fileItem).path)
}
