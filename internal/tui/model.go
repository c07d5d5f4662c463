package tui

import (
	"context"
	"log/slog"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"gridmesh/internal/annotation"
	"gridmesh/internal/backdrop"
	"gridmesh/internal/config"
	"gridmesh/internal/ctxlog"
	"gridmesh/internal/grid"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputPaste
	inputCommand
)

const sidebarWidth = 28

type Model struct {
	width  int
	height int

	showSidebar  bool
	helpVisible  bool
	showBackdrop bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	ctx    context.Context
	cfg    *config.Config
	logger *slog.Logger
	grids  *annotation.Manager
	events *eventLog

	// image explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string
	img     *backdrop.Image
	g       *grid.Grid

	// paste and command input
	input inputMode
	ta    textarea.Model

	// hover state
	hovering   bool
	hoverCellX int
	hoverCellY int
	hoverImg   grid.Point
	hoverRef   grid.PointRef
	hoverHit   bool

	dragging bool
	moveGrid bool

	infoPopup string

	// points table
	showPoints bool
	tbl        table.Model
}

// eventLog keeps the last event of each kind the manager reported during an
// update so the status line can describe it.
type eventLog struct {
	completed *annotation.Event
	removed   *annotation.Event
}

func (e *eventLog) record(ev annotation.Event) {
	switch ev.Kind {
	case annotation.Completed:
		e.completed = &ev
	case annotation.Removed:
		e.removed = &ev
	}
}

func (e *eventLog) reset() {
	e.completed, e.removed = nil, nil
}

func New(ctx context.Context, cfg *config.Config, backend annotation.Backend) Model {
	events := &eventLog{}
	logger := ctxlog.FromContext(ctx)
	m := Model{
		showSidebar:  true,
		helpVisible:  true,
		showBackdrop: true,
		zoom:         1.0,
		status:       "gridmesh ready",
		ctx:          ctx,
		cfg:          cfg,
		logger:       logger,
		events:       events,
		grids: annotation.NewManager(backend,
			annotation.WithGridOptions(cfg.GridOptions()...),
			annotation.WithRefinement(cfg.Refinement),
			annotation.WithListener(events.record),
			annotation.WithLogger(logger)),
	}
	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Images"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.ta = textarea.New()
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath opens an image at launch.
func NewWithPath(ctx context.Context, cfg *config.Config, backend annotation.Backend, path string) Model {
	m := New(ctx, cfg, backend)
	m.showSidebar = false
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// imageID is the key the current image's grid is stored under.
func (m Model) imageID() string {
	return imageID(m.selPath)
}
