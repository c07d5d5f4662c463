// Package annotation keeps one grid per image, persists every completed
// edit through a Backend and shares the refinement setting across images.
package annotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"gridmesh/internal/grid"
)

// Override pins the refinement setting of one image.
type Override struct {
	Refinement bool
}

type entry struct {
	grid *grid.Grid
	host *imageHost
}

// Manager owns the grids of every image a host has opened. It is safe for
// concurrent use; every engine call runs under its lock.
type Manager struct {
	mu        sync.Mutex
	backend   Backend
	grids     map[string]*entry
	overrides map[string]Override
	global    bool
	opts      []grid.Option
	listener  Listener
	logger    *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithGridOptions sets the options new grids are created with.
func WithGridOptions(opts ...grid.Option) ManagerOption {
	return func(m *Manager) {
		m.opts = append(m.opts, opts...)
	}
}

// WithRefinement sets the initial global refinement setting.
func WithRefinement(enabled bool) ManagerOption {
	return func(m *Manager) {
		m.global = enabled
	}
}

// WithListener registers the receiver of grid events.
func WithListener(l Listener) ManagerOption {
	return func(m *Manager) {
		m.listener = l
	}
}

func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func NewManager(b Backend, opts ...ManagerOption) *Manager {
	m := &Manager{
		backend:   b,
		grids:     make(map[string]*entry),
		overrides: make(map[string]Override),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do runs fn on the grid of image id. Persistence failures of edits fn
// completes are returned along with fn's own error. Refinement is owned by
// the manager: change it with SetRefinement, not on the grid.
func (m *Manager) Do(ctx context.Context, id string, fn func(g *grid.Grid) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.entry(ctx, id)
	if err != nil {
		return err
	}
	defer e.host.detach()
	err = fn(e.grid)
	return errors.Join(err, e.host.takeErr())
}

// Grid returns the grid of image id, loading it on first use. Hosts that
// are not single-threaded must go through Do instead.
func (m *Manager) Grid(ctx context.Context, id string) (*grid.Grid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.entry(ctx, id)
	if err != nil {
		return nil, err
	}
	defer e.host.detach()
	return e.grid, e.host.takeErr()
}

// entry returns the loaded grid of id with its refinement brought in line
// with the shared setting. Called with m.mu held.
func (m *Manager) entry(ctx context.Context, id string) (*entry, error) {
	e, ok := m.grids[id]
	if !ok {
		g, err := m.load(ctx, id)
		if err != nil {
			return nil, err
		}
		e = &entry{grid: g, host: &imageHost{m: m, id: id, grid: g}}
		g.SetHost(e.host)
		m.grids[id] = e
	}
	e.host.attach(ctx)
	e.grid.SetRefinementEnabled(m.refinementFor(id))
	return e, nil
}

func (m *Manager) load(ctx context.Context, id string) (*grid.Grid, error) {
	s, err := m.backend.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return grid.New(append(m.opts, grid.WithRefinement(m.refinementFor(id)))...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load grid %s: %w", id, err)
	}
	g, err := grid.FromCompact(s.Lines, s.Refinement, m.opts...)
	if err != nil {
		return nil, fmt.Errorf("load grid %s: %w", id, err)
	}
	if s.Pinned {
		m.overrides[id] = Override{Refinement: s.Refinement}
	}
	m.logger.Debug("grid loaded", "image", id, "lines", len(s.Lines))
	return g, nil
}

func (m *Manager) refinementFor(id string) bool {
	if o, ok := m.overrides[id]; ok {
		return o.Refinement
	}
	return m.global
}

// Refinement reports the refinement setting that applies to image id.
func (m *Manager) Refinement(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refinementFor(id)
}

// SetRefinement changes the refinement setting seen from image id: the
// image's override when it has one, the shared setting otherwise. The grid
// of id follows immediately, other grids when they are next used.
func (m *Manager) SetRefinement(ctx context.Context, id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.overrides[id]; ok {
		m.overrides[id] = Override{Refinement: enabled}
	} else {
		m.global = enabled
	}
	if id == "" {
		return nil
	}
	e, err := m.entry(ctx, id)
	if err != nil {
		return err
	}
	defer e.host.detach()
	return e.host.takeErr()
}

// CompactState returns the compact lines of image id. An image without a
// grid yields an empty list.
func (m *Manager) CompactState(ctx context.Context, id string) ([]grid.CompactLine, error) {
	var lines []grid.CompactLine
	err := m.Do(ctx, id, func(g *grid.Grid) error {
		lines = g.ExportCompact()
		return nil
	})
	return lines, err
}

// FullState returns a copy of every line of image id.
func (m *Manager) FullState(ctx context.Context, id string) ([]grid.FullLine, error) {
	var lines []grid.FullLine
	err := m.Do(ctx, id, func(g *grid.Grid) error {
		lines = g.ExportFull()
		return nil
	})
	return lines, err
}

// SetStateForImages replaces the grid of every image in ids with a copy of
// lines. Each copied line gets a fresh UUID and each image keeps the given
// refinement setting as its override. Lines are validated before any image
// is touched.
func (m *Manager) SetStateForImages(ctx context.Context, lines []grid.CompactLine, ids []string, refinement bool) error {
	if _, err := grid.FromCompact(lines, refinement); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if old, ok := m.grids[id]; ok {
			old.host.attach(ctx)
			old.grid.Finalize()
			old.grid.SetHost(nil)
			old.host.detach()
		}
		g, err := grid.FromCompact(grid.CloneLines(lines), refinement, m.opts...)
		if err != nil {
			return err
		}
		m.overrides[id] = Override{Refinement: refinement}
		e := &entry{grid: g, host: &imageHost{m: m, id: id, grid: g}}
		g.SetHost(e.host)
		m.grids[id] = e

		e.host.attach(ctx)
		e.host.NotifyCompleted(g.ExportCompact())
		errs = append(errs, e.host.takeErr())
		e.host.detach()
	}
	m.logger.Info("grid copied to images", "images", len(ids), "lines", len(lines), "refinement", refinement)
	return errors.Join(errs...)
}

// HasGridForImages reports whether every image in ids has a non-empty grid.
// An empty ids list reports false.
func (m *Manager) HasGridForImages(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if e, ok := m.grids[id]; ok {
			if e.grid.Empty() {
				return false, nil
			}
			continue
		}
		s, err := m.backend.Load(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("load grid %s: %w", id, err)
		}
		if len(s.Lines) == 0 {
			return false, nil
		}
	}
	return true, nil
}

// Images returns the ids of every image with a non-empty grid, stored or
// loaded, in order.
func (m *Manager) Images(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, err := m.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list grids: %w", err)
	}
	seen := make(map[string]bool, len(stored))
	var ids []string
	for _, id := range stored {
		if e, ok := m.grids[id]; ok && e.grid.Empty() {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for id, e := range m.grids {
		if !seen[id] && !e.grid.Empty() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Remove deletes the grid of image id.
func (m *Manager) Remove(ctx context.Context, id string) error {
	return m.Do(ctx, id, func(g *grid.Grid) error {
		g.Remove()
		return nil
	})
}

// Finalize completes any edit session left open on image id and reports
// whether there was one. Hosts call it when leaving an image.
func (m *Manager) Finalize(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.grids[id]
	if !ok {
		return false, nil
	}
	e.host.attach(ctx)
	defer e.host.detach()
	done := e.grid.Finalize()
	return done, e.host.takeErr()
}
