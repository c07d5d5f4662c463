package annotation

import (
	"context"
	"errors"

	"gridmesh/internal/grid"
)

// EventKind tells what happened to a grid.
type EventKind int

const (
	Repainted EventKind = iota
	Completed
	Removed
)

func (k EventKind) String() string {
	switch k {
	case Repainted:
		return "repainted"
	case Completed:
		return "completed"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// Event is delivered to the Listener for every engine notification.
// Lines is set for Completed events.
type Event struct {
	ImageID string
	Kind    EventKind
	Lines   []grid.CompactLine
}

// Listener receives grid events. It is called with the manager's lock held
// and must not call back into the Manager.
type Listener func(Event)

// imageHost persists the grid of one image. The engine calls it
// synchronously, so it always runs under the manager's lock.
type imageHost struct {
	m    *Manager
	id   string
	grid *grid.Grid

	ctx context.Context
	err error
}

func (h *imageHost) attach(ctx context.Context) {
	h.ctx = ctx
}

func (h *imageHost) detach() {
	h.ctx = nil
}

func (h *imageHost) context() context.Context {
	if h.ctx == nil {
		return context.Background()
	}
	return h.ctx
}

// takeErr returns and clears the persistence errors collected so far.
func (h *imageHost) takeErr() error {
	err := h.err
	h.err = nil
	return err
}

func (h *imageHost) Repaint() {
	h.emit(Event{ImageID: h.id, Kind: Repainted})
}

func (h *imageHost) NotifyCompleted(lines []grid.CompactLine) {
	_, pinned := h.m.overrides[h.id]
	s := State{Lines: lines, Refinement: h.grid.RefinementEnabled(), Pinned: pinned}
	if err := h.m.backend.Save(h.context(), h.id, s); err != nil {
		h.m.logger.Error("saving grid failed", "image", h.id, "err", err)
		h.err = errors.Join(h.err, err)
	}
	h.emit(Event{ImageID: h.id, Kind: Completed, Lines: lines})
}

func (h *imageHost) NotifyRemoved() {
	if err := h.m.backend.Delete(h.context(), h.id); err != nil {
		h.m.logger.Error("deleting grid failed", "image", h.id, "err", err)
		h.err = errors.Join(h.err, err)
	}
	h.emit(Event{ImageID: h.id, Kind: Removed})
}

func (h *imageHost) emit(ev Event) {
	if h.m.listener != nil {
		h.m.listener(ev)
	}
}
