package annotation

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"gridmesh/internal/grid"
)

// ErrNotFound is returned by a Backend that holds no state for an image.
var ErrNotFound = errors.New("annotation: no stored grid")

// State is the stored form of one image's grid.
type State struct {
	Lines      []grid.CompactLine `json:"lines"`
	Refinement bool               `json:"refinement"`
	// Pinned records a per-image refinement override.
	Pinned bool `json:"pinned"`
}

func (s State) clone() State {
	lines := make([]grid.CompactLine, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = grid.CompactLine{UUID: l.UUID, Points: slices.Clone(l.Points)}
	}
	s.Lines = lines
	return s
}

// Backend stores grid states by image id.
type Backend interface {
	Load(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, s State) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// MemoryBackend keeps states in process memory.
type MemoryBackend struct {
	mu     sync.Mutex
	states map[string]State
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		states: make(map[string]State),
	}
}

func (b *MemoryBackend) Load(_ context.Context, id string) (State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.states[id]
	if !ok {
		return State{}, ErrNotFound
	}
	return s.clone(), nil
}

func (b *MemoryBackend) Save(_ context.Context, id string, s State) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.states[id] = s.clone()
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.states, id)
	return nil
}

func (b *MemoryBackend) List(_ context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, 0, len(b.states))
	for id := range b.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
