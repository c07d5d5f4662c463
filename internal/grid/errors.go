package grid

import "errors"

var (
	// ErrNotNumeric is returned for NaN or infinite input.
	ErrNotNumeric = errors.New("grid: value is not a finite number")
	// ErrSessionActive is returned when a session starts while another is in flight.
	ErrSessionActive = errors.New("grid: an edit session is already active")
	// ErrNoSession is returned when a session call arrives outside its session.
	ErrNoSession = errors.New("grid: no matching edit session")
	// ErrGridExists is returned when placing a grid on an image that already has one.
	ErrGridExists = errors.New("grid: grid already placed")
	// ErrEmptyGrid is returned by operations that need a placed grid.
	ErrEmptyGrid = errors.New("grid: grid is empty")
	// ErrOutOfBounds is returned for line or point indices outside the grid.
	ErrOutOfBounds = errors.New("grid: index out of bounds")
	// ErrNotCommonPoint is returned when dragging a refinement point on its own.
	ErrNotCommonPoint = errors.New("grid: refinement points cannot be moved individually")
	// ErrInvalidTopology is returned when imported lines break the grid invariants.
	ErrInvalidTopology = errors.New("grid: invalid topology")
)
