package ripple

import "errors"

var (
	// ErrNotReady is returned when rendering before the texture is captured.
	ErrNotReady = errors.New("ripple: texture not captured yet")

	// ErrDimensionMismatch is returned when a buffer disagrees with the grid size.
	ErrDimensionMismatch = errors.New("ripple: buffer dimensions do not match grid")

	// ErrInvalidSize is returned for non-positive grid dimensions.
	ErrInvalidSize = errors.New("ripple: grid dimensions must be positive")

	// ErrStopped is returned by WaitReady after the simulation was stopped.
	ErrStopped = errors.New("ripple: simulation stopped")
)
