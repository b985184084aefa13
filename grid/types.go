package grid

import "errors"

var (
	// ErrBadAxis is returned when axis ticks are missing or not strictly increasing.
	ErrBadAxis = errors.New("invalid axis")

	// ErrSizeMismatch is returned when a value slice does not match the grid size.
	ErrSizeMismatch = errors.New("value slice does not match grid size")
)
