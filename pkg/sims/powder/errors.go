package powder

import "errors"

var (
	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("powder: coordinate out of bounds")
	// ErrInvalidDimensions is returned when a world cannot be created with the
	// requested width or height.
	ErrInvalidDimensions = errors.New("powder: invalid dimensions")
	// ErrBusy is returned when a mutation is attempted while a tick is in
	// flight. Retry after Step returns.
	ErrBusy = errors.New("powder: world busy")
	// ErrInvalidElement is returned for element ids or names the table does
	// not know, and for malformed element tables.
	ErrInvalidElement = errors.New("powder: invalid element")
	// ErrClosed is returned by operations on a destroyed world.
	ErrClosed = errors.New("powder: world destroyed")
	// ErrUnknownScene is returned by LoadScene for names it does not know.
	ErrUnknownScene = errors.New("powder: unknown scene")
)
