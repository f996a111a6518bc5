package retouch

import "errors"

// Errors returned by the transforms. Call sites wrap them with the
// offending value; test with errors.Is.
var (
	// ErrInvalidParameter is returned for non-positive gamma, scale or
	// target dimensions, unknown interpolation modes, nil buffers and
	// sources too small for the edge filter.
	ErrInvalidParameter = errors.New("retouch: invalid parameter")

	// ErrOutOfBounds is returned when pixel coordinates are outside the buffer.
	ErrOutOfBounds = errors.New("retouch: coordinates out of bounds")

	// ErrDegenerateRange is returned by ApplyLaplacian under WithStrictRange
	// when a channel's filter response is flat (min == max).
	ErrDegenerateRange = errors.New("retouch: degenerate filter range")
)
