package carve

import "errors"

var (
	// ErrDimensionMismatch is returned when a binary operation combines
	// regions living in spaces of different dimensions.
	ErrDimensionMismatch = errors.New("carve: dimension mismatch")

	// ErrInconsistentHyperplanes is returned by BuildConvex when the
	// half-spaces have an empty interior that cannot be explained by the
	// tolerance alone.
	ErrInconsistentHyperplanes = errors.New("carve: inconsistent hyperplanes")

	// ErrInvalidRegion is returned when a query trips over a malformed
	// raw tree, typically a boundary that does not close on itself.
	ErrInvalidRegion = errors.New("carve: invalid region")

	// ErrDegenerateOperation is returned for degenerate geometric input,
	// like a line through coincident points or a zero-length normal.
	ErrDegenerateOperation = errors.New("carve: degenerate operation")
)
