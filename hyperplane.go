// Package carve implements binary space partitioning over an abstract
// ambient space. A tree of oriented hyperplane cuts splits the space into
// convex cells flagged inside or outside, and regions built on such trees
// support boolean algebra, point classification, measures and boundary
// extraction. The concrete Euclidean spaces live in the interval, planar
// and solid sub-packages.
package carve

// Side locates a sub-hyperplane relative to another hyperplane.
type Side int

const (
	// SidePlus means the whole piece lies on the plus side.
	SidePlus Side = iota
	// SideMinus means the whole piece lies on the minus side.
	SideMinus
	// SideBoth means the piece straddles the hyperplane.
	SideBoth
	// SideHyper means the piece lies within tolerance of the hyperplane.
	SideHyper
)

func (s Side) String() string {
	switch s {
	case SidePlus:
		return "plus"
	case SideMinus:
		return "minus"
	case SideBoth:
		return "both"
	default:
		return "hyper"
	}
}

// Hyperplane is an oriented affine subspace of codimension 1. The offset
// sign splits the ambient space into a plus and a minus half-space, and
// the magnitude is the distance to the hyperplane.
type Hyperplane[P any] interface {
	// Offset returns the signed distance from the point to the hyperplane.
	Offset(point P) float64
	// Project returns the orthogonal projection of the point onto the
	// hyperplane.
	Project(point P) P
	// Tolerance is the thickness below which points are merged with the
	// hyperplane.
	Tolerance() float64
	// SameOrientationAs reports whether the other hyperplane, assumed
	// parallel to this one, has its plus side on the same side.
	SameOrientationAs(other Hyperplane[P]) bool
	// WholeHyperplane returns the sub-hyperplane covering this hyperplane
	// entirely.
	WholeHyperplane() SubHyperplane[P]
	// WholeSpace returns the region covering the whole ambient space.
	WholeSpace() Region[P]
}

// SubHyperplane is the trace of a region one dimension down onto a
// hyperplane: the part of the hyperplane that remains after trimming.
// Implementations are immutable; Split and Reunite return new instances
// and never return nil (an empty piece is a non-nil value with IsEmpty
// true).
type SubHyperplane[P any] interface {
	// Hyperplane returns the underlying hyperplane.
	Hyperplane() Hyperplane[P]
	// IsEmpty reports whether nothing remains of the hyperplane.
	IsEmpty() bool
	// Size returns the n-1 dimensional measure of the piece.
	Size() float64
	// Split cuts the piece by another hyperplane.
	Split(splitter Hyperplane[P]) SplitSub[P]
	// Reunite merges this piece with another piece of the same hyperplane.
	Reunite(other SubHyperplane[P]) SubHyperplane[P]
	// Closest returns the point of the piece closest to the given point.
	// The boolean is false when the piece is empty.
	Closest(point P) (P, bool)
}

// SplitSub holds the two halves of a split sub-hyperplane.
type SplitSub[P any] struct {
	Plus  SubHyperplane[P]
	Minus SubHyperplane[P]
}

// Side classifies the split against the splitter from the emptiness of
// its halves. A piece whose two halves are both empty lies on the
// splitter itself.
func (s SplitSub[P]) Side() Side {
	plus := s.Plus != nil && !s.Plus.IsEmpty()
	minus := s.Minus != nil && !s.Minus.IsEmpty()
	switch {
	case plus && minus:
		return SideBoth
	case plus:
		return SidePlus
	case minus:
		return SideMinus
	default:
		return SideHyper
	}
}
