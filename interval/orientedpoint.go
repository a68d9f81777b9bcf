// Package interval implements regions of the real line: hyperplanes are
// oriented points and regions are finite unions of intervals.
package interval

import (
	"github.com/carvengine/carve"
)

// OrientedPoint is a 1D hyperplane: a single point cutting the real line
// in two half-lines. When direct, the plus half-line is the one with
// larger coordinates.
type OrientedPoint struct {
	location float64
	direct   bool
	tol      float64
}

// NewOrientedPoint builds an oriented point at the given location.
func NewOrientedPoint(location float64, direct bool, tolerance float64) *OrientedPoint {
	return &OrientedPoint{location: location, direct: direct, tol: tolerance}
}

// Location returns the coordinate of the point.
func (p *OrientedPoint) Location() float64 { return p.location }

// Direct reports whether the plus side is the high-coordinates side.
func (p *OrientedPoint) Direct() bool { return p.direct }

// Reverse returns the same point with the opposite orientation.
func (p *OrientedPoint) Reverse() *OrientedPoint {
	return &OrientedPoint{location: p.location, direct: !p.direct, tol: p.tol}
}

// Offset returns the signed distance to the point.
func (p *OrientedPoint) Offset(x float64) float64 {
	if p.direct {
		return x - p.location
	}
	return p.location - x
}

// Project returns the point itself, the only element of the hyperplane.
func (p *OrientedPoint) Project(float64) float64 { return p.location }

// Tolerance is the thickness below which points merge with the hyperplane.
func (p *OrientedPoint) Tolerance() float64 { return p.tol }

// SameOrientationAs reports whether the other oriented point has its plus
// side on the same side of the line.
func (p *OrientedPoint) SameOrientationAs(other carve.Hyperplane[float64]) bool {
	return p.direct == other.(*OrientedPoint).direct
}

// WholeHyperplane returns the degenerate piece covering the point.
func (p *OrientedPoint) WholeHyperplane() carve.SubHyperplane[float64] {
	return &SubOrientedPoint{point: p}
}

// WholeSpace returns the whole real line.
func (p *OrientedPoint) WholeSpace() carve.Region[float64] {
	return NewAll(p.tol)
}

// SubOrientedPoint is the sub-hyperplane of an oriented point: either the
// point itself or nothing at all.
type SubOrientedPoint struct {
	point *OrientedPoint
	empty bool
}

// Hyperplane returns the underlying oriented point.
func (s *SubOrientedPoint) Hyperplane() carve.Hyperplane[float64] { return s.point }

// IsEmpty reports whether nothing remains of the point.
func (s *SubOrientedPoint) IsEmpty() bool { return s.empty }

// Size returns the 0-dimensional measure of the piece, which is zero.
func (s *SubOrientedPoint) Size() float64 { return 0 }

// Split places the point on one side of the splitter.
func (s *SubOrientedPoint) Split(splitter carve.Hyperplane[float64]) carve.SplitSub[float64] {
	none := &SubOrientedPoint{point: s.point, empty: true}
	if s.empty {
		return carve.SplitSub[float64]{Plus: none, Minus: none}
	}
	offset := splitter.Offset(s.point.location)
	tol := splitter.Tolerance()
	switch {
	case offset < -tol:
		return carve.SplitSub[float64]{Plus: none, Minus: s}
	case offset > tol:
		return carve.SplitSub[float64]{Plus: s, Minus: none}
	default:
		return carve.SplitSub[float64]{Plus: none, Minus: none}
	}
}

// Reunite merges two pieces of the same point.
func (s *SubOrientedPoint) Reunite(other carve.SubHyperplane[float64]) carve.SubHyperplane[float64] {
	if s.empty {
		return other
	}
	return s
}

// Closest returns the point location when the piece is not empty.
func (s *SubOrientedPoint) Closest(float64) (float64, bool) {
	if s.empty {
		return 0, false
	}
	return s.point.location, true
}
