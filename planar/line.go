// Package planar implements regions of the Euclidean plane: hyperplanes
// are oriented lines, sub-hyperplanes are sets of line segments and
// regions are polygons, possibly non-convex, with holes or infinite.
package planar

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/carvengine/carve"
	"github.com/carvengine/carve/interval"
)

// Line is an oriented line of the plane. The orientation defines two
// half-planes: looking along the line direction, the plus half-plane is
// on the right and the minus half-plane on the left. Points of a line are
// located by their abscissa, the 1D coordinate along the direction.
type Line struct {
	angle        float64
	cos, sin     float64
	originOffset float64
	tol          float64
}

// NewLine builds the oriented line going from p1 to p2.
func NewLine(p1, p2 mgl64.Vec2, tolerance float64) (*Line, error) {
	dx := p2[0] - p1[0]
	dy := p2[1] - p1[1]
	d := math.Hypot(dx, dy)
	if d == 0 {
		return nil, fmt.Errorf("%w: cannot build a line through coincident points", carve.ErrDegenerateOperation)
	}
	return &Line{
		angle:        math.Pi + math.Atan2(-dy, -dx),
		cos:          dx / d,
		sin:          dy / d,
		originOffset: (p2[0]*p1[1] - p1[0]*p2[1]) / d,
		tol:          tolerance,
	}, nil
}

// NewLineFromAngle builds the oriented line through p with the given
// direction angle.
func NewLineFromAngle(p mgl64.Vec2, angle, tolerance float64) *Line {
	a := normalizeAngle(angle, math.Pi)
	cos, sin := math.Cos(a), math.Sin(a)
	return &Line{
		angle:        a,
		cos:          cos,
		sin:          sin,
		originOffset: cos*p[1] - sin*p[0],
		tol:          tolerance,
	}
}

// normalizeAngle wraps a into the 2-pi wide interval centered on center.
func normalizeAngle(a, center float64) float64 {
	return a - 2*math.Pi*math.Floor((a+math.Pi-center)/(2*math.Pi))
}

// Angle returns the direction angle of the line, in [0, 2pi).
func (l *Line) Angle() float64 { return l.angle }

// Direction returns the unit direction vector of the line.
func (l *Line) Direction() mgl64.Vec2 { return mgl64.Vec2{l.cos, l.sin} }

// Reverse returns the same line with the opposite orientation.
func (l *Line) Reverse() *Line {
	angle := l.angle + math.Pi
	if angle >= 2*math.Pi {
		angle -= 2 * math.Pi
	}
	return &Line{
		angle:        angle,
		cos:          -l.cos,
		sin:          -l.sin,
		originOffset: -l.originOffset,
		tol:          l.tol,
	}
}

// Offset returns the signed distance to the line, positive on the plus
// half-plane.
func (l *Line) Offset(p mgl64.Vec2) float64 {
	return l.sin*p[0] - l.cos*p[1] + l.originOffset
}

// OffsetLine returns the signed distance to a parallel line.
func (l *Line) OffsetLine(other *Line) float64 {
	if l.cos*other.cos+l.sin*other.sin > 0 {
		return l.originOffset - other.originOffset
	}
	return l.originOffset + other.originOffset
}

// Abscissa returns the 1D coordinate of the projection of p on the line.
func (l *Line) Abscissa(p mgl64.Vec2) float64 {
	return l.cos*p[0] + l.sin*p[1]
}

// ToSpace returns the plane point at the given abscissa on the line.
func (l *Line) ToSpace(abscissa float64) mgl64.Vec2 {
	return mgl64.Vec2{
		abscissa*l.cos - l.originOffset*l.sin,
		abscissa*l.sin + l.originOffset*l.cos,
	}
}

// PointAt returns the plane point at the given abscissa and offset from
// the line.
func (l *Line) PointAt(abscissa, offset float64) mgl64.Vec2 {
	d := offset - l.originOffset
	return mgl64.Vec2{
		abscissa*l.cos + d*l.sin,
		abscissa*l.sin - d*l.cos,
	}
}

// Project returns the orthogonal projection of p onto the line.
func (l *Line) Project(p mgl64.Vec2) mgl64.Vec2 {
	return l.ToSpace(l.Abscissa(p))
}

// Intersection returns the intersection point with another line. The
// boolean is false for parallel lines.
func (l *Line) Intersection(other *Line) (mgl64.Vec2, bool) {
	d := l.sin*other.cos - other.sin*l.cos
	if math.Abs(d) < parallelThreshold {
		return mgl64.Vec2{}, false
	}
	return mgl64.Vec2{
		(l.cos*other.originOffset - other.cos*l.originOffset) / d,
		(l.sin*other.originOffset - other.sin*l.originOffset) / d,
	}, true
}

// parallelThreshold bounds the sine of the angle under which two lines
// are handled as parallel.
const parallelThreshold = 1.0e-10

// ParallelTo reports whether the other line has the same or the opposite
// direction, within the parallelism threshold.
func (l *Line) ParallelTo(other *Line) bool {
	return math.Abs(l.sin*other.cos-other.sin*l.cos) < parallelThreshold
}

// ContainsPoint reports whether p lies on the line, within tolerance.
func (l *Line) ContainsPoint(p mgl64.Vec2) bool {
	return math.Abs(l.Offset(p)) < l.tol
}

// Tolerance is the thickness below which points merge with the line.
func (l *Line) Tolerance() float64 { return l.tol }

// SameOrientationAs reports whether the other line, assumed parallel,
// points the same way.
func (l *Line) SameOrientationAs(other carve.Hyperplane[mgl64.Vec2]) bool {
	o := other.(*Line)
	return l.sin*o.sin+l.cos*o.cos >= 0
}

// WholeHyperplane returns the piece covering the full line.
func (l *Line) WholeHyperplane() carve.SubHyperplane[mgl64.Vec2] {
	return NewSubLine(l, interval.NewAll(l.tol))
}

// WholeSpace returns the whole plane.
func (l *Line) WholeSpace() carve.Region[mgl64.Vec2] {
	return NewAll(l.tol)
}
