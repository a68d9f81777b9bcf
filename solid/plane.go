// Package solid implements regions of 3D Euclidean space: hyperplanes are
// oriented planes, sub-hyperplanes are polygonal facets and regions are
// polyhedrons.
package solid

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/carvengine/carve"
	"github.com/carvengine/carve/planar"
)

// Plane is an oriented plane of 3D space. The plus half-space is on the
// side the normal points to. Points of the plane are located by their 2D
// coordinates in the in-plane frame (u, v), with u x v = w.
type Plane struct {
	u, v, w      mgl64.Vec3
	originOffset float64
	tol          float64
}

// NewPlane builds the plane through p with the given normal.
func NewPlane(p, normal mgl64.Vec3, tolerance float64) (*Plane, error) {
	n := normal.Len()
	if n < 1.0e-10 {
		return nil, fmt.Errorf("%w: plane normal has near zero norm", carve.ErrDegenerateOperation)
	}
	w := normal.Mul(1 / n)
	u := orthogonal(w)
	return &Plane{
		u:            u,
		v:            w.Cross(u),
		w:            w,
		originOffset: -p.Dot(w),
		tol:          tolerance,
	}, nil
}

// NewPlaneFromPoints builds the plane through three points, oriented so
// that the points wind counterclockwise seen from the plus side.
func NewPlaneFromPoints(p1, p2, p3 mgl64.Vec3, tolerance float64) (*Plane, error) {
	normal := p2.Sub(p1).Cross(p3.Sub(p1))
	return NewPlane(p1, normal, tolerance)
}

// orthogonal returns a unit vector orthogonal to the given unit vector,
// built on the smallest coordinate to stay well conditioned.
func orthogonal(w mgl64.Vec3) mgl64.Vec3 {
	threshold := 0.6
	switch {
	case abs(w[0]) <= threshold:
		inv := 1 / mgl64.Vec2{w[1], w[2]}.Len()
		return mgl64.Vec3{0, inv * w[2], -inv * w[1]}
	case abs(w[1]) <= threshold:
		inv := 1 / mgl64.Vec2{w[0], w[2]}.Len()
		return mgl64.Vec3{-inv * w[2], 0, inv * w[0]}
	default:
		inv := 1 / mgl64.Vec2{w[0], w[1]}.Len()
		return mgl64.Vec3{inv * w[1], -inv * w[0], 0}
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Normal returns the unit normal of the plane.
func (p *Plane) Normal() mgl64.Vec3 { return p.w }

// U returns the first in-plane frame vector.
func (p *Plane) U() mgl64.Vec3 { return p.u }

// V returns the second in-plane frame vector.
func (p *Plane) V() mgl64.Vec3 { return p.v }

// Reverse returns the same plane with the opposite orientation. The
// frame vectors are swapped so the frame stays right-handed.
func (p *Plane) Reverse() *Plane {
	return &Plane{
		u:            p.v,
		v:            p.u,
		w:            p.w.Mul(-1),
		originOffset: -p.originOffset,
		tol:          p.tol,
	}
}

// Offset returns the signed distance to the plane.
func (p *Plane) Offset(point mgl64.Vec3) float64 {
	return point.Dot(p.w) + p.originOffset
}

// OffsetPlane returns the signed distance to a parallel plane.
func (p *Plane) OffsetPlane(other *Plane) float64 {
	if p.w.Dot(other.w) > 0 {
		return p.originOffset - other.originOffset
	}
	return p.originOffset + other.originOffset
}

// ToSubSpace returns the in-plane coordinates of the projection of point.
func (p *Plane) ToSubSpace(point mgl64.Vec3) mgl64.Vec2 {
	return mgl64.Vec2{point.Dot(p.u), point.Dot(p.v)}
}

// ToSpace returns the space point with the given in-plane coordinates.
func (p *Plane) ToSpace(inPlane mgl64.Vec2) mgl64.Vec3 {
	return p.PointAt(inPlane, 0)
}

// PointAt returns the space point with the given in-plane coordinates and
// offset from the plane.
func (p *Plane) PointAt(inPlane mgl64.Vec2, offset float64) mgl64.Vec3 {
	return p.u.Mul(inPlane[0]).
		Add(p.v.Mul(inPlane[1])).
		Add(p.w.Mul(offset - p.originOffset))
}

// Project returns the orthogonal projection of point onto the plane.
func (p *Plane) Project(point mgl64.Vec3) mgl64.Vec3 {
	return p.ToSpace(p.ToSubSpace(point))
}

// Tolerance is the thickness below which points merge with the plane.
func (p *Plane) Tolerance() float64 { return p.tol }

// SameOrientationAs reports whether the other plane, assumed parallel,
// has its normal pointing the same way.
func (p *Plane) SameOrientationAs(other carve.Hyperplane[mgl64.Vec3]) bool {
	return p.w.Dot(other.(*Plane).w) > 0
}

// WholeHyperplane returns the facet covering the full plane.
func (p *Plane) WholeHyperplane() carve.SubHyperplane[mgl64.Vec3] {
	return NewSubPlane(p, planar.NewAll(p.tol))
}

// WholeSpace returns the whole 3D space.
func (p *Plane) WholeSpace() carve.Region[mgl64.Vec3] {
	return NewAll(p.tol)
}

// Intersect returns a point of the intersection line with another plane
// and the direction of that line. Parallel planes have no intersection
// line and yield ErrDegenerateOperation.
func (p *Plane) Intersect(other *Plane) (point, direction mgl64.Vec3, err error) {
	direction = p.w.Cross(other.w)
	if direction.Len() < 1.0e-10 {
		return mgl64.Vec3{}, mgl64.Vec3{}, fmt.Errorf("%w: planes are parallel", carve.ErrDegenerateOperation)
	}
	through, err := NewPlane(mgl64.Vec3{}, direction, p.tol)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, err
	}
	point, err = IntersectThree(p, other, through)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, err
	}
	return point, direction, nil
}

// IntersectThree returns the point common to three planes, solving the
// linear system of their offset equations.
func IntersectThree(p1, p2, p3 *Plane) (mgl64.Vec3, error) {
	a := mat.NewDense(3, 3, []float64{
		p1.w[0], p1.w[1], p1.w[2],
		p2.w[0], p2.w[1], p2.w[2],
		p3.w[0], p3.w[1], p3.w[2],
	})
	b := mat.NewVecDense(3, []float64{-p1.originOffset, -p2.originOffset, -p3.originOffset})
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return mgl64.Vec3{}, fmt.Errorf("%w: planes have no single common point", carve.ErrDegenerateOperation)
	}
	return mgl64.Vec3{x.AtVec(0), x.AtVec(1), x.AtVec(2)}, nil
}
