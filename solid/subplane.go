package solid

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/carvengine/carve"
	"github.com/carvengine/carve/planar"
)

// SubPlane is a facet: the part of a plane remaining after trimming,
// described as a 2D polygon in the plane's own frame.
type SubPlane struct {
	plane     *Plane
	remaining *planar.Set
}

// NewSubPlane builds a facet from its supporting plane and the in-plane
// polygon it covers.
func NewSubPlane(plane *Plane, remaining *planar.Set) *SubPlane {
	return &SubPlane{plane: plane, remaining: remaining}
}

// Plane returns the supporting plane.
func (s *SubPlane) Plane() *Plane { return s.plane }

// Remaining returns the in-plane polygon covered by the facet.
func (s *SubPlane) Remaining() *planar.Set { return s.remaining }

// Hyperplane returns the supporting plane.
func (s *SubPlane) Hyperplane() carve.Hyperplane[mgl64.Vec3] { return s.plane }

// IsEmpty reports whether nothing remains of the plane.
func (s *SubPlane) IsEmpty() bool { return s.remaining.IsEmpty() }

// Size returns the area of the facet.
func (s *SubPlane) Size() float64 {
	size, err := s.remaining.Size()
	if err != nil {
		return 0
	}
	return size
}

func (s *SubPlane) empty() *SubPlane {
	return NewSubPlane(s.plane, planar.NewEmpty(s.plane.tol))
}

// Split cuts the facet by another plane. The splitter traces a line in
// the facet's own frame and the in-plane polygon is cut along it.
func (s *SubPlane) Split(splitter carve.Hyperplane[mgl64.Vec3]) carve.SplitSub[mgl64.Vec3] {
	other := splitter.(*Plane)
	tol := s.plane.tol

	dir := other.w.Cross(s.plane.w)
	if dir.Len() < 1.0e-10 {
		// parallel planes
		global := other.OffsetPlane(s.plane)
		switch {
		case global < -tol:
			return carve.SplitSub[mgl64.Vec3]{Plus: s.empty(), Minus: s}
		case global > tol:
			return carve.SplitSub[mgl64.Vec3]{Plus: s, Minus: s.empty()}
		default:
			return carve.SplitSub[mgl64.Vec3]{Plus: s.empty(), Minus: s.empty()}
		}
	}

	// a point on the intersection line of the two planes
	through, err := NewPlane(mgl64.Vec3{}, dir, tol)
	if err != nil {
		return carve.SplitSub[mgl64.Vec3]{Plus: s.empty(), Minus: s.empty()}
	}
	onLine, err := IntersectThree(s.plane, other, through)
	if err != nil {
		return carve.SplitSub[mgl64.Vec3]{Plus: s.empty(), Minus: s.empty()}
	}

	// trace of the splitter in the facet frame, oriented so that its
	// plus half-plane maps onto the plus side of the splitter
	p := s.plane.ToSubSpace(onLine)
	q := s.plane.ToSubSpace(onLine.Add(dir))
	if dir.Cross(s.plane.w).Dot(other.w) < 0 {
		p, q = q, p
	}
	trace, err := planar.NewLine(p, q, tol)
	if err != nil {
		return carve.SplitSub[mgl64.Vec3]{Plus: s.empty(), Minus: s.empty()}
	}

	f := carve.Factory[mgl64.Vec2]{}
	plusRemaining, _ := f.Intersection(s.remaining, halfPlane(trace, true))
	minusRemaining, _ := f.Intersection(s.remaining, halfPlane(trace, false))
	return carve.SplitSub[mgl64.Vec3]{
		Plus:  NewSubPlane(s.plane, plusRemaining.(*planar.Set)),
		Minus: NewSubPlane(s.plane, minusRemaining.(*planar.Set)),
	}
}

// halfPlane returns the 2D region on one side of a line.
func halfPlane(line *planar.Line, plusSide bool) *planar.Set {
	tree := carve.NewNode(line.WholeHyperplane(),
		carve.NewLeaf[mgl64.Vec2](plusSide),
		carve.NewLeaf[mgl64.Vec2](!plusSide))
	return planar.FromTree(tree, line.Tolerance())
}

// Reunite merges two facets of the same plane.
func (s *SubPlane) Reunite(other carve.SubHyperplane[mgl64.Vec3]) carve.SubHyperplane[mgl64.Vec3] {
	o := other.(*SubPlane)
	f := carve.Factory[mgl64.Vec2]{}
	union, _ := f.Union(s.remaining, o.remaining)
	return NewSubPlane(s.plane, union.(*planar.Set))
}

// Closest returns the point of the facet closest to p.
func (s *SubPlane) Closest(p mgl64.Vec3) (mgl64.Vec3, bool) {
	if s.IsEmpty() {
		return mgl64.Vec3{}, false
	}
	inPlane := s.plane.ToSubSpace(p)
	switch s.remaining.CheckPoint(inPlane) {
	case carve.Inside, carve.Boundary:
		return s.plane.ToSpace(inPlane), true
	}
	proj := s.remaining.ProjectToBoundary(inPlane)
	if !proj.Valid {
		return mgl64.Vec3{}, false
	}
	return s.plane.ToSpace(proj.Projected), true
}
