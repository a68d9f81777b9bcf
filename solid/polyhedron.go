package solid

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/carvengine/carve"
)

// Set is a 3D region: a polyhedron, possibly non-convex, disconnected or
// infinite, backed by a BSP tree of oriented planes.
type Set struct {
	carve.Base[mgl64.Vec3]

	once       sync.Once
	propsErr   error
	size       float64
	barycenter mgl64.Vec3
}

func newSet(tree *carve.Tree[mgl64.Vec3], tol float64) *Set {
	return &Set{Base: carve.NewBase(tree, tol, dist3D)}
}

func dist3D(a, b mgl64.Vec3) float64 { return a.Sub(b).Len() }

// NewAll returns the whole space.
func NewAll(tolerance float64) *Set {
	return newSet(carve.NewLeaf[mgl64.Vec3](true), tolerance)
}

// NewEmpty returns the empty region.
func NewEmpty(tolerance float64) *Set {
	return newSet(carve.NewLeaf[mgl64.Vec3](false), tolerance)
}

// FromTree wraps a raw inside/outside tree. The tree is not validated;
// measure queries fail with ErrInvalidRegion if it does not describe a
// consistent region.
func FromTree(tree *carve.Tree[mgl64.Vec3], tolerance float64) *Set {
	return newSet(tree, tolerance)
}

// FromFacets builds a polyhedron from boundary facets, each having the
// inside of the region on its minus side. An empty boundary yields the
// whole space.
func FromFacets(tolerance float64, facets ...carve.SubHyperplane[mgl64.Vec3]) *Set {
	return newSet(carve.TreeFromBoundary(facets), tolerance)
}

// NewBox returns the axis-aligned box delimited by the given bounds. A
// box thinner than the tolerance along any axis collapses to the empty
// region.
func NewBox(xMin, xMax, yMin, yMax, zMin, zMax, tolerance float64) (*Set, error) {
	if xMin >= xMax-tolerance || yMin >= yMax-tolerance || zMin >= zMax-tolerance {
		return NewEmpty(tolerance), nil
	}
	type face struct {
		point  mgl64.Vec3
		normal mgl64.Vec3
	}
	faces := [6]face{
		{mgl64.Vec3{xMin, 0, 0}, mgl64.Vec3{-1, 0, 0}},
		{mgl64.Vec3{xMax, 0, 0}, mgl64.Vec3{1, 0, 0}},
		{mgl64.Vec3{0, yMin, 0}, mgl64.Vec3{0, -1, 0}},
		{mgl64.Vec3{0, yMax, 0}, mgl64.Vec3{0, 1, 0}},
		{mgl64.Vec3{0, 0, zMin}, mgl64.Vec3{0, 0, -1}},
		{mgl64.Vec3{0, 0, zMax}, mgl64.Vec3{0, 0, 1}},
	}
	planes := make([]carve.Hyperplane[mgl64.Vec3], 6)
	for i, f := range faces {
		p, err := NewPlane(f.point, f.normal, tolerance)
		if err != nil {
			return nil, err
		}
		planes[i] = p
	}
	f := carve.Factory[mgl64.Vec3]{}
	region, err := f.BuildConvex(planes...)
	if err != nil {
		return nil, err
	}
	return region.(*Set), nil
}

// Dimension returns 3.
func (s *Set) Dimension() int { return 3 }

// BuildNew wraps a tree into a new polyhedron region.
func (s *Set) BuildNew(tree *carve.Tree[mgl64.Vec3], tol float64) carve.Region[mgl64.Vec3] {
	return FromTree(tree, tol)
}

// Size returns the volume of the polyhedron, infinite when unbounded.
func (s *Set) Size() (float64, error) {
	s.once.Do(s.computeProperties)
	return s.size, s.propsErr
}

// Barycenter returns the center of mass of the polyhedron. It is NaN for
// empty or unbounded polyhedrons.
func (s *Set) Barycenter() (mgl64.Vec3, error) {
	s.once.Do(s.computeProperties)
	return s.barycenter, s.propsErr
}

// computeProperties integrates volume and barycenter over the boundary
// facets with the divergence theorem.
func (s *Set) computeProperties() {
	if s.Tree().IsLeaf() {
		s.barycenter = nanVec3()
		if s.Tree().Inside() {
			s.size = math.Inf(1)
		}
		return
	}

	boundary := s.Boundary()
	total := 0.0
	acc := mgl64.Vec3{}
	unbounded := false
	var facetErr error

	s.Tree().Visit(carve.MinusSubPlus, func(n *carve.Tree[mgl64.Vec3]) {
		if unbounded || facetErr != nil {
			return
		}
		attr := boundary[n]
		for i, piece := range [2]carve.SubHyperplane[mgl64.Vec3]{attr.PlusOutside, attr.PlusInside} {
			if piece == nil {
				continue
			}
			facet := piece.(*SubPlane)
			area, err := facet.remaining.Size()
			if err != nil {
				facetErr = err
				return
			}
			if math.IsInf(area, 1) {
				unbounded = true
				return
			}
			if area <= 0 {
				continue
			}
			center, err := facet.remaining.Barycenter()
			if err != nil {
				facetErr = err
				return
			}
			facetB := facet.plane.ToSpace(center)
			scaled := area * facetB.Dot(facet.plane.w)
			if i == 1 {
				// a plus-inside facet has its normal pointing into the region
				scaled = -scaled
			}
			total += scaled
			acc = acc.Add(facetB.Mul(scaled))
		}
	}, nil)

	switch {
	case facetErr != nil:
		s.propsErr = facetErr
	case unbounded || total < 0:
		// a negative total means a finite outside with an infinite inside
		s.size = math.Inf(1)
		s.barycenter = nanVec3()
	default:
		s.size = total / 3
		if s.size > 0 {
			s.barycenter = acc.Mul(1 / (4 * s.size))
		} else {
			s.barycenter = nanVec3()
		}
	}
}

func nanVec3() mgl64.Vec3 {
	nan := math.NaN()
	return mgl64.Vec3{nan, nan, nan}
}
