package planar

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/carvengine/carve"
)

// Set is a 2D region: a general polygon, possibly non-convex, with holes,
// disconnected parts or infinite extent, backed by a BSP tree of oriented
// lines.
type Set struct {
	carve.Base[mgl64.Vec2]

	once       sync.Once
	loops      []Loop
	loopsErr   error
	size       float64
	barycenter mgl64.Vec2
}

func newSet(tree *carve.Tree[mgl64.Vec2], tol float64) *Set {
	return &Set{Base: carve.NewBase(tree, tol, dist2D)}
}

func dist2D(a, b mgl64.Vec2) float64 { return a.Sub(b).Len() }

// NewAll returns the whole plane.
func NewAll(tolerance float64) *Set {
	return newSet(carve.NewLeaf[mgl64.Vec2](true), tolerance)
}

// NewEmpty returns the empty region.
func NewEmpty(tolerance float64) *Set {
	return newSet(carve.NewLeaf[mgl64.Vec2](false), tolerance)
}

// FromTree wraps a raw inside/outside tree. The tree is not validated;
// boundary and measure queries fail with ErrInvalidRegion if it does not
// describe a consistent region.
func FromTree(tree *carve.Tree[mgl64.Vec2], tolerance float64) *Set {
	return newSet(tree, tolerance)
}

// NewBox returns the axis-aligned rectangle [xMin, xMax] x [yMin, yMax].
// A box thinner than the tolerance in either direction collapses to the
// empty region.
func NewBox(xMin, xMax, yMin, yMax, tolerance float64) (*Set, error) {
	if xMin >= xMax-tolerance || yMin >= yMax-tolerance {
		return NewEmpty(tolerance), nil
	}
	corners := [4]mgl64.Vec2{
		{xMin, yMin},
		{xMax, yMin},
		{xMax, yMax},
		{xMin, yMax},
	}
	lines := make([]carve.Hyperplane[mgl64.Vec2], 4)
	for i := range corners {
		line, err := NewLine(corners[i], corners[(i+1)%4], tolerance)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	f := carve.Factory[mgl64.Vec2]{}
	region, err := f.BuildConvex(lines...)
	if err != nil {
		return nil, err
	}
	return region.(*Set), nil
}

// FromLoop builds the polygon bounded by a single closed vertex loop.
// The vertices must be listed counterclockwise around the inside; a
// clockwise loop describes the infinite complement of its interior.
// Consecutive coincident vertices are a degenerate input.
func FromLoop(tolerance float64, vertices ...mgl64.Vec2) (*Set, error) {
	tree, err := loopTree(tolerance, vertices)
	if err != nil {
		return nil, err
	}
	return newSet(tree, tolerance), nil
}

// FromLoops builds a polygon from several closed loops combined in
// even-odd fashion: a point is inside when it is enclosed by an odd
// number of loops. Nested loops carve holes regardless of their winding.
func FromLoops(tolerance float64, loops ...[]mgl64.Vec2) (*Set, error) {
	tree := carve.NewLeaf[mgl64.Vec2](false)
	xor := func(a, b bool) bool { return a != b }
	for _, loop := range loops {
		lt, err := loopTree(tolerance, loop)
		if err != nil {
			return nil, err
		}
		tree = tree.Merge(lt, xor)
	}
	return newSet(tree, tolerance), nil
}

// FromBoundary builds a polygon from boundary pieces, each having the
// inside of the region on its minus side. An empty boundary yields the
// whole plane.
func FromBoundary(tolerance float64, boundary ...carve.SubHyperplane[mgl64.Vec2]) *Set {
	return newSet(carve.TreeFromBoundary(boundary), tolerance)
}

// Dimension returns 2.
func (s *Set) Dimension() int { return 2 }

// BuildNew wraps a tree into a new polygon region.
func (s *Set) BuildNew(tree *carve.Tree[mgl64.Vec2], tol float64) carve.Region[mgl64.Vec2] {
	return FromTree(tree, tol)
}

// Loops returns the boundary of the polygon as ordered vertex loops, open
// loops first. The result is computed once and cached.
func (s *Set) Loops() ([]Loop, error) {
	s.once.Do(s.computeProperties)
	return s.loops, s.loopsErr
}

// Segments returns the boundary of the polygon as raw oriented segments,
// in tree traversal order, without any chaining into loops.
func (s *Set) Segments() []Segment {
	return s.boundarySegments()
}

// Size returns the area of the polygon, infinite when the polygon is
// unbounded.
func (s *Set) Size() (float64, error) {
	s.once.Do(s.computeProperties)
	if s.loopsErr != nil {
		return 0, s.loopsErr
	}
	return s.size, nil
}

// Barycenter returns the center of mass of the polygon. It is NaN for
// empty or unbounded polygons.
func (s *Set) Barycenter() (mgl64.Vec2, error) {
	s.once.Do(s.computeProperties)
	if s.loopsErr != nil {
		return mgl64.Vec2{}, s.loopsErr
	}
	return s.barycenter, nil
}

func (s *Set) computeProperties() {
	if s.Tree().IsLeaf() {
		if s.Tree().Inside() {
			s.size = math.Inf(1)
		}
		s.barycenter = mgl64.Vec2{math.NaN(), math.NaN()}
		return
	}

	s.loops, s.loopsErr = chainLoops(s.boundarySegments(), s.Tolerance())
	if s.loopsErr != nil {
		return
	}

	if len(s.loops) == 0 {
		// a tree with cuts but no boundary: empty or full region
		if s.IsFull() {
			s.size = math.Inf(1)
		}
		s.barycenter = mgl64.Vec2{math.NaN(), math.NaN()}
		return
	}
	if !s.loops[0].Closed {
		// at least one loop reaches infinity
		s.size = math.Inf(1)
		s.barycenter = mgl64.Vec2{math.NaN(), math.NaN()}
		return
	}

	// shoelace integrals over all loops; holes wind clockwise and
	// subtract their content
	sum, sumX, sumY := 0.0, 0.0, 0.0
	for _, loop := range s.loops {
		last := loop.Points[len(loop.Points)-1]
		x1, y1 := last[0], last[1]
		for _, p := range loop.Points {
			x0, y0 := x1, y1
			x1, y1 = p[0], p[1]
			factor := x0*y1 - y0*x1
			sum += factor
			sumX += factor * (x0 + x1)
			sumY += factor * (y0 + y1)
		}
	}
	if sum < 0 {
		// finite outside surrounded by an infinite inside
		s.size = math.Inf(1)
		s.barycenter = mgl64.Vec2{math.NaN(), math.NaN()}
		return
	}
	s.size = sum / 2
	s.barycenter = mgl64.Vec2{sumX / (3 * sum), sumY / (3 * sum)}
}
