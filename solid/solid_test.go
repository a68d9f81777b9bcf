package solid

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvengine/carve"
)

const tol = 1.0e-10

func TestPlaneOffset(t *testing.T) {
	tests := []struct {
		name   string
		point  mgl64.Vec3
		normal mgl64.Vec3
		at     mgl64.Vec3
		want   float64
	}{
		{"above xy plane", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 2, 5}, 5},
		{"below xy plane", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 2, -5}, -5},
		{"shifted plane", mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 5}, 3},
		{"unnormalized normal", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 7}, mgl64.Vec3{0, 0, 5}, 5},
		{"oblique", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, math.Sqrt(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPlane(tt.point, tt.normal, tol)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, p.Offset(tt.at), 1.0e-9)
		})
	}
}

func TestPlaneDegenerateNormal(t *testing.T) {
	_, err := NewPlane(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, 0}, tol)
	assert.ErrorIs(t, err, carve.ErrDegenerateOperation)
}

func TestPlaneFromPoints(t *testing.T) {
	p, err := NewPlaneFromPoints(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, tol)
	require.NoError(t, err)
	assert.InDelta(t, 1, p.Normal()[2], tol)
	assert.InDelta(t, 5, p.Offset(mgl64.Vec3{7, 7, 5}), tol)
}

func TestPlaneFrameRoundTrip(t *testing.T) {
	p, err := NewPlane(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, -2, 2}, tol)
	require.NoError(t, err)

	// the frame is right-handed and orthonormal
	assert.InDelta(t, 0, p.U().Dot(p.V()), tol)
	assert.InDelta(t, 0, p.U().Dot(p.Normal()), tol)
	assert.InDelta(t, 1, p.U().Cross(p.V()).Dot(p.Normal()), tol)

	for _, point := range []mgl64.Vec3{{1, 2, 3}, {3, 3, 3}, {-4, 0, 1}} {
		proj := p.Project(point)
		assert.InDelta(t, 0, p.Offset(proj), 1.0e-9)
		dist := point.Sub(proj).Len()
		assert.InDelta(t, math.Abs(p.Offset(point)), dist, 1.0e-9)
	}
}

func TestPlaneReverse(t *testing.T) {
	p, err := NewPlane(mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 0, 1}, tol)
	require.NoError(t, err)
	rev := p.Reverse()

	at := mgl64.Vec3{4, 5, 6}
	assert.InDelta(t, -p.Offset(at), rev.Offset(at), tol)
	assert.False(t, p.SameOrientationAs(rev))
	// reversing keeps the frame right-handed
	assert.InDelta(t, 1, rev.U().Cross(rev.V()).Dot(rev.Normal()), tol)
}

func TestIntersectThree(t *testing.T) {
	px, err := NewPlane(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}, tol)
	require.NoError(t, err)
	py, err := NewPlane(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 1, 0}, tol)
	require.NoError(t, err)
	pz, err := NewPlane(mgl64.Vec3{0, 0, 3}, mgl64.Vec3{0, 0, 1}, tol)
	require.NoError(t, err)

	point, err := IntersectThree(px, py, pz)
	require.NoError(t, err)
	assert.InDelta(t, 1, point[0], tol)
	assert.InDelta(t, 2, point[1], tol)
	assert.InDelta(t, 3, point[2], tol)

	// two parallel planes leave the system singular
	px2, err := NewPlane(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{1, 0, 0}, tol)
	require.NoError(t, err)
	_, err = IntersectThree(px, px2, pz)
	assert.ErrorIs(t, err, carve.ErrDegenerateOperation)
}

func TestPlaneIntersect(t *testing.T) {
	ground, err := NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1}, tol)
	require.NoError(t, err)
	wall, err := NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, tol)
	require.NoError(t, err)

	point, direction, err := ground.Intersect(wall)
	require.NoError(t, err)
	// the intersection is the y axis
	assert.InDelta(t, 0, point[0], 1.0e-9)
	assert.InDelta(t, 0, point[2], 1.0e-9)
	assert.InDelta(t, 0, direction[0], tol)
	assert.InDelta(t, 1, direction[1], tol)
	assert.InDelta(t, 0, direction[2], tol)

	shifted, err := NewPlane(mgl64.Vec3{0, 0, 3}, mgl64.Vec3{0, 0, 1}, tol)
	require.NoError(t, err)
	_, _, err = ground.Intersect(shifted)
	assert.ErrorIs(t, err, carve.ErrDegenerateOperation)
}

func TestSubPlaneSplit(t *testing.T) {
	ground, err := NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1}, tol)
	require.NoError(t, err)
	wall, err := NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, tol)
	require.NoError(t, err)

	whole := ground.WholeHyperplane().(*SubPlane)
	parts := whole.Split(wall)
	assert.Equal(t, carve.SideBoth, parts.Side())

	plus := parts.Plus.(*SubPlane)
	minus := parts.Minus.(*SubPlane)
	onPlus, ok := plus.Closest(mgl64.Vec3{3, 1, 0})
	require.True(t, ok)
	assert.InDelta(t, 3, onPlus[0], 1.0e-9)
	onMinus, ok := minus.Closest(mgl64.Vec3{3, 1, 0})
	require.True(t, ok)
	assert.InDelta(t, 0, onMinus[0], 1.0e-9)

	// splitting by a parallel plane leaves the facet whole on one side
	above, err := NewPlane(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}, tol)
	require.NoError(t, err)
	parts = whole.Split(above)
	assert.Equal(t, carve.SideMinus, parts.Side())
}

func TestUnitBox(t *testing.T) {
	box, err := NewBox(0, 1, 0, 1, 0, 1, tol)
	require.NoError(t, err)

	volume, err := box.Size()
	require.NoError(t, err)
	assert.InDelta(t, 1, volume, 1.0e-9)

	bary, err := box.Barycenter()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, bary[0], 1.0e-9)
	assert.InDelta(t, 0.5, bary[1], 1.0e-9)
	assert.InDelta(t, 0.5, bary[2], 1.0e-9)

	surface, err := box.BoundarySize()
	require.NoError(t, err)
	assert.InDelta(t, 6, surface, 1.0e-9)

	tests := []struct {
		name  string
		point mgl64.Vec3
		want  carve.Location
	}{
		{"center", mgl64.Vec3{0.5, 0.5, 0.5}, carve.Inside},
		{"outside", mgl64.Vec3{1.5, 0.5, 0.5}, carve.Outside},
		{"on a face", mgl64.Vec3{0.5, 0.5, 1}, carve.Boundary},
		{"on an edge", mgl64.Vec3{0, 0.5, 1}, carve.Boundary},
		{"on a corner", mgl64.Vec3{1, 1, 1}, carve.Boundary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, box.CheckPoint(tt.point))
		})
	}
}

func TestOverlappingBoxesUnion(t *testing.T) {
	a, err := NewBox(0, 2, 0, 2, 0, 2, tol)
	require.NoError(t, err)
	b, err := NewBox(1, 3, 1, 3, 1, 3, tol)
	require.NoError(t, err)

	f := carve.Factory[mgl64.Vec3]{}
	region, err := f.Union(a, b)
	require.NoError(t, err)
	union := region.(*Set)

	volume, err := union.Size()
	require.NoError(t, err)
	assert.InDelta(t, 15, volume, 1.0e-9)

	bary, err := union.Barycenter()
	require.NoError(t, err)
	assert.InDelta(t, 1.5, bary[0], 1.0e-9)
	assert.InDelta(t, 1.5, bary[1], 1.0e-9)
	assert.InDelta(t, 1.5, bary[2], 1.0e-9)

	surface, err := union.BoundarySize()
	require.NoError(t, err)
	assert.InDelta(t, 42, surface, 1.0e-9)

	assert.Equal(t, carve.Inside, union.CheckPoint(mgl64.Vec3{1.5, 1.5, 1.5}))
	assert.Equal(t, carve.Inside, union.CheckPoint(mgl64.Vec3{2.5, 2.5, 2.5}))
	assert.Equal(t, carve.Outside, union.CheckPoint(mgl64.Vec3{2.5, 0.5, 0.5}))
	// a face of the first box buried inside the second one is not boundary
	assert.Equal(t, carve.Inside, union.CheckPoint(mgl64.Vec3{2, 1.5, 1.5}))
	assert.Equal(t, carve.Boundary, union.CheckPoint(mgl64.Vec3{2, 0.5, 0.5}))
}

func TestBoxIntersection(t *testing.T) {
	a, err := NewBox(0, 2, 0, 2, 0, 2, tol)
	require.NoError(t, err)
	b, err := NewBox(1, 3, 1, 3, 1, 3, tol)
	require.NoError(t, err)

	f := carve.Factory[mgl64.Vec3]{}
	region, err := f.Intersection(a, b)
	require.NoError(t, err)

	volume, err := region.Size()
	require.NoError(t, err)
	assert.InDelta(t, 1, volume, 1.0e-9)

	bary, err := region.Barycenter()
	require.NoError(t, err)
	assert.InDelta(t, 1.5, bary[0], 1.0e-9)
	assert.InDelta(t, 1.5, bary[1], 1.0e-9)
	assert.InDelta(t, 1.5, bary[2], 1.0e-9)
}

func TestThinBoxCollapses(t *testing.T) {
	box, err := NewBox(0, 1, 0, 1, 0, 1.0e-12, 1.0e-10)
	require.NoError(t, err)
	assert.True(t, box.IsEmpty())
	volume, err := box.Size()
	require.NoError(t, err)
	assert.Zero(t, volume)
}

func TestTetrahedron(t *testing.T) {
	// tetrahedron with vertices at the origin and on the three axes, each
	// facet oriented with its normal away from the inside
	vertices := [4]mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	}
	faces := [4][3]int{
		{0, 2, 1},
		{0, 1, 3},
		{0, 3, 2},
		{1, 2, 3},
	}
	planes := make([]carve.Hyperplane[mgl64.Vec3], len(faces))
	for i, face := range faces {
		p, err := NewPlaneFromPoints(vertices[face[0]], vertices[face[1]], vertices[face[2]], tol)
		require.NoError(t, err)
		planes[i] = p
	}

	f := carve.Factory[mgl64.Vec3]{}
	region, err := f.BuildConvex(planes...)
	require.NoError(t, err)
	tetra := region.(*Set)

	volume, err := tetra.Size()
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6, volume, 1.0e-9)

	bary, err := tetra.Barycenter()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, bary[0], 1.0e-9)
	assert.InDelta(t, 0.25, bary[1], 1.0e-9)
	assert.InDelta(t, 0.25, bary[2], 1.0e-9)

	assert.Equal(t, carve.Inside, tetra.CheckPoint(mgl64.Vec3{0.1, 0.1, 0.1}))
	assert.Equal(t, carve.Outside, tetra.CheckPoint(mgl64.Vec3{0.5, 0.5, 0.5}))
}

func TestPolyhedronComplement(t *testing.T) {
	box, err := NewBox(0, 1, 0, 1, 0, 1, tol)
	require.NoError(t, err)
	f := carve.Factory[mgl64.Vec3]{}
	outside := f.Complement(box).(*Set)

	assert.Equal(t, carve.Outside, outside.CheckPoint(mgl64.Vec3{0.5, 0.5, 0.5}))
	assert.Equal(t, carve.Inside, outside.CheckPoint(mgl64.Vec3{5, 5, 5}))

	volume, err := outside.Size()
	require.NoError(t, err)
	assert.True(t, math.IsInf(volume, 1))
	bary, err := outside.Barycenter()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(bary[0]))

	surface, err := outside.BoundarySize()
	require.NoError(t, err)
	assert.InDelta(t, 6, surface, 1.0e-9)
}

func TestPolyhedronProjection(t *testing.T) {
	box, err := NewBox(0, 1, 0, 1, 0, 1, tol)
	require.NoError(t, err)

	proj := box.ProjectToBoundary(mgl64.Vec3{0.5, 0.5, 0.2})
	assert.True(t, proj.Valid)
	assert.InDelta(t, 0.5, proj.Projected[0], 1.0e-9)
	assert.InDelta(t, 0.5, proj.Projected[1], 1.0e-9)
	assert.InDelta(t, 0, proj.Projected[2], 1.0e-9)
	assert.InDelta(t, -0.2, proj.Offset, 1.0e-9)

	proj = box.ProjectToBoundary(mgl64.Vec3{0.5, 0.5, 3})
	assert.True(t, proj.Valid)
	assert.InDelta(t, 1, proj.Projected[2], 1.0e-9)
	assert.InDelta(t, 2, proj.Offset, 1.0e-9)
}

func TestFromFacetsRoundTrip(t *testing.T) {
	box, err := NewBox(0, 1, 0, 1, 0, 1, tol)
	require.NoError(t, err)

	boundary := box.Boundary()
	var facets []carve.SubHyperplane[mgl64.Vec3]
	box.Tree().Visit(carve.MinusSubPlus, func(n *carve.Tree[mgl64.Vec3]) {
		if attr, ok := boundary[n]; ok && attr.PlusOutside != nil {
			facets = append(facets, attr.PlusOutside)
		}
	}, nil)
	require.NotEmpty(t, facets)

	rebuilt := FromFacets(tol, facets...)
	volume, err := rebuilt.Size()
	require.NoError(t, err)
	assert.InDelta(t, 1, volume, 1.0e-9)
	assert.Equal(t, carve.Inside, rebuilt.CheckPoint(mgl64.Vec3{0.5, 0.5, 0.5}))
	assert.Equal(t, carve.Outside, rebuilt.CheckPoint(mgl64.Vec3{1.5, 0.5, 0.5}))
}
