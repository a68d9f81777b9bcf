package carve_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvengine/carve"
	"github.com/carvengine/carve/interval"
)

const tol = 1.0e-10

// twoCutTree is the tree of the interval [0, 1]: a cut at 0 with the
// plus side cut again at 1.
func twoCutTree() *carve.Tree[float64] {
	inner := carve.NewNode(
		interval.NewOrientedPoint(1, true, tol).WholeHyperplane(),
		carve.NewLeaf[float64](false),
		carve.NewLeaf[float64](true))
	return carve.NewNode(
		interval.NewOrientedPoint(0, true, tol).WholeHyperplane(),
		inner,
		carve.NewLeaf[float64](false))
}

func TestVisitOrders(t *testing.T) {
	tests := []struct {
		name  string
		order carve.VisitOrder
		want  []string
	}{
		{"plus minus sub", carve.PlusMinusSub, []string{"out", "in", "cut@1", "out", "cut@0"}},
		{"plus sub minus", carve.PlusSubMinus, []string{"out", "cut@1", "in", "cut@0", "out"}},
		{"minus plus sub", carve.MinusPlusSub, []string{"out", "in", "out", "cut@1", "cut@0"}},
		{"minus sub plus", carve.MinusSubPlus, []string{"out", "cut@0", "in", "cut@1", "out"}},
		{"sub plus minus", carve.SubPlusMinus, []string{"cut@0", "cut@1", "out", "in", "out"}},
		{"sub minus plus", carve.SubMinusPlus, []string{"cut@0", "out", "cut@1", "in", "out"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			twoCutTree().Visit(tt.order,
				func(n *carve.Tree[float64]) {
					loc := n.Cut().Hyperplane().(*interval.OrientedPoint).Location()
					got = append(got, fmt.Sprintf("cut@%g", loc))
				},
				func(n *carve.Tree[float64]) {
					if n.Inside() {
						got = append(got, "in")
					} else {
						got = append(got, "out")
					}
				})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify(t *testing.T) {
	tree := twoCutTree()
	assert.True(t, tree.Classify(0.5))
	assert.False(t, tree.Classify(-0.5))
	assert.False(t, tree.Classify(1.5))
	// a point exactly on a cut goes to the plus side
	assert.True(t, tree.Classify(0))
	assert.False(t, tree.Classify(1))
}

func TestLocate(t *testing.T) {
	tree := twoCutTree()
	tests := []struct {
		name  string
		point float64
		want  carve.Location
	}{
		{"inside", 0.5, carve.Inside},
		{"outside below", -0.5, carve.Outside},
		{"outside above", 1.5, carve.Outside},
		{"on the lower cut", 0, carve.Boundary},
		{"on the upper cut", 1, carve.Boundary},
		{"within tolerance of a cut", 1 + tol/2, carve.Boundary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, carve.Locate(tree, tt.point, tol))
		})
	}
}

func TestMergeTruthTables(t *testing.T) {
	a := interval.New(0, 2, tol).Tree()
	b := interval.New(1, 3, tol).Tree()

	tests := []struct {
		name   string
		op     func(bool, bool) bool
		inside []float64
		outide []float64
	}{
		{"union", func(x, y bool) bool { return x || y }, []float64{0.5, 1.5, 2.5}, []float64{-0.5, 3.5}},
		{"intersection", func(x, y bool) bool { return x && y }, []float64{1.5}, []float64{0.5, 2.5}},
		{"xor", func(x, y bool) bool { return x != y }, []float64{0.5, 2.5}, []float64{1.5}},
		{"difference", func(x, y bool) bool { return x && !y }, []float64{0.5}, []float64{1.5, 2.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := a.Merge(b, tt.op)
			for _, x := range tt.inside {
				assert.Truef(t, merged.Classify(x), "%g should be inside", x)
			}
			for _, x := range tt.outide {
				assert.Falsef(t, merged.Classify(x), "%g should be outside", x)
			}
		})
	}
}

func TestMergeWithComplementCovers(t *testing.T) {
	f := carve.Factory[float64]{}
	s := interval.New(0, 1, tol)
	c := f.Complement(s)

	all, err := f.Union(s, c)
	require.NoError(t, err)
	assert.True(t, all.IsFull())

	nothing, err := f.Intersection(s, c)
	require.NoError(t, err)
	assert.True(t, nothing.IsEmpty())
}

func TestComplementTree(t *testing.T) {
	tree := twoCutTree()
	complement := carve.ComplementTree(tree)
	for _, x := range []float64{-1, 0.5, 2} {
		assert.Equal(t, !tree.Classify(x), complement.Classify(x))
	}
	// the original tree is untouched
	assert.True(t, tree.Classify(0.5))
}

func TestBuildConvex(t *testing.T) {
	f := carve.Factory[float64]{}

	t.Run("interval from two half lines", func(t *testing.T) {
		region, err := f.BuildConvex(
			interval.NewOrientedPoint(0, false, tol),
			interval.NewOrientedPoint(1, true, tol))
		require.NoError(t, err)
		s := region.(*interval.Set)
		size, err := s.Size()
		require.NoError(t, err)
		assert.InDelta(t, 1, size, tol)
		assert.Equal(t, carve.Inside, s.CheckPoint(0.5))
	})

	t.Run("redundant hyperplane skipped", func(t *testing.T) {
		region, err := f.BuildConvex(
			interval.NewOrientedPoint(0, false, tol),
			interval.NewOrientedPoint(1, true, tol),
			interval.NewOrientedPoint(2, true, tol))
		require.NoError(t, err)
		size, err := region.Size()
		require.NoError(t, err)
		assert.InDelta(t, 1, size, tol)
	})

	t.Run("inconsistent hyperplanes", func(t *testing.T) {
		_, err := f.BuildConvex(
			interval.NewOrientedPoint(0, true, tol),
			interval.NewOrientedPoint(1, false, tol))
		assert.ErrorIs(t, err, carve.ErrInconsistentHyperplanes)
	})

	t.Run("thin cell collapses to empty", func(t *testing.T) {
		region, err := f.BuildConvex(
			interval.NewOrientedPoint(0, true, tol),
			interval.NewOrientedPoint(tol/10, false, tol))
		require.NoError(t, err)
		assert.True(t, region.IsEmpty())
	})

	t.Run("no hyperplane at all", func(t *testing.T) {
		_, err := f.BuildConvex()
		assert.ErrorIs(t, err, carve.ErrDegenerateOperation)
	})
}

// flatland pretends a 1D set lives in a 2D space, to exercise the
// dimension check of binary operations.
type flatland struct {
	*interval.Set
}

func (flatland) Dimension() int { return 2 }

func TestDimensionMismatch(t *testing.T) {
	f := carve.Factory[float64]{}
	a := interval.New(0, 1, tol)
	b := flatland{interval.New(0, 1, tol)}

	_, err := f.Union(a, b)
	assert.ErrorIs(t, err, carve.ErrDimensionMismatch)
	_, err = f.Intersection(b, a)
	assert.ErrorIs(t, err, carve.ErrDimensionMismatch)
}

func TestTreeFromBoundary(t *testing.T) {
	// boundary of [0, 1]: both points have the inside on their minus side
	boundary := []carve.SubHyperplane[float64]{
		interval.NewOrientedPoint(1, true, tol).WholeHyperplane(),
		interval.NewOrientedPoint(0, false, tol).WholeHyperplane(),
	}
	s := interval.FromBoundary(tol, boundary...)

	assert.Equal(t, carve.Inside, s.CheckPoint(0.5))
	assert.Equal(t, carve.Outside, s.CheckPoint(-0.5))
	assert.Equal(t, carve.Outside, s.CheckPoint(1.5))
	size, err := s.Size()
	require.NoError(t, err)
	assert.InDelta(t, 1, size, tol)
}

func TestSideString(t *testing.T) {
	assert.Equal(t, "plus", carve.SidePlus.String())
	assert.Equal(t, "minus", carve.SideMinus.String())
	assert.Equal(t, "both", carve.SideBoth.String())
	assert.Equal(t, "hyper", carve.SideHyper.String())
	assert.Equal(t, "inside", carve.Inside.String())
	assert.Equal(t, "outside", carve.Outside.String())
	assert.Equal(t, "boundary", carve.Boundary.String())
}
