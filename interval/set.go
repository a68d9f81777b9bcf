package interval

import (
	"math"
	"sync"

	"github.com/carvengine/carve"
)

// Interval is a closed interval of the real line. Bounds may be infinite.
type Interval struct {
	Lower float64
	Upper float64
}

// Size returns the length of the interval.
func (i Interval) Size() float64 { return i.Upper - i.Lower }

// Barycenter returns the midpoint of the interval.
func (i Interval) Barycenter() float64 { return 0.5 * (i.Lower + i.Upper) }

// Set is a 1D region: a finite union of intervals backed by a BSP tree of
// oriented points.
type Set struct {
	carve.Base[float64]

	once       sync.Once
	size       float64
	barycenter float64
}

func newSet(tree *carve.Tree[float64], tol float64) *Set {
	return &Set{Base: carve.NewBase(tree, tol, dist1D)}
}

func dist1D(a, b float64) float64 { return math.Abs(a - b) }

// NewAll returns the whole real line.
func NewAll(tolerance float64) *Set {
	return newSet(carve.NewLeaf[float64](true), tolerance)
}

// NewEmpty returns the empty set.
func NewEmpty(tolerance float64) *Set {
	return newSet(carve.NewLeaf[float64](false), tolerance)
}

// New returns the set covering a single interval. Bounds may be infinite.
func New(lower, upper, tolerance float64) *Set {
	return newSet(buildTree(lower, upper, tolerance), tolerance)
}

// FromTree wraps a raw inside/outside tree. The tree is not validated.
func FromTree(tree *carve.Tree[float64], tolerance float64) *Set {
	return newSet(tree, tolerance)
}

// FromBoundary builds a set from boundary points, each having the inside
// of the set on its minus side. An empty boundary yields the whole line.
func FromBoundary(tolerance float64, boundary ...carve.SubHyperplane[float64]) *Set {
	return newSet(carve.TreeFromBoundary(boundary), tolerance)
}

func buildTree(lower, upper, tolerance float64) *carve.Tree[float64] {
	lowerInf := math.IsInf(lower, -1)
	upperInf := math.IsInf(upper, 1)
	switch {
	case lowerInf && upperInf:
		return carve.NewLeaf[float64](true)
	case lowerInf:
		upperCut := NewOrientedPoint(upper, true, tolerance).WholeHyperplane()
		return carve.NewNode(upperCut, carve.NewLeaf[float64](false), carve.NewLeaf[float64](true))
	case upperInf:
		lowerCut := NewOrientedPoint(lower, false, tolerance).WholeHyperplane()
		return carve.NewNode(lowerCut, carve.NewLeaf[float64](false), carve.NewLeaf[float64](true))
	default:
		lowerCut := NewOrientedPoint(lower, false, tolerance).WholeHyperplane()
		upperCut := NewOrientedPoint(upper, true, tolerance).WholeHyperplane()
		inner := carve.NewNode(upperCut, carve.NewLeaf[float64](false), carve.NewLeaf[float64](true))
		return carve.NewNode(lowerCut, carve.NewLeaf[float64](false), inner)
	}
}

// Dimension returns 1.
func (s *Set) Dimension() int { return 1 }

// BuildNew wraps a tree into a new set.
func (s *Set) BuildNew(tree *carve.Tree[float64], tol float64) carve.Region[float64] {
	return FromTree(tree, tol)
}

// Size returns the total length of the intervals.
func (s *Set) Size() (float64, error) {
	s.once.Do(s.computeProperties)
	return s.size, nil
}

// Barycenter returns the center of mass of the intervals. It is NaN for
// empty or infinite sets.
func (s *Set) Barycenter() (float64, error) {
	s.once.Do(s.computeProperties)
	return s.barycenter, nil
}

func (s *Set) computeProperties() {
	tree := s.Tree()
	if tree.IsLeaf() {
		s.barycenter = math.NaN()
		if tree.Inside() {
			s.size = math.Inf(1)
		}
		return
	}
	size, sum := 0.0, 0.0
	for _, iv := range s.AsList() {
		size += iv.Size()
		sum += iv.Size() * iv.Barycenter()
	}
	s.size = size
	switch {
	case math.IsInf(size, 1):
		s.barycenter = math.NaN()
	case size > 0:
		s.barycenter = sum / size
	default:
		s.barycenter = tree.Cut().Hyperplane().(*OrientedPoint).Location()
	}
}

// Inf returns the lowest coordinate of the set, -Inf when unbounded below
// and +Inf when the set is empty.
func (s *Set) Inf() float64 {
	node := s.Tree()
	inf := math.Inf(1)
	for !node.IsLeaf() {
		op := node.Cut().Hyperplane().(*OrientedPoint)
		inf = op.Location()
		if op.Direct() {
			node = node.Minus()
		} else {
			node = node.Plus()
		}
	}
	if node.Inside() {
		return math.Inf(-1)
	}
	return inf
}

// Sup returns the highest coordinate of the set, +Inf when unbounded
// above and -Inf when the set is empty.
func (s *Set) Sup() float64 {
	node := s.Tree()
	sup := math.Inf(-1)
	for !node.IsLeaf() {
		op := node.Cut().Hyperplane().(*OrientedPoint)
		sup = op.Location()
		if op.Direct() {
			node = node.Plus()
		} else {
			node = node.Minus()
		}
	}
	if node.Inside() {
		return math.Inf(1)
	}
	return sup
}

// AsList returns the set as an ordered list of disjoint intervals, from
// the lowest to the highest.
func (s *Set) AsList() []Interval {
	var list []Interval
	s.recurseList(s.Tree(), &list, math.Inf(-1), math.Inf(1))
	return list
}

func (s *Set) recurseList(node *carve.Tree[float64], list *[]Interval, lower, upper float64) {
	if node.IsLeaf() {
		if node.Inside() {
			*list = append(*list, Interval{Lower: lower, Upper: upper})
		}
		return
	}
	op := node.Cut().Hyperplane().(*OrientedPoint)
	x := op.Location()

	// explore in increasing coordinate order
	low, high := node.Minus(), node.Plus()
	if !op.Direct() {
		low, high = high, low
	}

	s.recurseList(low, list, lower, x)
	if carve.Locate(low, x, s.Tolerance()) == carve.Inside &&
		carve.Locate(high, x, s.Tolerance()) == carve.Inside {
		// the interval continues across the cut, merge both halves
		x = (*list)[len(*list)-1].Lower
		*list = (*list)[:len(*list)-1]
	}
	s.recurseList(high, list, x, upper)
}
