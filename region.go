package carve

import (
	"math"
	"sync"
)

// Location is the result of classifying a point against a region.
type Location int

const (
	Inside Location = iota
	Outside
	Boundary
)

func (l Location) String() string {
	switch l {
	case Inside:
		return "inside"
	case Outside:
		return "outside"
	default:
		return "boundary"
	}
}

// Locate classifies a point against the subtree rooted at node. The point
// is first routed to its cell; when it lies within tolerance of a cut,
// both sides of the cut are explored and a disagreement between them means
// the point sits on the region boundary.
func Locate[P any](node *Tree[P], point P, tol float64) Location {
	cell := node.cell(point, tol)
	if cell.IsLeaf() {
		if cell.inside {
			return Inside
		}
		return Outside
	}
	minusLoc := Locate(cell.minus, point, tol)
	plusLoc := Locate(cell.plus, point, tol)
	if minusLoc == plusLoc {
		return minusLoc
	}
	return Boundary
}

// Region is an inside/outside partition of an ambient space backed by a
// BSP tree. Regions are immutable once built and safe for concurrent
// reads.
type Region[P any] interface {
	// Tree returns the underlying BSP tree.
	Tree() *Tree[P]
	// Tolerance is the thickness of the region boundary.
	Tolerance() float64
	// Dimension returns the dimension of the ambient space.
	Dimension() int
	// BuildNew wraps a tree into a region of the same concrete type.
	BuildNew(tree *Tree[P], tol float64) Region[P]
	// CheckPoint classifies a point against the region.
	CheckPoint(point P) Location
	// IsEmpty reports whether the region contains no inside cell.
	IsEmpty() bool
	// IsFull reports whether the region covers the whole space.
	IsFull() bool
	// Size returns the n-dimensional measure of the region.
	Size() (float64, error)
	// Barycenter returns the center of mass of the region. It is
	// undefined for empty or infinite regions.
	Barycenter() (P, error)
	// BoundarySize returns the n-1 dimensional measure of the boundary.
	BoundarySize() (float64, error)
	// ProjectToBoundary returns the boundary point closest to the given
	// point along with the signed distance to it.
	ProjectToBoundary(point P) Projection[P]
	// Side locates the region relative to a hyperplane.
	Side(h Hyperplane[P]) Side
}

// Projection is the result of projecting a point onto a region boundary.
// Offset is negative when the original point is inside the region. When
// the region has no boundary at all, Valid is false and Offset is
// infinite.
type Projection[P any] struct {
	Original  P
	Projected P
	Offset    float64
	Valid     bool
}

// Base carries the dimension-independent part of a region: the tree, the
// tolerance and the lazily computed boundary attributes. Concrete regions
// embed it and add their measures.
type Base[P any] struct {
	root *Tree[P]
	tol  float64
	dist func(a, b P) float64

	once     sync.Once
	boundary BoundaryMap[P]
}

// NewBase wraps a tree. dist is the ambient distance, used for boundary
// projection.
func NewBase[P any](root *Tree[P], tol float64, dist func(a, b P) float64) Base[P] {
	return Base[P]{root: root, tol: tol, dist: dist}
}

// Tree returns the underlying BSP tree.
func (b *Base[P]) Tree() *Tree[P] { return b.root }

// Tolerance is the thickness of the region boundary.
func (b *Base[P]) Tolerance() float64 { return b.tol }

// CheckPoint classifies a point against the region.
func (b *Base[P]) CheckPoint(point P) Location {
	return Locate(b.root, point, b.tol)
}

// IsEmpty reports whether no leaf cell is inside.
func (b *Base[P]) IsEmpty() bool { return !hasLeaf(b.root, true) }

// IsFull reports whether no leaf cell is outside.
func (b *Base[P]) IsFull() bool { return !hasLeaf(b.root, false) }

func hasLeaf[P any](t *Tree[P], inside bool) bool {
	stack := []*Tree[P]{t}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.IsLeaf() {
			if n.inside == inside {
				return true
			}
			continue
		}
		stack = append(stack, n.plus, n.minus)
	}
	return false
}

// Boundary returns the boundary attributes of the tree, computed on first
// use and cached.
func (b *Base[P]) Boundary() BoundaryMap[P] {
	b.once.Do(func() {
		b.boundary = buildBoundary(b.root)
	})
	return b.boundary
}

// BoundarySize sums the measures of every boundary piece.
func (b *Base[P]) BoundarySize() (float64, error) {
	total := 0.0
	for _, attr := range b.Boundary() {
		if !emptyPiece(attr.PlusOutside) {
			total += attr.PlusOutside.Size()
		}
		if !emptyPiece(attr.PlusInside) {
			total += attr.PlusInside.Size()
		}
	}
	if math.IsNaN(total) {
		return 0, ErrInvalidRegion
	}
	return total, nil
}

// ProjectToBoundary scans the boundary pieces for the point closest to the
// given point.
func (b *Base[P]) ProjectToBoundary(point P) Projection[P] {
	proj := Projection[P]{Original: point, Offset: math.Inf(1)}
	for _, attr := range b.Boundary() {
		for _, piece := range [2]SubHyperplane[P]{attr.PlusOutside, attr.PlusInside} {
			if emptyPiece(piece) {
				continue
			}
			q, ok := piece.Closest(point)
			if !ok {
				continue
			}
			if d := b.dist(point, q); d < proj.Offset {
				proj.Projected = q
				proj.Offset = d
				proj.Valid = true
			}
		}
	}
	if b.CheckPoint(point) == Inside {
		proj.Offset = -proj.Offset
	}
	return proj
}

// Side locates the whole region relative to a hyperplane: SidePlus when
// all inside points are on its plus side, SideMinus for the minus side,
// SideBoth when the hyperplane crosses the region and SideHyper when the
// region touches the hyperplane without crossing it.
func (b *Base[P]) Side(h Hyperplane[P]) Side {
	finder := sideFinder[P]{}
	finder.recurse(b.root, h.WholeHyperplane())
	switch {
	case finder.plusFound && finder.minusFound:
		return SideBoth
	case finder.plusFound:
		return SidePlus
	case finder.minusFound:
		return SideMinus
	default:
		return SideHyper
	}
}

type sideFinder[P any] struct {
	plusFound  bool
	minusFound bool
}

func (f *sideFinder[P]) recurse(node *Tree[P], sub SubHyperplane[P]) {
	if node.IsLeaf() {
		if node.inside {
			// an inside cell expands across the hyperplane
			f.plusFound = true
			f.minusFound = true
		}
		return
	}
	h := node.cut.Hyperplane()
	parts := sub.Split(h)
	switch parts.Side() {
	case SidePlus:
		if node.cut.Split(sub.Hyperplane()).Side() == SidePlus {
			if hasLeaf(node.minus, true) {
				f.plusFound = true
			}
		} else {
			if hasLeaf(node.minus, true) {
				f.minusFound = true
			}
		}
		if !(f.plusFound && f.minusFound) {
			f.recurse(node.plus, sub)
		}
	case SideMinus:
		if node.cut.Split(sub.Hyperplane()).Side() == SidePlus {
			if hasLeaf(node.plus, true) {
				f.plusFound = true
			}
		} else {
			if hasLeaf(node.plus, true) {
				f.minusFound = true
			}
		}
		if !(f.plusFound && f.minusFound) {
			f.recurse(node.minus, sub)
		}
	case SideBoth:
		f.recurse(node.plus, parts.Plus)
		if !(f.plusFound && f.minusFound) {
			f.recurse(node.minus, parts.Minus)
		}
	default:
		// the region boundary lies on the hyperplane itself
		if h.SameOrientationAs(sub.Hyperplane()) {
			if !node.plus.IsLeaf() || node.plus.inside {
				f.plusFound = true
			}
			if !node.minus.IsLeaf() || node.minus.inside {
				f.minusFound = true
			}
		} else {
			if !node.plus.IsLeaf() || node.plus.inside {
				f.minusFound = true
			}
			if !node.minus.IsLeaf() || node.minus.inside {
				f.plusFound = true
			}
		}
	}
}
