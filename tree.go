package carve

import (
	"math"
	"sort"
)

// Tree is a node of a BSP tree. Internal nodes carry a cut sub-hyperplane
// and two children: the plus child covers the part of the cell on the plus
// side of the cut, the minus child the other part. Leaves carry the inside
// flag of their convex cell.
//
// Trees are persistent. Operations never modify a node after construction,
// they build new nodes and share untouched subtrees, so a built tree can be
// read from several goroutines at once. Nodes hold no parent pointer;
// algorithms that need the ancestor cuts carry them down as an explicit
// path.
type Tree[P any] struct {
	cut    SubHyperplane[P]
	plus   *Tree[P]
	minus  *Tree[P]
	inside bool
}

// NewLeaf returns a leaf cell with the given inside flag.
func NewLeaf[P any](inside bool) *Tree[P] {
	return &Tree[P]{inside: inside}
}

// NewNode assembles an internal node from a cut and two children. The
// input is not validated: the cut piece is expected to be fitted to the
// cell the node will occupy. Queries on a malformed tree report
// ErrInvalidRegion when they depend on the broken invariant.
func NewNode[P any](cut SubHyperplane[P], plus, minus *Tree[P]) *Tree[P] {
	return &Tree[P]{cut: cut, plus: plus, minus: minus}
}

// condensedNode is NewNode with the trivial simplification applied: two
// leaf children with the same flag collapse to a single leaf.
func condensedNode[P any](cut SubHyperplane[P], plus, minus *Tree[P]) *Tree[P] {
	if plus.IsLeaf() && minus.IsLeaf() && plus.inside == minus.inside {
		return NewLeaf[P](plus.inside)
	}
	return NewNode(cut, plus, minus)
}

// IsLeaf reports whether the node has no cut.
func (t *Tree[P]) IsLeaf() bool { return t.cut == nil }

// Cut returns the cut sub-hyperplane, nil for leaves.
func (t *Tree[P]) Cut() SubHyperplane[P] { return t.cut }

// Plus returns the plus-side child, nil for leaves.
func (t *Tree[P]) Plus() *Tree[P] { return t.plus }

// Minus returns the minus-side child, nil for leaves.
func (t *Tree[P]) Minus() *Tree[P] { return t.minus }

// Inside returns the leaf flag. It is meaningful only on leaves.
func (t *Tree[P]) Inside() bool { return t.inside }

// Classify descends to the leaf cell containing the point and returns its
// inside flag. Points exactly on a cut go to the plus side.
func (t *Tree[P]) Classify(point P) bool {
	n := t
	for !n.IsLeaf() {
		if n.cut.Hyperplane().Offset(point) >= 0 {
			n = n.plus
		} else {
			n = n.minus
		}
	}
	return n.inside
}

// cell returns the deepest node whose cuts all stay farther than tol from
// the point: a leaf when the point is clearly within one cell, an internal
// node when the point lies within tolerance of its cut.
func (t *Tree[P]) cell(point P, tol float64) *Tree[P] {
	n := t
	for !n.IsLeaf() {
		offset := n.cut.Hyperplane().Offset(point)
		switch {
		case math.Abs(offset) < tol:
			return n
		case offset <= 0:
			n = n.minus
		default:
			n = n.plus
		}
	}
	return n
}

// CutStep records one ancestor cut on the way down to a cell, with the
// side of the cut the cell lies on. A slice of steps identifies a convex
// cell; trees carry no parent pointers, so algorithms descending a tree
// maintain the steps themselves.
type CutStep[P any] struct {
	Hyperplane Hyperplane[P]
	PlusSide   bool
}

// extendPath copies the path and appends one step. Paths are shared by
// sibling recursions, so extension never reuses the backing array.
func extendPath[P any](path []CutStep[P], h Hyperplane[P], plusSide bool) []CutStep[P] {
	next := make([]CutStep[P], len(path)+1)
	copy(next, path)
	next[len(path)] = CutStep[P]{Hyperplane: h, PlusSide: plusSide}
	return next
}

// FitToCell chops a sub-hyperplane by every ancestor cut of a cell,
// keeping the side the cell lies on. The result is the part of the piece
// that intersects the cell, possibly empty.
func FitToCell[P any](sub SubHyperplane[P], path []CutStep[P]) SubHyperplane[P] {
	s := sub
	for _, step := range path {
		if emptyPiece(s) {
			return s
		}
		parts := s.Split(step.Hyperplane)
		if step.PlusSide {
			s = parts.Plus
		} else {
			s = parts.Minus
		}
	}
	return s
}

func emptyPiece[P any](s SubHyperplane[P]) bool {
	return s == nil || s.IsEmpty()
}

// TreeFromBoundary builds an inside/outside tree from a boundary
// representation. Each element must have the inside of the region on its
// minus side. Elements are inserted largest first and keep their own
// extent as the node cut, so a boundary that does not close up is caught
// when the tree is next characterized. An empty boundary yields the
// whole space.
func TreeFromBoundary[P any](boundary []SubHyperplane[P]) *Tree[P] {
	if len(boundary) == 0 {
		return NewLeaf[P](true)
	}
	subs := make([]SubHyperplane[P], len(boundary))
	copy(subs, boundary)
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].Size() > subs[j].Size()
	})
	return insertBoundary(subs, false)
}

func insertBoundary[P any](subs []SubHyperplane[P], plusChild bool) *Tree[P] {
	if len(subs) == 0 {
		// the cell is not crossed by any boundary element; a plus-side
		// cell has the boundary inside on its far side
		return NewLeaf[P](!plusChild)
	}

	cut := subs[0]
	h := cut.Hyperplane()
	var plusList, minusList []SubHyperplane[P]
	for _, s := range subs[1:] {
		parts := s.Split(h)
		if parts.Side() == SideHyper {
			// another piece of the same cut
			if h.SameOrientationAs(s.Hyperplane()) {
				cut = cut.Reunite(s)
			}
			continue
		}
		if !emptyPiece(parts.Plus) {
			plusList = append(plusList, parts.Plus)
		}
		if !emptyPiece(parts.Minus) {
			minusList = append(minusList, parts.Minus)
		}
	}

	return NewNode(cut, insertBoundary(plusList, true), insertBoundary(minusList, false))
}
