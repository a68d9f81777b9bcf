package carve

import (
	"fmt"
	"math"
)

// Factory implements the boolean algebra of regions. Binary operations
// require operands of the same dimension and give the result the larger
// of the two operand tolerances, since the looser operand cannot resolve
// anything finer.
type Factory[P any] struct{}

// Union returns the region covering points inside either operand.
func (Factory[P]) Union(a, b Region[P]) (Region[P], error) {
	return combine(a, b, func(x, y bool) bool { return x || y })
}

// Intersection returns the region covering points inside both operands.
func (Factory[P]) Intersection(a, b Region[P]) (Region[P], error) {
	return combine(a, b, func(x, y bool) bool { return x && y })
}

// Xor returns the region covering points inside exactly one operand.
func (Factory[P]) Xor(a, b Region[P]) (Region[P], error) {
	return combine(a, b, func(x, y bool) bool { return x != y })
}

// Difference returns the region covering points inside a but not inside b.
func (Factory[P]) Difference(a, b Region[P]) (Region[P], error) {
	return combine(a, b, func(x, y bool) bool { return x && !y })
}

func combine[P any](a, b Region[P], op func(x, y bool) bool) (Region[P], error) {
	if a.Dimension() != b.Dimension() {
		return nil, fmt.Errorf("%w: %dD and %dD", ErrDimensionMismatch, a.Dimension(), b.Dimension())
	}
	tol := math.Max(a.Tolerance(), b.Tolerance())
	return a.BuildNew(a.Tree().Merge(b.Tree(), op), tol), nil
}

// Complement returns the region covering exactly the points outside the
// operand.
func (Factory[P]) Complement(a Region[P]) Region[P] {
	return a.BuildNew(ComplementTree(a.Tree()), a.Tolerance())
}

// Contains reports whether a covers every point of b.
func (f Factory[P]) Contains(a, b Region[P]) (bool, error) {
	diff, err := f.Difference(b, a)
	if err != nil {
		return false, err
	}
	return diff.IsEmpty(), nil
}

// BuildConvex intersects the minus half-spaces of the given hyperplanes.
// Redundant hyperplanes are skipped; two opposite hyperplanes closer than
// the tolerance collapse the result to the empty region; a strictly
// infeasible set of hyperplanes is an ErrInconsistentHyperplanes error.
func (Factory[P]) BuildConvex(hyperplanes ...Hyperplane[P]) (Region[P], error) {
	if len(hyperplanes) == 0 {
		return nil, fmt.Errorf("%w: convex region needs at least one hyperplane", ErrDegenerateOperation)
	}
	whole := hyperplanes[0].WholeSpace()
	var path []CutStep[P]
	var pieces []SubHyperplane[P]
	for _, h := range hyperplanes {
		piece := FitToCell(h.WholeHyperplane(), path)
		if emptyPiece(piece) {
			switch diagnoseMissedCut(pieces, path, h) {
			case cutRedundant:
				continue
			case cutThin:
				return whole.BuildNew(NewLeaf[P](false), whole.Tolerance()), nil
			default:
				return nil, fmt.Errorf("%w: half-spaces have an empty intersection", ErrInconsistentHyperplanes)
			}
		}
		pieces = append(pieces, piece)
		path = extendPath(path, h, false)
	}
	return whole.BuildNew(nestConvex(pieces), whole.Tolerance()), nil
}

// nestConvex chains fitted cut pieces into the tree of their common minus
// cell.
func nestConvex[P any](pieces []SubHyperplane[P]) *Tree[P] {
	tree := NewLeaf[P](true)
	for i := len(pieces) - 1; i >= 0; i-- {
		tree = NewNode(pieces[i], NewLeaf[P](false), tree)
	}
	return tree
}

type cutMiss int

const (
	cutRedundant cutMiss = iota
	cutThin
	cutInfeasible
)

// diagnoseMissedCut explains why a hyperplane does not cut the current
// cell: it extends an already inserted cut, it faces an inserted cut
// within tolerance so the cell is a sub-tolerance slab, or the cell lies
// clear of it, on its minus side when the hyperplane is redundant and on
// its plus side when the intersection is empty.
func diagnoseMissedCut[P any](pieces []SubHyperplane[P], path []CutStep[P], h Hyperplane[P]) cutMiss {
	s := h.WholeHyperplane()
	for i := len(path) - 1; i >= 0 && !emptyPiece(s); i-- {
		parts := s.Split(path[i].Hyperplane)
		switch parts.Side() {
		case SideHyper:
			if h.SameOrientationAs(path[i].Hyperplane) {
				return cutRedundant
			}
			return cutThin
		case SidePlus:
			finder := sideFinder[P]{}
			finder.recurse(nestConvex(pieces), h.WholeHyperplane())
			if finder.plusFound {
				return cutInfeasible
			}
			return cutRedundant
		default:
			s = parts.Minus
		}
	}
	return cutRedundant
}
