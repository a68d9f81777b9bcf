package carve

// Split cuts the tree by a sub-hyperplane. The returned tree is rooted at
// the piece: its plus child covers the part of this tree on the plus side
// of the piece's hyperplane, its minus child the other part. The piece is
// expected to be fitted to the cell this tree describes; outside of the
// piece's extent the two halves share the original structure.
func (t *Tree[P]) Split(sub SubHyperplane[P]) *Tree[P] {
	if t.IsLeaf() {
		return NewNode(sub, NewLeaf[P](t.inside), NewLeaf[P](t.inside))
	}

	cutHyper := t.cut.Hyperplane()
	subHyper := sub.Hyperplane()
	subParts := sub.Split(cutHyper)
	switch subParts.Side() {
	case SidePlus:
		split := t.plus.Split(sub)
		if t.cut.Split(subHyper).Side() == SidePlus {
			return NewNode(sub, condensedNode(t.cut, split.plus, t.minus), split.minus)
		}
		return NewNode(sub, split.plus, condensedNode(t.cut, split.minus, t.minus))

	case SideMinus:
		split := t.minus.Split(sub)
		if t.cut.Split(subHyper).Side() == SidePlus {
			return NewNode(sub, condensedNode(t.cut, t.plus, split.plus), split.minus)
		}
		return NewNode(sub, split.plus, condensedNode(t.cut, t.plus, split.minus))

	case SideBoth:
		cutParts := t.cut.Split(subHyper)
		plusSplit := t.plus.Split(subParts.Plus)
		minusSplit := t.minus.Split(subParts.Minus)
		return NewNode(sub,
			condensedNode(cutParts.Plus, plusSplit.plus, minusSplit.plus),
			condensedNode(cutParts.Minus, plusSplit.minus, minusSplit.minus))

	default:
		// same hyperplane; orientation decides which child is which
		if cutHyper.SameOrientationAs(subHyper) {
			return NewNode(sub, t.plus, t.minus)
		}
		return NewNode(sub, t.minus, t.plus)
	}
}

// Merge combines two trees into one whose leaves carry op applied to the
// inside flags of the overlapping cells. The boolean algebra of regions is
// entirely expressed by op: union is OR, intersection is AND, symmetric
// difference is XOR and difference is AND NOT. Neither input is modified.
func (t *Tree[P]) Merge(other *Tree[P], op func(a, b bool) bool) *Tree[P] {
	return mergeTrees(t, other, op, nil)
}

func mergeTrees[P any](a, b *Tree[P], op func(a, b bool) bool, path []CutStep[P]) *Tree[P] {
	switch {
	case a.IsLeaf():
		return resolveLeaf(func(x bool) bool { return op(a.inside, x) }, b, path)
	case b.IsLeaf():
		return resolveLeaf(func(x bool) bool { return op(x, b.inside) }, a, path)
	default:
		merged := b.Split(a.cut)
		h := a.cut.Hyperplane()
		plusMerged := mergeTrees(a.plus, merged.plus, op, extendPath(path, h, true))
		minusMerged := mergeTrees(a.minus, merged.minus, op, extendPath(path, h, false))
		if plusMerged.IsLeaf() && minusMerged.IsLeaf() && plusMerged.inside == minusMerged.inside {
			return NewLeaf[P](plusMerged.inside)
		}
		cut := FitToCell(h.WholeHyperplane(), path)
		return NewNode(cut, plusMerged, minusMerged)
	}
}

// resolveLeaf folds the partial application of the leaf combiner over a
// whole subtree. Depending on its truth table the result is a constant
// leaf, the subtree itself or its complement, the latter two trimmed to
// the cell the merge recursion has reached.
func resolveLeaf[P any](g func(bool) bool, tree *Tree[P], path []CutStep[P]) *Tree[P] {
	onFalse, onTrue := g(false), g(true)
	switch {
	case !onFalse && !onTrue:
		return NewLeaf[P](false)
	case onFalse && onTrue:
		return NewLeaf[P](true)
	case !onFalse && onTrue:
		return fitTree(tree, path)
	default:
		return fitTree(ComplementTree(tree), path)
	}
}

// fitTree trims every cut piece of the tree to the cell described by the
// path. The structure is preserved even where a piece vanishes, since an
// empty piece still partitions the cell by its hyperplane.
func fitTree[P any](t *Tree[P], path []CutStep[P]) *Tree[P] {
	if t.IsLeaf() || len(path) == 0 {
		return t
	}
	return condensedNode(FitToCell(t.cut, path), fitTree(t.plus, path), fitTree(t.minus, path))
}

// ComplementTree returns a tree with every leaf flag flipped, sharing the
// cut pieces of the input.
func ComplementTree[P any](t *Tree[P]) *Tree[P] {
	if t.IsLeaf() {
		return NewLeaf[P](!t.inside)
	}
	return NewNode(t.cut, ComplementTree(t.plus), ComplementTree(t.minus))
}
