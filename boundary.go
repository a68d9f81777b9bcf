package carve

// BoundaryAttribute describes the part of an internal node's cut that
// belongs to the region boundary. PlusOutside is the sub-piece with the
// region outside on the cut's plus side, PlusInside the sub-piece with the
// region inside on the plus side. Either may be nil.
type BoundaryAttribute[P any] struct {
	PlusOutside SubHyperplane[P]
	PlusInside  SubHyperplane[P]
}

// BoundaryMap associates every internal node of a tree with its boundary
// attribute. It lives beside the tree instead of inside the nodes so that
// trees stay immutable and shareable.
type BoundaryMap[P any] map[*Tree[P]]BoundaryAttribute[P]

// buildBoundary characterizes every cut of the tree against the cells that
// touch it. A piece of a cut is boundary when one of its sides touches
// only inside cells and the other only outside cells.
func buildBoundary[P any](root *Tree[P]) BoundaryMap[P] {
	m := make(BoundaryMap[P])
	root.Visit(PlusMinusSub, func(n *Tree[P]) {
		if emptyPiece(n.cut) {
			m[n] = BoundaryAttribute[P]{}
			return
		}
		var attr BoundaryAttribute[P]
		outTouching, inTouching := characterize(n.plus, n.cut)
		if !emptyPiece(outTouching) {
			// the part of the cut that touches outside on its plus side
			// is boundary where the minus side touches inside
			_, in := characterize(n.minus, outTouching)
			if !emptyPiece(in) {
				attr.PlusOutside = in
			}
		}
		if !emptyPiece(inTouching) {
			out, _ := characterize(n.minus, inTouching)
			if !emptyPiece(out) {
				attr.PlusInside = out
			}
		}
		m[n] = attr
	}, nil)
	return m
}

// characterize splits a piece of hyperplane along the cuts of a subtree
// and gathers the parts touching outside cells and the parts touching
// inside cells.
func characterize[P any](node *Tree[P], sub SubHyperplane[P]) (outTouching, inTouching SubHyperplane[P]) {
	var recurse func(node *Tree[P], sub SubHyperplane[P])
	recurse = func(node *Tree[P], sub SubHyperplane[P]) {
		if node.IsLeaf() {
			if node.inside {
				inTouching = reunitePieces(inTouching, sub)
			} else {
				outTouching = reunitePieces(outTouching, sub)
			}
			return
		}
		h := node.cut.Hyperplane()
		parts := sub.Split(h)
		switch parts.Side() {
		case SidePlus:
			recurse(node.plus, sub)
		case SideMinus:
			recurse(node.minus, sub)
		case SideBoth:
			recurse(node.plus, parts.Plus)
			recurse(node.minus, parts.Minus)
		default:
			// the piece lies on a deeper cut, route it by orientation
			if h.SameOrientationAs(sub.Hyperplane()) {
				recurse(node.plus, sub)
			} else {
				recurse(node.minus, sub)
			}
		}
	}
	recurse(node, sub)
	return outTouching, inTouching
}

func reunitePieces[P any](acc, piece SubHyperplane[P]) SubHyperplane[P] {
	if acc == nil {
		return piece
	}
	return acc.Reunite(piece)
}
