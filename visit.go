package carve

// VisitOrder selects the order in which Visit explores an internal node:
// the plus subtree, the minus subtree and the cut itself.
type VisitOrder int

const (
	PlusMinusSub VisitOrder = iota
	PlusSubMinus
	MinusPlusSub
	MinusSubPlus
	SubPlusMinus
	SubMinusPlus
)

// visitTask is one pending action of the iterative traversal: either
// expand a node or emit its cut to the internal callback.
type visitTask[P any] struct {
	node *Tree[P]
	emit bool
}

// Visit walks the tree with an explicit stack, calling internal on every
// internal node and leaf on every leaf, in the requested order. Either
// callback may be nil.
func (t *Tree[P]) Visit(order VisitOrder, internal func(*Tree[P]), leaf func(*Tree[P])) {
	stack := []visitTask[P]{{node: t}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if task.emit {
			if internal != nil {
				internal(task.node)
			}
			continue
		}
		n := task.node
		if n.IsLeaf() {
			if leaf != nil {
				leaf(n)
			}
			continue
		}

		var first, second, third visitTask[P]
		sub := visitTask[P]{node: n, emit: true}
		plus := visitTask[P]{node: n.plus}
		minus := visitTask[P]{node: n.minus}
		switch order {
		case PlusMinusSub:
			first, second, third = plus, minus, sub
		case PlusSubMinus:
			first, second, third = plus, sub, minus
		case MinusPlusSub:
			first, second, third = minus, plus, sub
		case MinusSubPlus:
			first, second, third = minus, sub, plus
		case SubPlusMinus:
			first, second, third = sub, plus, minus
		default:
			first, second, third = sub, minus, plus
		}
		// pushed in reverse so first runs first
		stack = append(stack, third, second, first)
	}
}
