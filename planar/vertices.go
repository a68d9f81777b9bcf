package planar

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/carvengine/carve"
)

// loopVertex is a polygon vertex under construction, remembering the
// lines it lies on so that edges sharing a supporting line reuse the same
// hyperplane instance.
type loopVertex struct {
	location mgl64.Vec2
	lines    []*Line
}

func (v *loopVertex) bindWith(l *Line) {
	v.lines = append(v.lines, l)
}

func (v *loopVertex) sharedLineWith(o *loopVertex) *Line {
	for _, l1 := range v.lines {
		for _, l2 := range o.lines {
			if l1 == l2 {
				return l1
			}
		}
	}
	return nil
}

// loopEdge is a polygon edge under construction. Once an edge's line has
// been inserted as a cut, the edge is marked so it is never inserted
// again; halves created by splitting inherit the mark.
type loopEdge struct {
	start, end *loopVertex
	line       *Line
	inserted   bool
}

func newLoopEdge(start, end *loopVertex, line *Line) *loopEdge {
	start.bindWith(line)
	end.bindWith(line)
	return &loopEdge{start: start, end: end, line: line}
}

// splitAt cuts the edge at its crossing with splitLine, returning the
// halves on each side of the crossing.
func (e *loopEdge) splitAt(splitLine *Line) (startHalf, endHalf *loopEdge) {
	crossing, _ := e.line.Intersection(splitLine)
	v := &loopVertex{location: crossing}
	v.bindWith(splitLine)
	startHalf = newLoopEdge(e.start, v, e.line)
	endHalf = newLoopEdge(v, e.end, e.line)
	startHalf.inserted = e.inserted
	endHalf.inserted = e.inserted
	return startHalf, endHalf
}

// loopTree builds the BSP tree of the polygon bounded by a closed vertex
// loop. Edges nearly aligned within the hyperplane thickness share a
// single supporting line, which keeps the tree from degenerating on
// slightly bent contours.
func loopTree(thickness float64, vertices []mgl64.Vec2) (*carve.Tree[mgl64.Vec2], error) {
	n := len(vertices)
	if n == 0 {
		return carve.NewLeaf[mgl64.Vec2](true), nil
	}

	vs := make([]*loopVertex, n)
	for i, p := range vertices {
		vs[i] = &loopVertex{location: p}
	}

	edges := make([]*loopEdge, 0, n)
	for i := range vs {
		start := vs[i]
		end := vs[(i+1)%n]
		line := start.sharedLineWith(end)
		if line == nil {
			var err error
			line, err = NewLine(start.location, end.location, thickness)
			if err != nil {
				return nil, err
			}
		}
		edges = append(edges, newLoopEdge(start, end, line))

		// bind the other vertices lying on this line
		for _, v := range vs {
			if v != start && v != end && math.Abs(line.Offset(v.location)) <= thickness {
				v.bindWith(line)
			}
		}
	}

	return insertLoopEdges(thickness, edges, nil, false), nil
}

func insertLoopEdges(thickness float64, edges []*loopEdge, path []carve.CutStep[mgl64.Vec2], plusChild bool) *carve.Tree[mgl64.Vec2] {
	var inserted *loopEdge
	var cut carve.SubHyperplane[mgl64.Vec2]
	for _, e := range edges {
		if e.inserted {
			continue
		}
		piece := carve.FitToCell(e.line.WholeHyperplane(), path)
		if piece != nil && !piece.IsEmpty() {
			e.inserted = true
			inserted, cut = e, piece
			break
		}
	}
	if inserted == nil {
		// no edge crosses this cell; cells on the plus side of their
		// parent cut are outside the loop
		return carve.NewLeaf[mgl64.Vec2](!plusChild)
	}

	var plusList, minusList []*loopEdge
	for _, e := range edges {
		if e == inserted {
			continue
		}
		startSide := sideOfOffset(inserted.line.Offset(e.start.location), thickness)
		endSide := sideOfOffset(inserted.line.Offset(e.end.location), thickness)
		switch startSide {
		case carve.SidePlus:
			if endSide == carve.SideMinus {
				startHalf, endHalf := e.splitAt(inserted.line)
				plusList = append(plusList, startHalf)
				minusList = append(minusList, endHalf)
			} else {
				plusList = append(plusList, e)
			}
		case carve.SideMinus:
			if endSide == carve.SidePlus {
				startHalf, endHalf := e.splitAt(inserted.line)
				minusList = append(minusList, startHalf)
				plusList = append(plusList, endHalf)
			} else {
				minusList = append(minusList, e)
			}
		default:
			if endSide == carve.SidePlus {
				plusList = append(plusList, e)
			} else if endSide == carve.SideMinus {
				minusList = append(minusList, e)
			}
			// edges aligned with the cut are dropped
		}
	}

	var plusTree, minusTree *carve.Tree[mgl64.Vec2]
	if len(plusList) > 0 {
		plusTree = insertLoopEdges(thickness, plusList, extendCell(path, inserted.line, true), true)
	} else {
		plusTree = carve.NewLeaf[mgl64.Vec2](false)
	}
	if len(minusList) > 0 {
		minusTree = insertLoopEdges(thickness, minusList, extendCell(path, inserted.line, false), false)
	} else {
		minusTree = carve.NewLeaf[mgl64.Vec2](true)
	}
	return carve.NewNode(cut, plusTree, minusTree)
}

func sideOfOffset(offset, thickness float64) carve.Side {
	switch {
	case math.Abs(offset) <= thickness:
		return carve.SideHyper
	case offset < 0:
		return carve.SideMinus
	default:
		return carve.SidePlus
	}
}

func extendCell(path []carve.CutStep[mgl64.Vec2], h carve.Hyperplane[mgl64.Vec2], plusSide bool) []carve.CutStep[mgl64.Vec2] {
	next := make([]carve.CutStep[mgl64.Vec2], len(path)+1)
	copy(next, path)
	next[len(path)] = carve.CutStep[mgl64.Vec2]{Hyperplane: h, PlusSide: plusSide}
	return next
}
