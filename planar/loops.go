package planar

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/carvengine/carve"
)

// Segment is one straight piece of a polygon boundary, oriented so that
// the inside of the polygon is on the left of the travel direction.
// HasStart and HasEnd are false for half-infinite and infinite pieces.
type Segment struct {
	Line     *Line
	Start    mgl64.Vec2
	End      mgl64.Vec2
	HasStart bool
	HasEnd   bool
}

// Loop is one connected piece of a polygon boundary. Closed loops list
// their vertices in travel order, counterclockwise around the inside for
// outer boundaries and clockwise for holes. Open loops reach infinity on
// both ends; their first and last points are dummy points on the extreme
// lines marking the travel direction, not real vertices.
type Loop struct {
	Closed bool
	Points []mgl64.Vec2
}

// boundarySegments collects the boundary pieces of the set as oriented
// segments, in tree traversal order.
func (s *Set) boundarySegments() []Segment {
	boundary := s.Boundary()
	var segments []Segment
	s.Tree().Visit(carve.MinusSubPlus, func(n *carve.Tree[mgl64.Vec2]) {
		attr := boundary[n]
		if attr.PlusOutside != nil {
			segments = append(segments, pieceSegments(attr.PlusOutside.(*SubLine), false)...)
		}
		if attr.PlusInside != nil {
			segments = append(segments, pieceSegments(attr.PlusInside.(*SubLine), true)...)
		}
	}, nil)
	return segments
}

// pieceSegments converts a piece of boundary line into segments. Pieces
// with the inside on their plus side travel against their line, so they
// are emitted on the reversed line with swapped endpoints.
func pieceSegments(sub *SubLine, reversed bool) []Segment {
	line := sub.Line()
	var out []Segment
	for _, iv := range sub.Remaining().AsList() {
		lowerFinite := !math.IsInf(iv.Lower, -1)
		upperFinite := !math.IsInf(iv.Upper, 1)
		var lower, upper mgl64.Vec2
		if lowerFinite {
			lower = line.ToSpace(iv.Lower)
		}
		if upperFinite {
			upper = line.ToSpace(iv.Upper)
		}
		if reversed {
			out = append(out, Segment{
				Line:     line.Reverse(),
				Start:    upper,
				End:      lower,
				HasStart: upperFinite,
				HasEnd:   lowerFinite,
			})
		} else {
			out = append(out, Segment{
				Line:     line,
				Start:    lower,
				End:      upper,
				HasStart: lowerFinite,
				HasEnd:   upperFinite,
			})
		}
	}
	return out
}

// chainLoops connects boundary segments end to start into vertex loops.
// Chains reaching infinity are followed first so that every open loop
// starts at an infinite segment; the remaining segments form closed
// loops. A finite chain end with no continuation means the tree does not
// describe a consistent region.
func chainLoops(segments []Segment, tol float64) ([]Loop, error) {
	kept := segments[:0:0]
	for _, s := range segments {
		if s.HasStart && s.HasEnd && s.End.Sub(s.Start).Len() <= tol {
			continue
		}
		kept = append(kept, s)
	}
	segments = kept

	grid := newPointGrid(math.Max(tol, 1e-9), len(segments))
	for i, s := range segments {
		if s.HasStart {
			grid.insert(i, s.Start)
		}
	}
	used := make([]bool, len(segments))

	var loops []Loop
	for pass := 0; pass < 2; pass++ {
		for i := range segments {
			if used[i] {
				continue
			}
			if pass == 0 && segments[i].HasStart {
				continue
			}
			chained, err := followChain(segments, grid, used, i, tol)
			if err != nil {
				return nil, err
			}
			loops = append(loops, chained...)
		}
	}
	sort.SliceStable(loops, func(i, j int) bool {
		return !loops[i].Closed && loops[j].Closed
	})
	return loops, nil
}

func followChain(segments []Segment, grid *pointGrid, used []bool, start int, tol float64) ([]Loop, error) {
	chain := []int{start}
	used[start] = true
	cur := start
	for segments[cur].HasEnd {
		next, closing := bestSuccessor(segments, grid, used, chain, cur, tol)
		if closing {
			return makeClosedLoops(segments, chain, tol), nil
		}
		if next < 0 {
			if chainSize(segments, chain) <= tol {
				// degenerate dust, ignore it
				return nil, nil
			}
			end := segments[cur].End
			return nil, fmt.Errorf("%w: boundary chain breaks at (%g, %g)",
				carve.ErrInvalidRegion, end[0], end[1])
		}
		used[next] = true
		chain = append(chain, next)
		cur = next
	}
	return []Loop{makeOpenLoop(segments, chain)}, nil
}

// bestSuccessor picks the segment continuing the chain at the current end
// point. Among the candidates starting there, it keeps the one turning
// the most to the right of the incoming direction: where a clockwise hole
// touches a counterclockwise outer boundary, each chain then stays on its
// own winding instead of fusing with the other. Closing the chain on its
// own first segment competes like any other candidate.
func bestSuccessor(segments []Segment, grid *pointGrid, used []bool, chain []int, cur int, tol float64) (int, bool) {
	end := segments[cur].End
	incoming := segments[cur].Line.Direction()

	best := -1
	bestTurn := math.Inf(1)
	consider := func(j int) {
		d := segments[j].Line.Direction()
		turn := math.Atan2(incoming[0]*d[1]-incoming[1]*d[0], incoming[0]*d[0]+incoming[1]*d[1])
		if turn < bestTurn {
			bestTurn = turn
			best = j
		}
	}

	for _, j := range grid.near(end) {
		if used[j] || !segments[j].HasStart {
			continue
		}
		if segments[j].Start.Sub(end).Len() <= tol {
			consider(j)
		}
	}
	first := chain[0]
	closable := segments[first].HasStart && len(chain) > 1 &&
		segments[first].Start.Sub(end).Len() <= tol
	if closable {
		consider(first)
	}
	if best < 0 {
		return -1, false
	}
	return best, closable && best == first
}

func chainSize(segments []Segment, chain []int) float64 {
	total := 0.0
	for _, i := range chain {
		s := segments[i]
		if !s.HasStart || !s.HasEnd {
			return math.Inf(1)
		}
		total += s.End.Sub(s.Start).Len()
	}
	return total
}

// makeClosedLoops turns a closed chain into vertex loops. The chain is
// first split at every vertex it visits twice, so two lobes touching at
// one point come out as separate loops; each piece then drops the
// vertices where two segments continue on the same line.
func makeClosedLoops(segments []Segment, chain []int, tol float64) []Loop {
	var loops []Loop
	for _, sub := range splitPinches(segments, chain, tol) {
		if len(sub) < 3 {
			// a two-segment loop has no interior
			continue
		}
		points := make([]mgl64.Vec2, 0, len(sub))
		for k, i := range sub {
			prev := sub[(k+len(sub)-1)%len(sub)]
			if straightJoint(segments[prev], segments[i]) {
				continue
			}
			points = append(points, segments[i].Start)
		}
		if len(points) < 3 {
			continue
		}
		loops = append(loops, Loop{Closed: true, Points: points})
	}
	return loops
}

// splitPinches cuts a closed chain at the vertices it visits twice,
// recursively, and returns the resulting simple sub-chains.
func splitPinches(segments []Segment, chain []int, tol float64) [][]int {
	for i := 0; i < len(chain); i++ {
		vi := segments[chain[i]].Start
		for j := i + 1; j < len(chain); j++ {
			if segments[chain[j]].Start.Sub(vi).Len() <= tol {
				first := append([]int(nil), chain[i:j]...)
				second := append(append([]int(nil), chain[j:]...), chain[:i]...)
				return append(splitPinches(segments, first, tol),
					splitPinches(segments, second, tol)...)
			}
		}
	}
	return [][]int{chain}
}

// straightJoint reports whether two connected segments lie on the same
// oriented line, so that the vertex between them is not a real corner.
func straightJoint(a, b Segment) bool {
	return a.Line.ParallelTo(b.Line) && a.Line.SameOrientationAs(b.Line)
}

func makeOpenLoop(segments []Segment, chain []int) Loop {
	first := segments[chain[0]]
	last := segments[chain[len(chain)-1]]

	points := make([]mgl64.Vec2, 0, len(chain)+1)

	base := 0.0
	if first.HasEnd {
		base = first.Line.Abscissa(first.End)
	}
	points = append(points, first.Line.ToSpace(base-math.Max(1, math.Abs(base/2))))

	for k, i := range chain[:len(chain)-1] {
		if straightJoint(segments[i], segments[chain[k+1]]) {
			continue
		}
		points = append(points, segments[i].End)
	}

	base = 0.0
	if last.HasStart {
		base = last.Line.Abscissa(last.Start)
	}
	points = append(points, last.Line.ToSpace(base+math.Max(1, math.Abs(base/2))))

	return Loop{Closed: false, Points: points}
}
