package planar

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/carvengine/carve"
	"github.com/carvengine/carve/interval"
)

// SubLine is the part of an oriented line remaining after trimming: a 1D
// region of abscissae on the line, covering anything from a single
// segment to a set of disjoint segments and half-lines.
type SubLine struct {
	line      *Line
	remaining *interval.Set
}

// NewSubLine builds a piece of line from its supporting line and the 1D
// region of abscissae it covers.
func NewSubLine(line *Line, remaining *interval.Set) *SubLine {
	return &SubLine{line: line, remaining: remaining}
}

// NewSubLineFromPoints builds the segment piece joining two points.
func NewSubLineFromPoints(start, end mgl64.Vec2, tolerance float64) (*SubLine, error) {
	line, err := NewLine(start, end, tolerance)
	if err != nil {
		return nil, err
	}
	lower := line.Abscissa(start)
	upper := line.Abscissa(end)
	return NewSubLine(line, interval.New(lower, upper, tolerance)), nil
}

// Line returns the supporting line.
func (s *SubLine) Line() *Line { return s.line }

// Remaining returns the 1D region of abscissae covered by the piece.
func (s *SubLine) Remaining() *interval.Set { return s.remaining }

// Hyperplane returns the supporting line.
func (s *SubLine) Hyperplane() carve.Hyperplane[mgl64.Vec2] { return s.line }

// IsEmpty reports whether nothing remains of the line.
func (s *SubLine) IsEmpty() bool { return s.remaining.IsEmpty() }

// Size returns the total length of the piece.
func (s *SubLine) Size() float64 {
	size, _ := s.remaining.Size()
	return size
}

func (s *SubLine) empty() *SubLine {
	return NewSubLine(s.line, interval.NewEmpty(s.line.tol))
}

// Split cuts the piece by another line. When the lines cross, the piece
// is cut at the crossing abscissa; when they are parallel, the whole
// piece goes to one side or merges with the splitter.
func (s *SubLine) Split(splitter carve.Hyperplane[mgl64.Vec2]) carve.SplitSub[mgl64.Vec2] {
	other := splitter.(*Line)
	crossing, ok := s.line.Intersection(other)
	if !ok {
		global := other.OffsetLine(s.line)
		switch {
		case global < -s.line.tol:
			return carve.SplitSub[mgl64.Vec2]{Plus: s.empty(), Minus: s}
		case global > s.line.tol:
			return carve.SplitSub[mgl64.Vec2]{Plus: s, Minus: s.empty()}
		default:
			return carve.SplitSub[mgl64.Vec2]{Plus: s.empty(), Minus: s.empty()}
		}
	}

	// the direct flag orients the crossing abscissa so that the plus
	// half-line of the oriented point maps onto the plus side of the
	// splitter
	direct := math.Sin(s.line.angle-other.angle) < 0
	x := s.line.Abscissa(crossing)
	tol := s.line.tol

	plusHalf := halfLine(x, !direct, tol)
	minusHalf := halfLine(x, direct, tol)
	f := carve.Factory[float64]{}
	plusRemaining, _ := f.Intersection(s.remaining, plusHalf)
	minusRemaining, _ := f.Intersection(s.remaining, minusHalf)
	return carve.SplitSub[mgl64.Vec2]{
		Plus:  NewSubLine(s.line, plusRemaining.(*interval.Set)),
		Minus: NewSubLine(s.line, minusRemaining.(*interval.Set)),
	}
}

// halfLine returns the 1D region on the minus side of an oriented point.
func halfLine(x float64, direct bool, tol float64) *interval.Set {
	cut := interval.NewOrientedPoint(x, direct, tol).WholeHyperplane()
	tree := carve.NewNode(cut, carve.NewLeaf[float64](false), carve.NewLeaf[float64](true))
	return interval.FromTree(tree, tol)
}

// Reunite merges two pieces of the same line.
func (s *SubLine) Reunite(other carve.SubHyperplane[mgl64.Vec2]) carve.SubHyperplane[mgl64.Vec2] {
	o := other.(*SubLine)
	f := carve.Factory[float64]{}
	union, _ := f.Union(s.remaining, o.remaining)
	return NewSubLine(s.line, union.(*interval.Set))
}

// Closest returns the point of the piece closest to p, clamping the
// projection of p onto the covered abscissa intervals.
func (s *SubLine) Closest(p mgl64.Vec2) (mgl64.Vec2, bool) {
	t := s.line.Abscissa(p)
	best := math.Inf(1)
	bestAbscissa := 0.0
	found := false
	for _, iv := range s.remaining.AsList() {
		candidate := t
		switch {
		case t < iv.Lower:
			candidate = iv.Lower
		case t > iv.Upper:
			candidate = iv.Upper
		}
		if d := math.Abs(t - candidate); d < best {
			best = d
			bestAbscissa = candidate
			found = true
		}
	}
	if !found {
		return mgl64.Vec2{}, false
	}
	return s.line.ToSpace(bestAbscissa), true
}
