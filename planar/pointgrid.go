package planar

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// pointGrid is a uniform hash grid over plane points. It buckets segment
// endpoints so that loop chaining finds the candidates near a vertex
// without scanning every segment.
type pointGrid struct {
	cellSize float64
	cells    []gridCell
	cellMask int
}

type gridCell struct {
	indices []int
}

func newPointGrid(cellSize float64, capacity int) *pointGrid {
	n := nextPowerOfTwo(4 * capacity)
	return &pointGrid{
		cellSize: cellSize,
		cells:    make([]gridCell, n),
		cellMask: n - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

func (g *pointGrid) cellCoords(p mgl64.Vec2) (int, int) {
	return int(math.Floor(p[0] / g.cellSize)), int(math.Floor(p[1] / g.cellSize))
}

func (g *pointGrid) hash(x, y int) int {
	h := x*73856093 ^ y*19349663
	return h & g.cellMask
}

func (g *pointGrid) insert(index int, p mgl64.Vec2) {
	x, y := g.cellCoords(p)
	cell := &g.cells[g.hash(x, y)]
	cell.indices = append(cell.indices, index)
}

// near returns the indices stored in the cell of p and its 8 neighbors.
// Hash collisions may add unrelated indices, callers recheck distances.
func (g *pointGrid) near(p mgl64.Vec2) []int {
	cx, cy := g.cellCoords(p)
	var out []int
	for x := cx - 1; x <= cx+1; x++ {
		for y := cy - 1; y <= cy+1; y++ {
			out = append(out, g.cells[g.hash(x, y)].indices...)
		}
	}
	return out
}
