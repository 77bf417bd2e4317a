package gridmap

import (
	"math"

	"github.com/golang/geo/r3"
)

// SlidingGrid is a world-anchored 2D grid of cells of type T whose origin
// can be recentered, preserving the contents of cells that remain in
// bounds across the move. It is the shared backbone for both the
// elevation and traversability layers.
type SlidingGrid[T any] struct {
	width, height int
	resolution    float64
	origin        r3.Vector
	cells         []T
	empty         func() T
}

// NewSlidingGrid constructs a grid of width x height cells at the given
// resolution (meters/cell), centered at origin. empty is called to produce
// the reset value for any cell that is not carried over on a recenter.
func NewSlidingGrid[T any](width, height int, resolution float64, origin r3.Vector, empty func() T) *SlidingGrid[T] {
	g := &SlidingGrid[T]{
		width:      width,
		height:     height,
		resolution: resolution,
		origin:     origin,
		empty:      empty,
	}
	g.cells = make([]T, width*height)
	for i := range g.cells {
		g.cells[i] = empty()
	}
	return g
}

// Width returns the grid's cell-count width.
func (g *SlidingGrid[T]) Width() int { return g.width }

// Height returns the grid's cell-count height.
func (g *SlidingGrid[T]) Height() int { return g.height }

// Resolution returns the grid's meters-per-cell resolution.
func (g *SlidingGrid[T]) Resolution() float64 { return g.resolution }

// Origin returns the world coordinate of the grid's center.
func (g *SlidingGrid[T]) Origin() r3.Vector { return g.origin }

func (g *SlidingGrid[T]) index(ix, iy int) int { return iy*g.width + ix }

// InGrid reports whether (ix, iy) is a valid cell index.
func (g *SlidingGrid[T]) InGrid(ix, iy int) bool {
	return ix >= 0 && ix < g.width && iy >= 0 && iy < g.height
}

// GetGridPoint converts a world point into a grid index, returning ok=false
// if the point falls outside the grid's footprint.
func (g *SlidingGrid[T]) GetGridPoint(p r3.Vector) (ix, iy int, ok bool) {
	fx := (p.X-g.origin.X)/g.resolution + float64(g.width)/2
	fy := (p.Y-g.origin.Y)/g.resolution + float64(g.height)/2
	ix = int(math.Floor(fx))
	iy = int(math.Floor(fy))
	return ix, iy, g.InGrid(ix, iy)
}

// Entry returns a pointer to the cell at (ix, iy), or nil if out of bounds.
func (g *SlidingGrid[T]) Entry(ix, iy int) *T {
	if !g.InGrid(ix, iy) {
		return nil
	}
	return &g.cells[g.index(ix, iy)]
}

// EntryWorld returns a pointer to the cell containing world point p, or nil
// if p falls outside the grid.
func (g *SlidingGrid[T]) EntryWorld(p r3.Vector) *T {
	ix, iy, ok := g.GetGridPoint(p)
	if !ok {
		return nil
	}
	return &g.cells[g.index(ix, iy)]
}

// WorldCenter returns the world coordinate of the center of cell (ix, iy).
func (g *SlidingGrid[T]) WorldCenter(ix, iy int) r3.Vector {
	return r3.Vector{
		X: g.origin.X + (float64(ix)-float64(g.width)/2+0.5)*g.resolution,
		Y: g.origin.Y + (float64(iy)-float64(g.height)/2+0.5)*g.resolution,
		Z: g.origin.Z,
	}
}

// MoveGrid recenters the grid on newCenter. The integer cell offset is
// rounded from the requested translation; any cell that maps to a valid
// index in both the old and new buffers is moved over byte-for-byte, and
// every other cell is reset via the grid's empty-value factory. The
// origin is updated to origin + offset*resolution (not to newCenter
// exactly), matching the source behavior of snapping recenters to whole
// cells.
func (g *SlidingGrid[T]) MoveGrid(newCenter r3.Vector) {
	dxCells := int(math.Round((newCenter.X - g.origin.X) / g.resolution))
	dyCells := int(math.Round((newCenter.Y - g.origin.Y) / g.resolution))

	if dxCells == 0 && dyCells == 0 {
		return
	}

	newCells := make([]T, g.width*g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			oldX := x + dxCells
			oldY := y + dyCells
			if g.InGrid(oldX, oldY) {
				newCells[g.index(x, y)] = g.cells[g.index(oldX, oldY)]
			} else {
				newCells[g.index(x, y)] = g.empty()
			}
		}
	}
	g.cells = newCells
	g.origin = r3.Vector{
		X: g.origin.X + float64(dxCells)*g.resolution,
		Y: g.origin.Y + float64(dyCells)*g.resolution,
		Z: g.origin.Z,
	}
}

// Reset replaces every cell with a fresh empty value.
func (g *SlidingGrid[T]) Reset() {
	for i := range g.cells {
		g.cells[i] = g.empty()
	}
}

// ForEach visits every cell in row-major order, passing its grid indices.
func (g *SlidingGrid[T]) ForEach(fn func(ix, iy int, cell *T)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			fn(x, y, &g.cells[g.index(x, y)])
		}
	}
}

// Contains reports whether world point p lies within the grid's footprint.
func (g *SlidingGrid[T]) Contains(p r3.Vector) bool {
	_, _, ok := g.GetGridPoint(p)
	return ok
}
