package gridmap

import (
	"github.com/golang/geo/r3"
	"github.com/montanaflynn/stats"
)

// ElevationGrid is a SlidingGrid of ElevationCell that ingests scan points
// and can produce a conservatively interpolated copy of itself.
type ElevationGrid struct {
	*SlidingGrid[ElevationCell]
}

// NewElevationGrid constructs an empty elevation grid.
func NewElevationGrid(width, height int, resolution float64, origin r3.Vector) *ElevationGrid {
	return &ElevationGrid{
		SlidingGrid: NewSlidingGrid[ElevationCell](width, height, resolution, origin, NewElevationCell),
	}
}

// AddScan appends each in-grid point's Z height to its containing cell.
// Points outside the grid footprint are silently dropped.
func (e *ElevationGrid) AddScan(points []r3.Vector) {
	for _, p := range points {
		cell := e.EntryWorld(p)
		if cell == nil {
			continue
		}
		cell.AddMeasurement(p.Z)
	}
}

// rowAbove, rowBelow, colLeft and colRight are the 8-neighborhood offsets
// as (dx, dy) pairs, grouped
// so SmoothInto can test "row above", "row below", "column left", "column
// right" independently.
var (
	rowAbove = [3][2]int{{-1, -1}, {0, -1}, {1, -1}}
	rowBelow = [3][2]int{{-1, 1}, {0, 1}, {1, 1}}
	colLeft  = [3][2]int{{-1, -1}, {-1, 0}, {-1, 1}}
	colRight = [3][2]int{{1, -1}, {1, 0}, {1, 1}}
)

// anyMeasured reports whether any of the three (dx,dy) offsets from (x,y)
// is an in-grid cell with a real measurement.
func (e *ElevationGrid) anyMeasured(x, y int, offsets [3][2]int) bool {
	for _, o := range offsets {
		cell := e.Entry(x+o[0], y+o[1])
		if cell != nil && cell.Count() > 0 {
			return true
		}
	}
	return false
}

// SmoothInto writes a conservatively interpolated copy of e into target,
// which must have the same dimensions, resolution, and origin as e.
//
// A target cell with no real measurement is filled only when it is
// bracketed on two opposite sides: either row y-1 AND row y+1 each contain
// at least one measured neighbor, or column x-1 AND column x+1 each do.
// When fired, the interpolated value is the median of all measured
// 8-neighbor medians. Cells with real measurements are copied through
// unchanged. This avoids hallucinating heights on open map boundaries,
// where only one side of a cell has ever been observed.
func (e *ElevationGrid) SmoothInto(target *ElevationGrid) {
	e.ForEach(func(x, y int, src *ElevationCell) {
		dst := target.Entry(x, y)
		if dst == nil {
			return
		}
		if src.Count() > 0 {
			*dst = *src
			return
		}

		rowsBracket := e.anyMeasured(x, y, rowAbove) && e.anyMeasured(x, y, rowBelow)
		colsBracket := e.anyMeasured(x, y, colLeft) && e.anyMeasured(x, y, colRight)
		if !rowsBracket && !colsBracket {
			*dst = NewElevationCell()
			return
		}

		var medians []float64
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				n := e.Entry(x+dx, y+dy)
				if n != nil && n.Count() > 0 {
					medians = append(medians, n.Median())
				}
			}
		}
		if len(medians) == 0 {
			*dst = NewElevationCell()
			return
		}
		interpMedian, err := stats.Median(stats.Float64Data(medians))
		if err != nil {
			*dst = NewElevationCell()
			return
		}
		fresh := NewElevationCell()
		fresh.SetInterpolated(interpMedian)
		*dst = fresh
	})
}
