// Package gridmap implements a sliding, world-fixed elevation and
// traversability map built from streaming laser scans.
package gridmap

import (
	"math"

	"github.com/montanaflynn/stats"
)

// ElevationCell aggregates height samples observed at one grid cell into a
// robust summary: the running minimum, maximum, and median, plus a count of
// real (non-interpolated) measurements.
//
// The zero value is not valid; use NewElevationCell, which ElevationGrid
// also passes to SlidingGrid[T] as its factory for "reset" cells.
type ElevationCell struct {
	samples      []float64
	count        int
	minimum      float64
	maximum      float64
	median       float64
	interpolated bool
}

// NewElevationCell returns an empty cell: no measurements, sentinel maximum.
func NewElevationCell() ElevationCell {
	return ElevationCell{
		minimum: math.Inf(1),
		maximum: math.Inf(-1),
	}
}

// HasData reports whether the cell has any real measurement or interpolated
// value. A cell with count == 0 and maximum == -Inf is the "no data" sentinel.
func (c *ElevationCell) HasData() bool {
	return c.count > 0 || c.maximum != math.Inf(-1)
}

// AddMeasurement appends a height sample, updating min/max/median and
// clearing the interpolated flag: real data always supersedes an
// interpolated guess.
func (c *ElevationCell) AddMeasurement(h float64) {
	c.samples = append(c.samples, h)
	c.count++
	if h < c.minimum {
		c.minimum = h
	}
	if h > c.maximum {
		c.maximum = h
	}
	med, err := stats.Median(stats.Float64Data(c.samples))
	if err == nil {
		c.median = med
	}
	c.interpolated = false
}

// SetInterpolated sets the cell's median to h and marks it interpolated,
// without incrementing the measurement count. Used only by the
// conservative-interpolation pass in ElevationGrid.SmoothInto.
func (c *ElevationCell) SetInterpolated(h float64) {
	c.median = h
	c.interpolated = true
	if h < c.minimum {
		c.minimum = h
	}
	if h > c.maximum {
		c.maximum = h
	}
}

// Summary returns (count, min, max, median, interpolated).
func (c *ElevationCell) Summary() (count int, minimum, maximum, median float64, interpolated bool) {
	return c.count, c.minimum, c.maximum, c.median, c.interpolated
}

// Count returns the number of real (non-interpolated) measurements added.
func (c *ElevationCell) Count() int { return c.count }

// Median returns the cell's current robust height estimate.
func (c *ElevationCell) Median() float64 { return c.median }

// Minimum returns the cell's running minimum height.
func (c *ElevationCell) Minimum() float64 { return c.minimum }

// Maximum returns the cell's running maximum height, or -Inf if never set.
func (c *ElevationCell) Maximum() float64 { return c.maximum }

// Interpolated reports whether the current median came from interpolation
// rather than a real measurement.
func (c *ElevationCell) Interpolated() bool { return c.interpolated }
