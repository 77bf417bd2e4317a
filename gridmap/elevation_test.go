package gridmap

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestSmoothIntoRowBracket(t *testing.T) {
	elev := NewElevationGrid(12, 12, 1.0, r3.Vector{})
	elev.EntryWorld(worldOf(elev, 5, 4)).AddMeasurement(1)
	elev.EntryWorld(worldOf(elev, 5, 6)).AddMeasurement(1)

	smooth := NewElevationGrid(12, 12, 1.0, r3.Vector{})
	elev.SmoothInto(smooth)

	mid := smooth.Entry(5, 5)
	test.That(t, mid, test.ShouldNotBeNil)
	test.That(t, mid.Interpolated(), test.ShouldBeTrue)
	test.That(t, mid.Median(), test.ShouldEqual, 1.0)
}

func TestSmoothIntoSingleSidedNoFill(t *testing.T) {
	elev := NewElevationGrid(12, 12, 1.0, r3.Vector{})
	elev.EntryWorld(worldOf(elev, 5, 4)).AddMeasurement(1)

	smooth := NewElevationGrid(12, 12, 1.0, r3.Vector{})
	elev.SmoothInto(smooth)

	mid := smooth.Entry(5, 5)
	test.That(t, mid, test.ShouldNotBeNil)
	test.That(t, mid.Interpolated(), test.ShouldBeFalse)
	test.That(t, mid.HasData(), test.ShouldBeFalse)
}

func TestSmoothIntoCopiesMeasuredCellsUnchanged(t *testing.T) {
	elev := NewElevationGrid(6, 6, 1.0, r3.Vector{})
	elev.Entry(2, 2).AddMeasurement(4.2)

	smooth := NewElevationGrid(6, 6, 1.0, r3.Vector{})
	elev.SmoothInto(smooth)

	dst := smooth.Entry(2, 2)
	test.That(t, dst.HasData(), test.ShouldBeTrue)
	test.That(t, dst.Median(), test.ShouldEqual, 4.2)
	test.That(t, dst.Interpolated(), test.ShouldBeFalse)
}

// worldOf returns the world-space center of grid cell (ix,iy) in g, used so
// tests can address cells by index without hard-coding the grid's
// resolution/origin math.
func worldOf(g *ElevationGrid, ix, iy int) r3.Vector {
	return g.WorldCenter(ix, iy)
}
