package gridmap

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestSlideRetainsOverlap(t *testing.T) {
	elev := NewElevationGrid(10, 10, 1.0, r3.Vector{})
	cell := elev.EntryWorld(r3.Vector{X: 3, Y: 3})
	test.That(t, cell, test.ShouldNotBeNil)
	cell.AddMeasurement(2.5)

	elev.MoveGrid(r3.Vector{X: 2, Y: 0})

	moved := elev.EntryWorld(r3.Vector{X: 3, Y: 3})
	test.That(t, moved, test.ShouldNotBeNil)
	test.That(t, moved.HasData(), test.ShouldBeTrue)
	test.That(t, moved.Median(), test.ShouldEqual, 2.5)
}

func TestMoveGridNoOpOnSubCellOffset(t *testing.T) {
	elev := NewElevationGrid(10, 10, 1.0, r3.Vector{})
	elev.MoveGrid(r3.Vector{X: 0.2, Y: 0.2})
	test.That(t, elev.Origin(), test.ShouldResemble, r3.Vector{})
}

func TestGetGridPointOutOfBounds(t *testing.T) {
	g := NewSlidingGrid[int](4, 4, 1.0, r3.Vector{}, func() int { return 0 })
	_, _, ok := g.GetGridPoint(r3.Vector{X: 100, Y: 100})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestContains(t *testing.T) {
	g := NewSlidingGrid[int](4, 4, 1.0, r3.Vector{}, func() int { return 0 })
	test.That(t, g.Contains(r3.Vector{X: 0, Y: 0}), test.ShouldBeTrue)
	test.That(t, g.Contains(r3.Vector{X: 10, Y: 10}), test.ShouldBeFalse)
}
