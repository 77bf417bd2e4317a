package gridmap

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/rdk/spatialmath"
)

func TestClassifyStepHeight(t *testing.T) {
	elev := NewElevationGrid(12, 12, 1.0, r3.Vector{})
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			if x == 4 && y == 4 {
				continue
			}
			elev.Entry(x, y).AddMeasurement(0)
		}
	}
	elev.Entry(4, 4).AddMeasurement(1)

	trav := NewTraversabilityGrid(elev, 0.2)
	trav.ClassifyFrom(elev)

	for y := 3; y <= 5; y++ {
		for x := 3; x <= 5; x++ {
			if x == 4 && y == 4 {
				continue
			}
			cls := trav.Entry(x, y)
			test.That(t, *cls, test.ShouldEqual, Obstacle)
		}
	}
	test.That(t, *trav.Entry(4, 4), test.ShouldEqual, Obstacle)
	test.That(t, *trav.Entry(0, 0), test.ShouldEqual, Traversable)
}

func TestClassifyUnmeasuredIsUnclassified(t *testing.T) {
	elev := NewElevationGrid(6, 6, 1.0, r3.Vector{})
	trav := NewTraversabilityGrid(elev, 0.2)
	trav.ClassifyFrom(elev)
	test.That(t, *trav.Entry(3, 3), test.ShouldEqual, Unclassified)
}

func TestMarkRadiusSeedsWithOwnMedian(t *testing.T) {
	elev := NewElevationGrid(10, 10, 1.0, r3.Vector{})
	elev.Entry(5, 5).AddMeasurement(3.0)
	trav := NewTraversabilityGrid(elev, 0.2)

	pose := spatialmath.NewPoseFromPoint(elev.WorldCenter(5, 5))
	err := trav.MarkRadiusAs(elev, pose, 0.5, Traversable)
	test.That(t, err, test.ShouldBeNil)

	cls := trav.Entry(5, 5)
	test.That(t, *cls, test.ShouldEqual, Traversable)

	// A cell holding only an interpolated height is seeded with that height
	// as a real measurement.
	elev.Entry(2, 2).SetInterpolated(1.5)
	err = trav.MarkRadiusAs(elev, spatialmath.NewPoseFromPoint(elev.WorldCenter(2, 2)), 0.5, Traversable)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, *trav.Entry(2, 2), test.ShouldEqual, Traversable)
	test.That(t, elev.Entry(2, 2).Count(), test.ShouldEqual, 1)
	test.That(t, elev.Entry(2, 2).Median(), test.ShouldEqual, 1.5)
}

func TestMarkRectSeedsFlatZero(t *testing.T) {
	elev := NewElevationGrid(10, 10, 1.0, r3.Vector{})
	trav := NewTraversabilityGrid(elev, 0.2)

	pose := spatialmath.NewPoseFromPoint(elev.WorldCenter(5, 5))
	err := trav.MarkRectAs(elev, pose, 2, 2, 0, Traversable)
	test.That(t, err, test.ShouldBeNil)

	ecell := elev.Entry(5, 5)
	test.That(t, ecell.HasData(), test.ShouldBeTrue)
	test.That(t, ecell.Median(), test.ShouldEqual, 0.0)
}

func TestMarkRadiusOutOfGrid(t *testing.T) {
	elev := NewElevationGrid(4, 4, 1.0, r3.Vector{})
	trav := NewTraversabilityGrid(elev, 0.2)
	pose := spatialmath.NewPoseFromPoint(r3.Vector{X: 1000, Y: 1000})
	err := trav.MarkRadiusAs(elev, pose, 0.5, Traversable)
	test.That(t, err, test.ShouldEqual, ErrOutOfGrid)
}
