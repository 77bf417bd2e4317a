package kinodrive

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/rdk/spatialmath"
)

func TestProjectPoseStraightAhead(t *testing.T) {
	drive := ArcDrive{MaxTurnRatePerMeter: math.Pi}
	start := spatialmath.NewPoseFromPoint(r3.Vector{})

	next, feasible := drive.ProjectPose(start, 0, 1)
	test.That(t, feasible, test.ShouldBeTrue)
	test.That(t, next.Point().X, test.ShouldAlmostEqual, 1.0)
	test.That(t, next.Point().Y, test.ShouldAlmostEqual, 0.0)
}

func TestProjectPoseRejectsExcessiveTurn(t *testing.T) {
	drive := ArcDrive{MaxTurnRatePerMeter: 0.01}
	start := spatialmath.NewPoseFromPoint(r3.Vector{})

	_, feasible := drive.ProjectPose(start, math.Pi, 1)
	test.That(t, feasible, test.ShouldBeFalse)
}

func TestProjectPoseRejectsNonPositiveDistance(t *testing.T) {
	drive := ArcDrive{MaxTurnRatePerMeter: math.Pi}
	start := spatialmath.NewPoseFromPoint(r3.Vector{})
	_, feasible := drive.ProjectPose(start, 0, 0)
	test.That(t, feasible, test.ShouldBeFalse)
}

func TestAngleDeltaWrapsAroundPi(t *testing.T) {
	d := angleDelta(math.Pi-0.1, -math.Pi+0.1)
	test.That(t, d, test.ShouldAlmostEqual, 0.2)
}
