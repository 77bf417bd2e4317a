package treeplan

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/rdk/spatialmath"
)

// straightLineOracle implements OracleSet for scenarios S4/S5: a single
// heading interval [π/2, π/2] (due +Y), a ProjectPose that advances
// step_distance along the requested heading, unit edge cost, and terminal
// when y >= goalY.
type straightLineOracle struct {
	goalY float64
}

func (s straightLineOracle) IsTerminal(n *TreeNode) bool {
	return n.Pose().Point().Y >= s.goalY
}

func (s straightLineOracle) Heuristic(n *TreeNode) float64 {
	d := s.goalY - n.Pose().Point().Y
	if d < 0 {
		return 0
	}
	return d
}

func (s straightLineOracle) CostForNode(n *TreeNode) float64 { return 1 }

func (s straightLineOracle) NextDirections(pose spatialmath.Pose, safety, width float64) []AngleInterval {
	return []AngleInterval{{Lo: math.Pi / 2, Hi: math.Pi / 2}}
}

func (s straightLineOracle) ProjectPose(pose spatialmath.Pose, heading, distance float64) (spatialmath.Pose, bool) {
	p := pose.Point()
	next := r3.Vector{X: p.X + distance*math.Cos(heading), Y: p.Y + distance*math.Sin(heading), Z: p.Z}
	return spatialmath.NewPoseFromPoint(next), true
}

func TestPlanStraightLineReachesGoal(t *testing.T) {
	conf := TreeSearchConf{
		MaxTreeSize:            20,
		StepDistance:           1,
		AngularSampling:        2,
		DiscountFactor:         1.0,
		ObstacleSafetyDistance: 1,
		RobotWidth:             1,
	}
	planner := NewPlanner(conf)
	start := spatialmath.NewPoseFromPoint(r3.Vector{})
	result, err := planner.Plan(context.Background(), start, straightLineOracle{goalY: 10})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(result.Waypoints), test.ShouldEqual, 11)
	test.That(t, result.Waypoints[0].Pose.Point().Y, test.ShouldEqual, 0.0)
	test.That(t, result.Waypoints[len(result.Waypoints)-1].Pose.Point().Y, test.ShouldEqual, 10.0)
	test.That(t, result.BudgetExhausted, test.ShouldBeFalse)
}

func TestPlanBudgetExhaustedReturnsBestSoFar(t *testing.T) {
	conf := TreeSearchConf{
		MaxTreeSize:            5,
		StepDistance:           1,
		AngularSampling:        2,
		DiscountFactor:         1.0,
		ObstacleSafetyDistance: 1,
		RobotWidth:             1,
	}
	planner := NewPlanner(conf)
	start := spatialmath.NewPoseFromPoint(r3.Vector{})
	result, err := planner.Plan(context.Background(), start, straightLineOracle{goalY: 10})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(result.Waypoints), test.ShouldEqual, 5)
	test.That(t, result.BudgetExhausted, test.ShouldBeTrue)
}

func TestPlanEmptyResultWhenNoHeadingsAdmissible(t *testing.T) {
	conf := TreeSearchConf{
		MaxTreeSize:            20,
		StepDistance:           1,
		AngularSampling:        2,
		DiscountFactor:         1.0,
		ObstacleSafetyDistance: 1,
		RobotWidth:             1,
	}
	planner := NewPlanner(conf)
	start := spatialmath.NewPoseFromPoint(r3.Vector{})
	result, err := planner.Plan(context.Background(), start, noDirectionsOracle{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(result.Waypoints), test.ShouldEqual, 0)
	test.That(t, result.BudgetExhausted, test.ShouldBeFalse)
}

// noDirectionsOracle never finds a terminal node and never offers any
// heading, so expansion stops immediately at the root: no child was ever
// added, and the root is never eligible as a best-so-far leaf, so Plan
// must return an empty waypoint sequence rather than a trajectory
// consisting of just the start pose.
type noDirectionsOracle struct{}

func (noDirectionsOracle) IsTerminal(n *TreeNode) bool     { return false }
func (noDirectionsOracle) Heuristic(n *TreeNode) float64   { return 1 }
func (noDirectionsOracle) CostForNode(n *TreeNode) float64 { return 1 }
func (noDirectionsOracle) NextDirections(pose spatialmath.Pose, safety, width float64) []AngleInterval {
	return nil
}
func (noDirectionsOracle) ProjectPose(pose spatialmath.Pose, heading, distance float64) (spatialmath.Pose, bool) {
	return nil, false
}
