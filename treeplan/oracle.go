package treeplan

import "go.viam.com/rdk/spatialmath"

// AngleInterval is an angular arc [Lo, Hi] (radians, world frame) of
// locally admissible travel directions, as produced by NextDirections.
type AngleInterval struct {
	Lo, Hi float64
}

// OracleSet bundles the five map/kinematics queries the planner needs: the
// planner core never imports gridmap or any concrete map representation,
// only this interface. All five methods are pure functions of a fixed map
// snapshot; mutating the underlying map mid-expansion is a caller error.
type OracleSet interface {
	// IsTerminal reports whether n satisfies the planner's goal condition.
	IsTerminal(n *TreeNode) bool

	// Heuristic returns an admissible (never-overestimating), ≥0 estimate
	// of the remaining cost from n to a terminal node.
	Heuristic(n *TreeNode) float64

	// CostForNode returns the ≥0 cost of the edge into n (optionally
	// including an "at n" cost component).
	CostForNode(n *TreeNode) float64

	// NextDirections returns the angle intervals of locally admissible
	// headings from pose, given the configured safety clearance and robot
	// width.
	NextDirections(pose spatialmath.Pose, safetyDistance, width float64) []AngleInterval

	// ProjectPose applies kinematic constraints to advance pose by
	// distance along heading, returning the resulting pose and whether
	// the motion is feasible. An infeasible projection is not an error:
	// the planner silently discards the candidate child.
	ProjectPose(pose spatialmath.Pose, heading, distance float64) (spatialmath.Pose, bool)
}

// TreeSearchConf configures one Planner.Plan invocation.
type TreeSearchConf struct {
	// MaxTreeSize hard-caps the total number of nodes the tree may grow to.
	MaxTreeSize int
	// StepDistance is the edge length, in meters, for each expansion.
	StepDistance float64
	// AngularSampling caps the number of headings drawn per direction
	// interval (endpoints plus interior samples).
	AngularSampling int
	// DiscountFactor exponentially de-weights cost by depth; must be in
	// (0, 1]. The heuristic itself is never rescaled to compensate:
	// preserving admissibility under discounting < 1 is the oracle
	// author's responsibility.
	DiscountFactor float64
	// ObstacleSafetyDistance is passed through to NextDirections as
	// clearance.
	ObstacleSafetyDistance float64
	// RobotWidth is passed through to NextDirections as radius.
	RobotWidth float64
	// PositionTolerance and HeadingTolerance are stamped onto every
	// waypoint of the reconstructed trajectory.
	PositionTolerance float64
	HeadingTolerance  float64
}
