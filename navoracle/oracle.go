// Package navoracle supplies a reference treeplan.OracleSet backed by a
// gridmap.TraversabilityGrid: NextDirections ray-marches candidate
// headings against the grid, IsTerminal/Heuristic/CostForNode are
// goal-distance based, and ProjectPose is delegated to kinodrive.ArcDrive.
// This package is the only bridge between gridmap and treeplan; treeplan
// itself never imports gridmap.
package navoracle

import (
	"math"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"

	"github.com/groundrover/navplan/gridmap"
	"github.com/groundrover/navplan/kinodrive"
	"github.com/groundrover/navplan/treeplan"
)

// probeStep is the angular resolution at which NextDirections scans the
// full circle of headings before merging clear runs into intervals.
const probeStep = 5 * math.Pi / 180

// Oracle is a treeplan.OracleSet over a traversability grid, an optional
// elevation grid, and a single goal point. It keeps the grid pointers it is
// given and copies nothing, so the grids must not be mutated while Plan
// runs against this Oracle.
type Oracle struct {
	Grid *gridmap.TraversabilityGrid
	Elev *gridmap.ElevationGrid
	Goal r3.Vector

	// GoalTolerance is the Euclidean radius within which a node is
	// terminal.
	GoalTolerance float64
	// StepDistance must match the TreeSearchConf.StepDistance the
	// Planner is configured with: CostForNode has no access to the
	// parent pose, only the candidate node, so it reports this nominal
	// edge length (plus a terrain roughness penalty) rather than
	// recomputing the actual projected distance.
	StepDistance float64

	Drive kinodrive.ArcDrive
}

// IsTerminal reports whether n's position is within GoalTolerance of Goal.
func (o *Oracle) IsTerminal(n *treeplan.TreeNode) bool {
	return n.Pose().Point().Sub(o.Goal).Norm() <= o.GoalTolerance
}

// Heuristic returns the straight-line distance from n to Goal, which is
// admissible for any edge-cost model whose per-edge cost is at least the
// straight-line progress it makes (true of CostForNode below, whose
// roughness penalty only ever increases cost).
func (o *Oracle) Heuristic(n *treeplan.TreeNode) float64 {
	return n.Pose().Point().Sub(o.Goal).Norm()
}

// CostForNode charges StepDistance for the edge into n, multiplied by 1.5
// when n's cell is UNKNOWN_OBSTACLE (such cells carry some risk even though
// NextDirections already tries to avoid OBSTACLE cells entirely), plus the
// max-minus-min height spread of n's elevation cell when Elev is set and
// that cell has data.
func (o *Oracle) CostForNode(n *treeplan.TreeNode) float64 {
	cost := o.StepDistance
	ix, iy, ok := o.Grid.GetGridPoint(n.Pose().Point())
	if !ok {
		return cost
	}
	if cell := o.Grid.Entry(ix, iy); cell != nil && *cell == gridmap.UnknownObstacle {
		cost *= 1.5
	}
	if o.Elev != nil {
		if ecell := o.Elev.Entry(ix, iy); ecell != nil && ecell.HasData() {
			roughness := ecell.Maximum() - ecell.Minimum()
			cost += roughness
		}
	}
	return cost
}

// NextDirections scans the full circle of headings at probeStep
// resolution, ray-marching each candidate out to safetyDistance and
// rejecting any heading whose ray meets a cell that is not TRAVERSABLE (or
// leaves the grid), or whose far end has a non-TRAVERSABLE cell at a
// lateral offset of width to either side. Clear runs of consecutive probe
// angles are merged into AngleIntervals.
func (o *Oracle) NextDirections(pose spatialmath.Pose, safetyDistance, width float64) []treeplan.AngleInterval {
	numProbes := int(math.Round(2 * math.Pi / probeStep))
	clear := make([]bool, numProbes)
	for i := 0; i < numProbes; i++ {
		theta := -math.Pi + float64(i)*probeStep
		clear[i] = o.headingClear(pose.Point(), theta, safetyDistance, width)
	}
	return mergeClearRuns(clear, numProbes)
}

// ProjectPose delegates to the configured ArcDrive kinematic model.
func (o *Oracle) ProjectPose(pose spatialmath.Pose, heading, distance float64) (spatialmath.Pose, bool) {
	return o.Drive.ProjectPose(pose, heading, distance)
}

// headingClear ray-marches from origin along theta in steps of half the
// grid resolution, out to safetyDistance, and additionally probes
// lateral offsets of ±width at the far end to approximate robot-width
// clearance.
func (o *Oracle) headingClear(origin r3.Vector, theta, safetyDistance, width float64) bool {
	res := o.Grid.Resolution()
	step := res / 2
	if step <= 0 {
		step = 0.05
	}
	dir := r3.Vector{X: math.Cos(theta), Y: math.Sin(theta)}
	for d := step; d <= safetyDistance; d += step {
		p := origin.Add(dir.Mul(d))
		if !o.cellClear(p) {
			return false
		}
	}
	perp := r3.Vector{X: -dir.Y, Y: dir.X}
	far := origin.Add(dir.Mul(safetyDistance))
	left := far.Add(perp.Mul(width))
	right := far.Add(perp.Mul(-width))
	return o.cellClear(left) && o.cellClear(right)
}

// cellClear reports whether p falls on a TRAVERSABLE cell. Out-of-grid and
// UNCLASSIFIED/UNKNOWN_OBSTACLE/OBSTACLE points are all treated as not
// clear: NextDirections only offers headings the grid has positively
// confirmed traversable.
func (o *Oracle) cellClear(p r3.Vector) bool {
	ix, iy, ok := o.Grid.GetGridPoint(p)
	if !ok {
		return false
	}
	cell := o.Grid.Entry(ix, iy)
	return cell != nil && *cell == gridmap.Traversable
}

// mergeClearRuns groups the circular boolean probe array into
// AngleIntervals covering each maximal run of true entries, wrapping
// across the -π/π seam.
func mergeClearRuns(clear []bool, numProbes int) []treeplan.AngleInterval {
	if numProbes == 0 {
		return nil
	}
	allClear := true
	for _, c := range clear {
		if !c {
			allClear = false
			break
		}
	}
	if allClear {
		return []treeplan.AngleInterval{{Lo: -math.Pi, Hi: math.Pi}}
	}

	angleOf := func(i int) float64 { return -math.Pi + float64(i)*probeStep }

	var intervals []treeplan.AngleInterval
	start := -1
	for i := 0; i <= numProbes; i++ {
		idx := i % numProbes
		if i < numProbes && clear[idx] && start == -1 {
			start = i
		}
		if (!clear[idx] || i == numProbes) && start != -1 {
			end := i
			intervals = append(intervals, treeplan.AngleInterval{Lo: angleOf(start), Hi: angleOf(end - 1)})
			start = -1
		}
	}
	// A run touching both ends of the probe array continues across the
	// -π/π seam: fold the last run into the first, giving one interval
	// whose Lo lies below -π.
	if len(intervals) > 1 && clear[0] && clear[numProbes-1] {
		last := intervals[len(intervals)-1]
		intervals[0].Lo = last.Lo - 2*math.Pi
		intervals = intervals[:len(intervals)-1]
	}
	return intervals
}
