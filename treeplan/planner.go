package treeplan

import (
	"context"

	"go.uber.org/zap/zapcore"

	"go.viam.com/rdk/spatialmath"

	"github.com/groundrover/navplan/logging"
)

// Result is the outcome of a Plan call.
type Result struct {
	Waypoints []Waypoint
	// BudgetExhausted is true when the tree hit MaxTreeSize before any
	// terminal node was found; the returned waypoints are still the
	// best-so-far trajectory.
	BudgetExhausted bool
	// TreeSize is the final node count, for callers that want to log or
	// inspect the search's growth.
	TreeSize int
}

// Planner runs a best-first kinodynamic expansion loop against an
// injected OracleSet. Planner never imports a concrete map representation;
// it knows only the five OracleSet methods.
type Planner struct {
	conf   TreeSearchConf
	logger logging.Logger
}

// NewPlanner constructs a Planner bound to conf for the lifetime of
// repeated Plan calls. Diagnostics are discarded until SetLogger is called.
func NewPlanner(conf TreeSearchConf) *Planner {
	return &Planner{conf: conf, logger: logging.NewLogger("treeplan", zapcore.InfoLevel)}
}

// SetLogger attaches logger to the planner for per-expansion budget/goal
// diagnostics.
func (p *Planner) SetLogger(logger logging.Logger) { p.logger = logger }

// Plan grows a SearchTree rooted at start using oracles, returning the
// reconstructed trajectory to the best terminal node found (minimum total
// cost among recorded goals), or, if none was reached before the tree's
// budget was exhausted, the trajectory to the leaf with minimum
// heuristic_cost (graceful degradation). An empty oracle-driven expansion
// from the root (no admissible headings, or every projection infeasible)
// yields an empty waypoint sequence, not an error.
//
// ctx is checked between queue pops only; Plan does not spawn goroutines,
// so cancellation simply stops expansion early and returns the
// best-so-far result, same as hitting MaxTreeSize.
func (p *Planner) Plan(ctx context.Context, start spatialmath.Pose, oracles OracleSet) (Result, error) {
	tree := NewTree(start, 0)
	tree.Root().heuristic = oracles.Heuristic(tree.Root())

	queue := newPriorityQueue()
	queue.push(tree.Root())

	var bestGoal *TreeNode

	for !queue.empty() && tree.Size() < p.conf.MaxTreeSize {
		select {
		case <-ctx.Done():
			return p.buildResult(tree, bestGoal, false), nil
		default:
		}

		n := queue.pop()

		if oracles.IsTerminal(n) {
			if bestGoal == nil || n.Cost() < bestGoal.Cost() {
				bestGoal = n
				p.logger.Debugw("found terminal node", "node_id", n.ID(), "cost", n.Cost(), "depth", n.Depth())
			}
			continue
		}

		intervals := oracles.NextDirections(n.Pose(), p.conf.ObstacleSafetyDistance, p.conf.RobotWidth)
		headings := sampleAllHeadings(intervals, p.conf.AngularSampling)

		for _, heading := range headings {
			childPose, feasible := oracles.ProjectPose(n.Pose(), heading, p.conf.StepDistance)
			if !feasible {
				continue
			}

			discount := discountAtDepth(p.conf.DiscountFactor, n.Depth())
			child := tree.AddChild(n, childPose, heading, 0, 0)
			child.cost = n.Cost() + discount*oracles.CostForNode(child)
			child.heuristic = oracles.Heuristic(child)

			queue.push(child)

			if tree.Size() >= p.conf.MaxTreeSize {
				break
			}
		}
	}

	budgetExhausted := bestGoal == nil && tree.Size() >= p.conf.MaxTreeSize
	if budgetExhausted {
		p.logger.Infow("expansion exhausted node budget before reaching a terminal node", "tree_size", tree.Size())
	}
	return p.buildResult(tree, bestGoal, budgetExhausted), nil
}

// buildResult picks the trajectory leaf (bestGoal if one was recorded,
// otherwise the minimum-heuristic_cost non-root leaf remaining in the
// tree) and reconstructs its waypoint sequence. If neither exists — the
// root was never recorded as terminal and never grew a child — the
// result has an empty (nil) waypoint sequence rather than a trajectory
// to the start pose.
func (p *Planner) buildResult(tree *Tree, bestGoal *TreeNode, budgetExhausted bool) Result {
	leaf := bestGoal
	if leaf == nil {
		leaf = minHeuristicCostLeaf(tree)
	}
	if leaf == nil {
		p.logger.Infow("no feasible expansion from root, returning empty result", "tree_size", tree.Size())
		return Result{TreeSize: tree.Size(), BudgetExhausted: budgetExhausted}
	}
	waypoints := tree.BuildTrajectoryTo(leaf, p.conf.PositionTolerance, p.conf.HeadingTolerance)
	return Result{
		Waypoints:       waypoints,
		BudgetExhausted: budgetExhausted,
		TreeSize:        tree.Size(),
	}
}

// minHeuristicCostLeaf scans every live, non-root leaf in the tree for the
// minimum heuristic_cost. The root is never eligible: if it never grew any
// children, expansion found no admissible heading or every projection was
// infeasible, and the caller must return an empty result rather than a
// one-waypoint trajectory consisting of just the start pose. Ties are
// broken in favor of greater depth: among equally-promising leaves, the
// one the search progressed furthest toward is the more useful
// best-so-far answer.
func minHeuristicCostLeaf(tree *Tree) *TreeNode {
	var best *TreeNode
	for i := 0; i < len(tree.nodes); i++ {
		n := tree.nodes[i]
		if n.removed || !n.IsLeaf() || n.IsRoot() {
			continue
		}
		switch {
		case best == nil:
			best = n
		case n.HeuristicCost() < best.HeuristicCost()-1e-9:
			best = n
		case n.HeuristicCost() < best.HeuristicCost()+1e-9 && n.Depth() > best.Depth():
			best = n
		}
	}
	return best
}

// discountAtDepth computes discountFactor^depth without importing math's
// general Pow for the common depth==0 case, and guards discountFactor<=0
// from producing a misleading non-finite result on negative-depth misuse.
func discountAtDepth(discountFactor float64, depth int) float64 {
	if depth <= 0 {
		return 1
	}
	result := 1.0
	for i := 0; i < depth; i++ {
		result *= discountFactor
	}
	return result
}
