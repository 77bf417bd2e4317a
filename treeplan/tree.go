package treeplan

import (
	"fmt"

	"go.viam.com/rdk/spatialmath"
)

// Waypoint is one stop along a reconstructed trajectory: a pose plus the
// tolerances a downstream controller should accept it within.
type Waypoint struct {
	Pose             spatialmath.Pose
	Heading          float64
	PositionTol      float64
	HeadingTol       float64
}

// Tree is a single rooted SearchTree: nodes hold non-owning parent/child
// links into a flat arena (Tree.nodes), so removing a subtree is a
// post-order walk that marks slots reclaimed rather than an ownership
// transfer. A Tree is not safe for concurrent use; the Planner drives it
// from a single goroutine.
type Tree struct {
	nodes []*TreeNode
	size  int
}

// NewTree constructs a tree with a single root node at the given pose,
// depth 0, cost 0, and the supplied heuristic value.
func NewTree(root spatialmath.Pose, heuristic float64) *Tree {
	t := &Tree{}
	n := &TreeNode{
		id:        0,
		parent:    noParent,
		pose:      root,
		depth:     0,
		cost:      0,
		heuristic: heuristic,
	}
	t.nodes = append(t.nodes, n)
	t.size = 1
	return t
}

// Root returns the tree's root node.
func (t *Tree) Root() *TreeNode { return t.nodes[0] }

// Size returns the count of nodes currently reachable from the root.
func (t *Tree) Size() int { return t.size }

// Node returns the node with the given id, or nil if it has been removed
// or the id is out of range.
func (t *Tree) Node(id int) *TreeNode {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	n := t.nodes[id]
	if n.removed {
		return nil
	}
	return n
}

// AddChild creates a node with the given pose, direction, cost, and
// heuristic, appends it to parent's child list, and returns it. The
// child's id, parent link, depth (parent's depth + 1), and parent's
// non-leaf bookkeeping are set here.
func (t *Tree) AddChild(parent *TreeNode, pose spatialmath.Pose, direction, cost, heuristic float64) *TreeNode {
	child := &TreeNode{
		id:        nodeID(len(t.nodes)),
		parent:    parent.id,
		pose:      pose,
		direction: direction,
		depth:     parent.depth + 1,
		cost:      cost,
		heuristic: heuristic,
	}
	t.nodes = append(t.nodes, child)
	parent.children = append(parent.children, child.id)
	t.size++
	return child
}

// RemoveChild removes the entire subtree rooted at child from the tree,
// including child itself, via a post-order traversal. child must currently
// belong to this tree; removing the root is not supported.
func (t *Tree) RemoveChild(child *TreeNode) {
	if child.IsRoot() {
		return
	}
	parent := t.nodes[child.parent]
	removed := t.reclaimSubtree(child)
	t.size -= removed

	idx := -1
	for i, id := range parent.children {
		if id == child.id {
			idx = i
			break
		}
	}
	if idx >= 0 {
		parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
	}
}

// reclaimSubtree marks n and every descendant removed, post-order, and
// returns the count of nodes reclaimed.
func (t *Tree) reclaimSubtree(n *TreeNode) int {
	count := 0
	for _, cid := range n.children {
		count += t.reclaimSubtree(t.nodes[cid])
	}
	n.children = nil
	n.removed = true
	count++
	return count
}

// BuildTrajectoryTo walks leaf's parent links back to the root, collecting
// poses, then reverses the chain so the root is first and leaf is last.
func (t *Tree) BuildTrajectoryTo(leaf *TreeNode, positionTol, headingTol float64) []Waypoint {
	var chain []*TreeNode
	for n := leaf; n != nil; {
		chain = append(chain, n)
		if n.IsRoot() {
			break
		}
		n = t.nodes[n.parent]
	}

	waypoints := make([]Waypoint, len(chain))
	for i, n := range chain {
		out := len(chain) - 1 - i
		waypoints[out] = Waypoint{
			Pose:        n.pose,
			Heading:     Heading(n.pose),
			PositionTol: positionTol,
			HeadingTol:  headingTol,
		}
	}
	return waypoints
}

// HeuristicInconsistency describes one parent/child pair that violates
// monotonicity: parent.heuristic > edge_cost(parent, child) + child.heuristic.
type HeuristicInconsistency struct {
	ParentID, ChildID int
	ParentHeuristic   float64
	EdgeCost          float64
	ChildHeuristic    float64
}

func (h HeuristicInconsistency) Error() string {
	return fmt.Sprintf(
		"treeplan: inconsistent heuristic at parent=%d child=%d: h(parent)=%g > edge_cost=%g + h(child)=%g",
		h.ParentID, h.ChildID, h.ParentHeuristic, h.EdgeCost, h.ChildHeuristic,
	)
}

// VerifyHeuristicConsistency walks every ancestor chain from leaf up to the
// root and asserts parent.heuristic <= edge_cost(parent,child) + child.heuristic
// for each edge, where edge_cost is recovered from the stored per-node costs
// (child.cost includes the discounted edge cost added on top of
// parent.cost). Violations are collected and returned; a non-empty result
// indicates a non-admissible or inconsistent user-supplied heuristic, which
// is a programming error in the oracle, not a planner fault.
func VerifyHeuristicConsistency(from *TreeNode, nodeAt func(nodeID) *TreeNode) []HeuristicInconsistency {
	var violations []HeuristicInconsistency
	child := from
	for !child.IsRoot() {
		parent := nodeAt(child.parent)
		if parent == nil {
			break
		}
		edgeCost := child.cost - parent.cost
		if parent.heuristic > edgeCost+child.heuristic+1e-9 {
			violations = append(violations, HeuristicInconsistency{
				ParentID:        int(parent.id),
				ChildID:         int(child.id),
				ParentHeuristic: parent.heuristic,
				EdgeCost:        edgeCost,
				ChildHeuristic:  child.heuristic,
			})
		}
		child = parent
	}
	return violations
}

// VerifyHeuristicConsistency walks from's ancestor chain to the root,
// asserting the monotone-heuristic invariant on every edge, using this
// tree's own node storage to resolve parent links.
func (t *Tree) VerifyHeuristicConsistency(from *TreeNode) []HeuristicInconsistency {
	return VerifyHeuristicConsistency(from, func(id nodeID) *TreeNode {
		if int(id) < 0 || int(id) >= len(t.nodes) {
			return nil
		}
		return t.nodes[id]
	})
}

// CheckHeuristicConsistency runs VerifyHeuristicConsistency from's ancestor
// chain and reports the result as an error: nil if no violation was found,
// or ErrBadOracle wrapping the first violation otherwise. Callers that want
// the full violation list should call VerifyHeuristicConsistency directly;
// this is the precondition-check entry point for callers that just want a
// pass/fail answer via errors.Is(err, ErrBadOracle).
func (t *Tree) CheckHeuristicConsistency(from *TreeNode) error {
	violations := t.VerifyHeuristicConsistency(from)
	if len(violations) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrBadOracle, violations[0].Error())
}
