package treeplan

import "go.viam.com/rdk/spatialmath"

// nodeID indexes into Tree.nodes. The zero value is never a valid id for a
// node that has been added to a tree (the root is assigned id 0 but is
// never referenced via the zero value of a pointer field; absence is
// spelled with the noParent sentinel below).
type nodeID int

const noParent nodeID = -1

// TreeNode is one vertex of a SearchTree: a pose reached by the planner,
// together with the bookkeeping the expansion loop and trajectory
// reconstruction need. Nodes are arena-allocated inside Tree.nodes; a node
// never owns its children or parent, it only references them by id, so a
// subtree can be reclaimed by a straightforward post-order walk without
// fighting Go's GC over ownership cycles.
type TreeNode struct {
	id       nodeID
	parent   nodeID
	children []nodeID

	pose      spatialmath.Pose
	direction float64
	depth     int

	cost      float64
	heuristic float64

	// removed marks a node whose subtree has been reclaimed by RemoveChild.
	// Its slot in Tree.nodes is never reused within the tree's lifetime, so
	// stale nodeIDs (e.g. from an external reference to a removed node)
	// fail safely rather than aliasing an unrelated node.
	removed bool
}

// Pose returns the pose this node was reached at.
func (n *TreeNode) Pose() spatialmath.Pose { return n.pose }

// Direction returns the sampled heading (radians, world frame) the planner
// projected from the parent to reach this node. The root's direction is 0
// and carries no meaning.
func (n *TreeNode) Direction() float64 { return n.direction }

// Depth returns the node's distance (edge count) from the root.
func (n *TreeNode) Depth() int { return n.depth }

// Cost returns the accumulated, discounted path cost from the root.
func (n *TreeNode) Cost() float64 { return n.cost }

// Heuristic returns the node's cached admissible heuristic value.
func (n *TreeNode) Heuristic() float64 { return n.heuristic }

// HeuristicCost returns cost + heuristic, the key the planner's priority
// queue orders by.
func (n *TreeNode) HeuristicCost() float64 { return n.cost + n.heuristic }

// IsRoot reports whether n has no parent.
func (n *TreeNode) IsRoot() bool { return n.parent == noParent }

// IsLeaf reports whether n currently has no children.
func (n *TreeNode) IsLeaf() bool { return len(n.children) == 0 }

// ID returns the node's stable identifier within its owning Tree.
func (n *TreeNode) ID() int { return int(n.id) }
