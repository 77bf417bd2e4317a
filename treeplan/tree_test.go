package treeplan

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/rdk/spatialmath"
)

func poseAt(x, y float64) spatialmath.Pose {
	return spatialmath.NewPoseFromPoint(r3.Vector{X: x, Y: y})
}

func TestAddChildUpdatesSizeAndParent(t *testing.T) {
	tree := NewTree(poseAt(0, 0), 10)
	test.That(t, tree.Size(), test.ShouldEqual, 1)

	child := tree.AddChild(tree.Root(), poseAt(1, 0), 0, 1, 9)
	test.That(t, tree.Size(), test.ShouldEqual, 2)
	test.That(t, child.IsRoot(), test.ShouldBeFalse)
	test.That(t, tree.Root().IsLeaf(), test.ShouldBeFalse)
}

func TestRemoveChildReclaimsSubtree(t *testing.T) {
	tree := NewTree(poseAt(0, 0), 10)
	a := tree.AddChild(tree.Root(), poseAt(1, 0), 0, 1, 9)
	b := tree.AddChild(a, poseAt(2, 0), 0, 2, 8)
	tree.AddChild(b, poseAt(3, 0), 0, 3, 7)
	test.That(t, tree.Size(), test.ShouldEqual, 4)

	tree.RemoveChild(a)
	test.That(t, tree.Size(), test.ShouldEqual, 1)
	test.That(t, tree.Root().IsLeaf(), test.ShouldBeTrue)
	test.That(t, tree.Node(int(a.id)), test.ShouldBeNil)
	test.That(t, tree.Node(int(b.id)), test.ShouldBeNil)
}

func TestBuildTrajectoryToIncludesRootAndLeaf(t *testing.T) {
	tree := NewTree(poseAt(0, 0), 10)
	a := tree.AddChild(tree.Root(), poseAt(1, 0), 0, 1, 9)
	b := tree.AddChild(a, poseAt(2, 0), 0, 2, 8)

	wps := tree.BuildTrajectoryTo(b, 0.1, 0.2)
	test.That(t, len(wps), test.ShouldEqual, 3)
	test.That(t, wps[0].Pose.Point(), test.ShouldResemble, tree.Root().Pose().Point())
	test.That(t, wps[2].Pose.Point(), test.ShouldResemble, b.Pose().Point())
	test.That(t, wps[0].PositionTol, test.ShouldEqual, 0.1)
	test.That(t, wps[0].HeadingTol, test.ShouldEqual, 0.2)
}

func TestVerifyHeuristicConsistencyFlagsViolation(t *testing.T) {
	tree := NewTree(poseAt(0, 0), 10)
	// parent heuristic 10, edge cost 1, child heuristic 2: 10 > 1+2 violates.
	child := tree.AddChild(tree.Root(), poseAt(1, 0), 0, 1, 2)

	violations := tree.VerifyHeuristicConsistency(child)
	test.That(t, len(violations), test.ShouldEqual, 1)
	test.That(t, violations[0].ParentID, test.ShouldEqual, int(tree.Root().id))
}

func TestVerifyHeuristicConsistencyPassesConsistentHeuristic(t *testing.T) {
	tree := NewTree(poseAt(0, 0), 2)
	// edge cost 1, child heuristic 1: 2 <= 1+1 holds.
	child := tree.AddChild(tree.Root(), poseAt(1, 0), 0, 1, 1)

	violations := tree.VerifyHeuristicConsistency(child)
	test.That(t, len(violations), test.ShouldEqual, 0)
}

func TestCheckHeuristicConsistencyReturnsErrBadOracleOnViolation(t *testing.T) {
	tree := NewTree(poseAt(0, 0), 10)
	// parent heuristic 10, edge cost 1, child heuristic 2: 10 > 1+2 violates.
	child := tree.AddChild(tree.Root(), poseAt(1, 0), 0, 1, 2)

	err := tree.CheckHeuristicConsistency(child)
	test.That(t, errors.Is(err, ErrBadOracle), test.ShouldBeTrue)
}

func TestCheckHeuristicConsistencyReturnsNilWhenConsistent(t *testing.T) {
	tree := NewTree(poseAt(0, 0), 2)
	// edge cost 1, child heuristic 1: 2 <= 1+1 holds.
	child := tree.AddChild(tree.Root(), poseAt(1, 0), 0, 1, 1)

	err := tree.CheckHeuristicConsistency(child)
	test.That(t, err, test.ShouldBeNil)
}
