package treeplan

import "errors"

// ErrBadOracle is returned by Tree.CheckHeuristicConsistency (not by Plan
// itself, but available for callers that run it as a precondition check)
// when VerifyHeuristicConsistency finds a non-consistent heuristic. Plan
// itself never runs this audit implicitly; violations are reported, not
// silently recovered from.
var ErrBadOracle = errors.New("treeplan: heuristic failed consistency audit")
