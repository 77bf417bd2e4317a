// Package kinodrive provides a reference ProjectPose implementation for
// treeplan.OracleSet: a differential-drive kinematic model that turns onto
// a target world heading and advances the full distance straight along it,
// building the motion by composing elementary poses with
// spatialmath.Compose rather than hand-deriving a single closed-form
// transform. The turn is not traced as an arc: the turn-rate limit only
// decides whether a projection is feasible.
package kinodrive

import (
	"math"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"

	"github.com/groundrover/navplan/treeplan"
)

// ArcDrive is a treeplan.OracleSet-compatible ProjectPose source modeling a
// robot whose maximum turn rate is MaxTurnRatePerMeter radians of heading
// change per meter driven. A requested heading change that cannot be
// completed within the step distance is infeasible.
type ArcDrive struct {
	MaxTurnRatePerMeter float64
}

// ProjectPose turns pose onto heading and advances distance meters straight
// along heading from pose's position, returning the new pose. The heading
// change is applied at the start point, not along an arc. It is infeasible
// when distance is non-positive or the required turn exceeds
// MaxTurnRatePerMeter * distance.
func (d ArcDrive) ProjectPose(pose spatialmath.Pose, heading, distance float64) (spatialmath.Pose, bool) {
	if distance <= 0 {
		return nil, false
	}

	current := treeplan.Heading(pose)
	delta := angleDelta(current, heading)

	maxTurn := d.MaxTurnRatePerMeter * distance
	if math.Abs(delta) > maxTurn+1e-9 {
		return nil, false
	}

	rotation := spatialmath.NewPoseFromOrientation(r3.Vector{}, &spatialmath.OrientationVectorRadians{OZ: 1, Theta: heading})
	forward := spatialmath.NewPoseFromPoint(r3.Vector{X: distance})
	arc := spatialmath.Compose(rotation, forward)

	newPoint := pose.Point().Add(arc.Point())
	newPose := spatialmath.NewPose(newPoint, &spatialmath.OrientationVectorRadians{OZ: 1, Theta: heading})
	return newPose, true
}

// angleDelta returns the signed shortest angular distance from 'from' to
// 'to', in [-π, π).
func angleDelta(from, to float64) float64 {
	d := math.Mod(to-from+math.Pi, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d - math.Pi
}
