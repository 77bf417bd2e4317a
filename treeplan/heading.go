package treeplan

import (
	"math"

	"go.viam.com/rdk/spatialmath"
)

// Heading projects pose's orientation onto the world Z-axis, returning the
// planar yaw in radians. treeplan and gridmap each define this
// independently rather than sharing a package: treeplan must never import
// gridmap, so the small quaternion-to-yaw extraction is duplicated here
// rather than factored into a shared dependency.
func Heading(pose spatialmath.Pose) float64 {
	q := pose.Orientation().Quaternion()
	return math.Atan2(
		2*(q.Real*q.Kmag+q.Imag*q.Jmag),
		1-2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag),
	)
}
