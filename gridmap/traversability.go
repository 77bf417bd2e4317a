package gridmap

import (
	"errors"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/spatialmath"
)

// Classification is a closed sum type describing a traversability cell.
type Classification int

const (
	// Unclassified means no measurement and no max has ever reached the
	// cell: it has simply never been observed.
	Unclassified Classification = iota
	// Traversable means the cell (and its neighbors) pass the step-height
	// test.
	Traversable
	// Obstacle means some neighbor's step height exceeds the classifier's
	// threshold.
	Obstacle
	// UnknownObstacle means the cell itself has no real measurement but a
	// max was recorded (e.g. from interpolation), so it is conservatively
	// treated as a potential obstacle pending step-height comparison.
	UnknownObstacle
)

// String renders the classification name, mainly for logging.
func (c Classification) String() string {
	switch c {
	case Unclassified:
		return "UNCLASSIFIED"
	case Traversable:
		return "TRAVERSABLE"
	case Obstacle:
		return "OBSTACLE"
	case UnknownObstacle:
		return "UNKNOWN_OBSTACLE"
	default:
		return "INVALID"
	}
}

// ErrOutOfGrid is returned by region-stamp operations when the requested
// pose has no footprint overlap with the traversability grid at all.
var ErrOutOfGrid = errors.New("gridmap: pose is out of grid")

// TraversabilityGrid is a SlidingGrid of Classification, derived from an
// ElevationGrid via a local step-height test.
type TraversabilityGrid struct {
	*SlidingGrid[Classification]
	maxStepSize float64
}

// NewTraversabilityGrid constructs an all-Unclassified traversability grid
// matching elev's dimensions, resolution, and origin.
func NewTraversabilityGrid(elev *ElevationGrid, maxStepSize float64) *TraversabilityGrid {
	empty := func() Classification { return Unclassified }
	return &TraversabilityGrid{
		SlidingGrid: NewSlidingGrid[Classification](elev.Width(), elev.Height(), elev.Resolution(), elev.Origin(), empty),
		maxStepSize: maxStepSize,
	}
}

// ClassifyFrom recomputes every cell's classification from elev, which must
// share this grid's dimensions, resolution, and origin (callers obtain both
// grids from the same MapPipeline, which keeps them in lockstep).
func (t *TraversabilityGrid) ClassifyFrom(elev *ElevationGrid) {
	elev.ForEach(func(x, y int, cell *ElevationCell) {
		out := t.Entry(x, y)
		if out == nil {
			return
		}
		*out = classifyCell(elev, x, y, cell, t.maxStepSize)
	})
}

func classifyCell(elev *ElevationGrid, x, y int, cell *ElevationCell, maxStepSize float64) Classification {
	count, _, maximum, median, _ := cell.Summary()

	if count == 0 && maximum == math.Inf(-1) {
		return Unclassified
	}

	var curHeight float64
	class := Traversable
	if count == 0 {
		curHeight = maximum
		class = UnknownObstacle
	} else {
		curHeight = median
	}

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := elev.Entry(x+dx, y+dy)
			if n == nil {
				continue
			}
			nCount, nMin, nMax, nMedian, _ := n.Summary()
			var nh float64
			switch {
			case nCount > 0:
				nh = nMedian
			case nMax == math.Inf(-1):
				// No data on this neighbor at all: skip, it cannot
				// participate in the step-height arithmetic.
				continue
			default:
				// Neighbor has a max but no real measurement: assume the
				// worst plausible drop.
				nh = nMin
			}
			if math.Abs(nh-curHeight) > maxStepSize {
				class = Obstacle
			}
		}
	}
	return class
}

// MarkRadiusAs overwrites every UNCLASSIFIED or UNKNOWN_OBSTACLE cell
// within Euclidean radius of pose.Point() with class. When upgrading to
// TRAVERSABLE a cell with no real measurement, the backing elevation cell
// is seeded with its own current median (0 if it holds no data) as a
// pseudo-measurement so subsequent smoothing treats it as known; cells
// that already hold measurements are not seeded again. Returns
// ErrOutOfGrid if the circle has no overlap with the grid.
func (t *TraversabilityGrid) MarkRadiusAs(elev *ElevationGrid, pose spatialmath.Pose, radius float64, class Classification) error {
	center := pose.Point()
	cix, ciy, _ := t.GetGridPoint(center)
	cellRadius := int(math.Ceil(radius/t.Resolution())) + 1

	touched := false
	for dy := -cellRadius; dy <= cellRadius; dy++ {
		for dx := -cellRadius; dx <= cellRadius; dx++ {
			ix, iy := cix+dx, ciy+dy
			if !t.InGrid(ix, iy) {
				continue
			}
			world := t.WorldCenter(ix, iy)
			if r3.Vector{X: world.X - center.X, Y: world.Y - center.Y}.Norm() > radius {
				continue
			}
			touched = true
			seed := 0.0
			if ecell := elev.Entry(ix, iy); ecell != nil && ecell.HasData() {
				seed = ecell.Median()
			}
			t.stampCell(elev, ix, iy, class, seed)
		}
	}
	if !touched {
		return ErrOutOfGrid
	}
	return nil
}

// MarkRectAs overwrites every UNCLASSIFIED or UNKNOWN_OBSTACLE cell inside
// a width x height rectangle, offset forward by forwardOffset along the
// pose's heading and rotated into world coordinates, with class. Returns
// ErrOutOfGrid if the rectangle has no overlap with the grid.
func (t *TraversabilityGrid) MarkRectAs(elev *ElevationGrid, pose spatialmath.Pose, width, height, forwardOffset float64, class Classification) error {
	heading := Heading(pose)
	cosH, sinH := math.Cos(heading), math.Sin(heading)
	center := pose.Point()
	rectCenter := r3.Vector{
		X: center.X + forwardOffset*cosH,
		Y: center.Y + forwardOffset*sinH,
		Z: center.Z,
	}

	// Half-extents of the rectangle. Containment is tested by rotating
	// each candidate cell into the rectangle's local frame rather than
	// building a world-frame bounding box, since the rectangle itself is
	// rotated by heading.
	halfW, halfH := width/2, height/2

	touched := false
	t.ForEach(func(ix, iy int, _ *Classification) {
		w := t.WorldCenter(ix, iy)
		relX := w.X - rectCenter.X
		relY := w.Y - rectCenter.Y
		localX := relX*cosH + relY*sinH
		localY := -relX*sinH + relY*cosH
		if localX < -halfW || localX > halfW || localY < -halfH || localY > halfH {
			return
		}
		touched = true
		t.stampCell(elev, ix, iy, class, 0)
	})
	if !touched {
		return ErrOutOfGrid
	}
	return nil
}

// stampCell applies the region-stamp overwrite policy to a single cell:
// only UNCLASSIFIED/UNKNOWN_OBSTACLE cells are overwritten, and upgrading
// to TRAVERSABLE on a cell with no real measurement seeds the elevation
// cell with rectSeedHeight so subsequent smoothing treats it as known.
// MarkRadiusAs passes the cell's own current median as that seed;
// MarkRectAs passes a flat 0, per the differing source behaviors for the
// two region-stamp shapes.
func (t *TraversabilityGrid) stampCell(elev *ElevationGrid, ix, iy int, class Classification, rectSeedHeight float64) {
	cur := t.Entry(ix, iy)
	if cur == nil || (*cur != Unclassified && *cur != UnknownObstacle) {
		return
	}
	*cur = class
	if class != Traversable {
		return
	}
	ecell := elev.Entry(ix, iy)
	if ecell == nil {
		return
	}
	if ecell.Count() == 0 {
		ecell.AddMeasurement(rectSeedHeight)
	}
}

// Heading projects pose's orientation onto the world Z-axis, returning the
// robot's planar yaw in radians. This is the standard quaternion-to-yaw
// extraction (atan2 of the Z-axis rotation component), not the
// OrientationVector's Theta (which is rotation about an arbitrary OX/OY/OZ
// axis and is not generally the world-Z heading for a non-level pose).
func Heading(pose spatialmath.Pose) float64 {
	q := pose.Orientation().Quaternion()
	return math.Atan2(
		2*(q.Real*q.Kmag+q.Imag*q.Jmag),
		1-2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag),
	)
}
