package gridmap

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"

	"go.uber.org/zap/zapcore"

	"go.viam.com/rdk/spatialmath"

	"github.com/groundrover/navplan/logging"
)

// PipelineConfig configures a MapPipeline's grid dimensions and
// motion-triggered update thresholds.
type PipelineConfig struct {
	Width, Height int
	Resolution    float64
	// BoundarySize is how close (meters) the robot may get to the grid
	// edge before a recenter is triggered.
	BoundarySize float64
	// MaxStepSize is the classifier's step-height threshold (meters).
	MaxStepSize float64
	// WheelMasks are axis-aligned boxes, in the robot body frame, whose
	// interior beams are discarded before elevation ingest (e.g. wheel or
	// track footprints that would otherwise self-scan).
	WheelMasks []WheelMask
}

// WheelMask is an axis-aligned box in the robot body frame, centered at
// Center with the given half-extents, used to mask out self-scan beams
// (wheel or track footprints) before they reach the elevation grid.
type WheelMask struct {
	Center            r3.Vector
	HalfWidth, HalfLength float64
}

// Contains reports whether body-frame point p falls inside the mask.
func (m WheelMask) Contains(p r3.Vector) bool {
	return math.Abs(p.X-m.Center.X) <= m.HalfWidth && math.Abs(p.Y-m.Center.Y) <= m.HalfLength
}

// MapPipeline orchestrates scan ingest, conservative interpolation, and
// traversability classification, and manages motion-triggered grid
// recentering.
type MapPipeline struct {
	cfg PipelineConfig

	elev   *ElevationGrid
	smooth *ElevationGrid
	trav   *TraversabilityGrid

	haveLast       bool
	lastBodyToOdo  spatialmath.Pose
	lastLaserToOdo spatialmath.Pose
	lastIngestAt   time.Time

	logger logging.Logger
	clock  clock.Clock
}

// NewMapPipeline constructs a MapPipeline whose grid is initially centered
// on the origin; the first Ingest call recenters it onto the robot when the
// robot lies outside it, per the "first scan" special case in Ingest's
// recenter step. Diagnostics are
// discarded until SetLogger is called; the wall clock used for
// inter-ingest timing defaults to the real clock until SetClock is called
// (tests inject a *clock.Mock for deterministic Δt bookkeeping).
func NewMapPipeline(cfg PipelineConfig) *MapPipeline {
	elev := NewElevationGrid(cfg.Width, cfg.Height, cfg.Resolution, r3.Vector{})
	smooth := NewElevationGrid(cfg.Width, cfg.Height, cfg.Resolution, r3.Vector{})
	trav := NewTraversabilityGrid(smooth, cfg.MaxStepSize)
	return &MapPipeline{
		cfg:    cfg,
		elev:   elev,
		smooth: smooth,
		trav:   trav,
		logger: logging.NewLogger("gridmap", zapcore.InfoLevel),
		clock:  clock.New(),
	}
}

// SetLogger attaches logger to the pipeline for ingest accept/reject and
// recenter diagnostics.
func (p *MapPipeline) SetLogger(logger logging.Logger) { p.logger = logger }

// SetClock swaps the pipeline's wall clock, used only for the
// last-ingest-timestamp diagnostic logged on each accepted scan.
func (p *MapPipeline) SetClock(c clock.Clock) { p.clock = c }

// Elevation returns the raw (unsmoothed) elevation grid.
func (p *MapPipeline) Elevation() *ElevationGrid { return p.elev }

// SmoothedElevation returns the conservatively interpolated elevation grid,
// valid as of the last ComputeNewMap call.
func (p *MapPipeline) SmoothedElevation() *ElevationGrid { return p.smooth }

// Traversability returns the classified traversability grid, valid as of
// the last ComputeNewMap call.
func (p *MapPipeline) Traversability() *TraversabilityGrid { return p.trav }

// Ingest absorbs one scan. It returns true if the accumulated motion since
// the last accepted ingest crossed the significance thresholds and the
// caller should now call ComputeNewMap; false if the scan was merged into
// the elevation grid but no downstream recompute is warranted yet.
func (p *MapPipeline) Ingest(scan *LaserScan, bodyToOdo, laserToBody spatialmath.Pose) (bool, error) {
	laserToOdo := spatialmath.Compose(bodyToOdo, laserToBody)

	deltaDist, deltaTheta := 0.0, 0.0
	firstScan := !p.haveLast
	if !firstScan {
		deltaDist = laserToOdo.Point().Sub(p.lastLaserToOdo.Point()).Norm()
		deltaTheta = laserYAxisAngleChange(p.lastLaserToOdo, laserToOdo)
	}

	p.maybeRecenter(bodyToOdo, firstScan, deltaDist)

	survivors := p.filterScan(scan, bodyToOdo, laserToBody)
	p.elev.AddScan(survivors)

	if !firstScan && deltaDist < 0.05 && deltaTheta < 5*math.Pi/180 {
		p.logger.Debugw("ingest accepted, no recompute", "delta_dist", deltaDist, "delta_theta", deltaTheta)
		return false, nil
	}

	now := p.clock.Now()
	if !p.lastIngestAt.IsZero() {
		p.logger.Debugw("ingest accepted, recompute needed", "delta_dist", deltaDist, "delta_theta", deltaTheta, "since_last_ingest", now.Sub(p.lastIngestAt))
	} else {
		p.logger.Debugw("ingest accepted, recompute needed", "delta_dist", deltaDist, "delta_theta", deltaTheta)
	}
	p.lastIngestAt = now

	p.lastBodyToOdo = bodyToOdo
	p.lastLaserToOdo = laserToOdo
	p.haveLast = true
	return true, nil
}

// ComputeNewMap smooths the elevation grid and reclassifies the
// traversability grid from it. Callers invoke this after Ingest reports a
// significant update.
func (p *MapPipeline) ComputeNewMap() {
	p.elev.SmoothInto(p.smooth)
	p.trav.ClassifyFrom(p.smooth)
	p.logger.Debugw("recomputed map", "origin", p.smooth.Origin())
}

// maybeRecenter implements the recenter trigger from Ingest step 3: if the
// robot is near any grid boundary, recenter forward by 2/3 of the current
// displacement; if the robot is wholly outside the grid (first scan),
// recenter directly onto it.
func (p *MapPipeline) maybeRecenter(bodyToOdo spatialmath.Pose, firstScan bool, deltaDist float64) {
	robotPos := bodyToOdo.Point()

	if firstScan {
		if !p.elev.Contains(robotPos) {
			p.logger.Infow("first scan outside grid footprint, recentering onto robot", "pos", robotPos)
			p.recenterBoth(robotPos)
		}
		return
	}

	if p.nearBoundary(robotPos) {
		dir := r3.Vector{}
		if p.haveLast {
			prevPos := p.lastBodyToOdo.Point()
			dir = robotPos.Sub(prevPos)
		}
		target := robotPos.Add(dir.Mul(2.0 / 3.0))
		_ = deltaDist
		p.logger.Infow("recentering grid near boundary", "target", target)
		p.recenterBoth(target)
	}
}

func (p *MapPipeline) recenterBoth(target r3.Vector) {
	p.elev.MoveGrid(target)
	p.smooth.MoveGrid(target)
	p.trav.MoveGrid(target)
}

func (p *MapPipeline) nearBoundary(pos r3.Vector) bool {
	origin := p.elev.Origin()
	res := p.elev.Resolution()
	halfW := float64(p.elev.Width()) / 2 * res
	halfH := float64(p.elev.Height()) / 2 * res
	dx := math.Abs(pos.X - origin.X)
	dy := math.Abs(pos.Y - origin.Y)
	return dx > halfW-p.cfg.BoundarySize || dy > halfH-p.cfg.BoundarySize
}

// laserYAxisAngleChange returns the arccos of the dot product of the old
// and new laser-Y unit vectors: the angular change of the laser's Y axis
// between two poses, per Ingest step 2.
func laserYAxisAngleChange(oldPose, newPose spatialmath.Pose) float64 {
	oldY := rotateUnitY(oldPose)
	newY := rotateUnitY(newPose)
	dot := oldY.Dot(newY)
	dot = math.Max(-1, math.Min(1, dot))
	return math.Acos(dot)
}

// rotateUnitY returns the world-frame unit Y-axis vector of pose's
// orientation, via composition with a point offset along local Y.
func rotateUnitY(pose spatialmath.Pose) r3.Vector {
	orientationOnly := spatialmath.NewPoseFromOrientation(r3.Vector{}, pose.Orientation())
	yOffset := spatialmath.NewPoseFromPoint(r3.Vector{Y: 1})
	rotated := spatialmath.Compose(orientationOnly, yOffset)
	return rotated.Point()
}

// filterScan transforms each beam into the body frame, discards beams
// falling inside any configured wheel-mask box, and transforms survivors
// into the odometry frame.
func (p *MapPipeline) filterScan(scan *LaserScan, bodyToOdo, laserToBody spatialmath.Pose) []r3.Vector {
	survivors := make([]r3.Vector, 0, len(scan.Ranges))
	angle := scan.AngleStart
	for i, rng := range scan.Ranges {
		bearing := angle
		angle += scan.AngleStep
		if !scan.IsValid(i) {
			continue
		}
		laserPt := r3.Vector{X: rng * math.Cos(bearing), Y: rng * math.Sin(bearing)}
		bodyPt := spatialmath.Compose(laserToBody, spatialmath.NewPoseFromPoint(laserPt)).Point()
		if p.inWheelMask(bodyPt) {
			continue
		}
		odoPt := spatialmath.Compose(bodyToOdo, spatialmath.NewPoseFromPoint(bodyPt)).Point()
		survivors = append(survivors, odoPt)
	}
	return survivors
}

func (p *MapPipeline) inWheelMask(bodyPt r3.Vector) bool {
	for _, mask := range p.cfg.WheelMasks {
		if mask.Contains(bodyPt) {
			return true
		}
	}
	return false
}
