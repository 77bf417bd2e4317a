// Package planconfig holds the typed, validated configuration for a
// navplan session: the traversability-map pipeline's grid parameters and
// the kinodynamic planner's search parameters. Raw configuration arrives
// as a map[string]interface{} (as read from YAML/JSON/etc. by the
// embedding CLI) and is decoded with github.com/go-viper/mapstructure/v2
// into a typed Config whose grid, plan, and wheel-mask parts each carry a
// Validate(path string) error method that prefixes field-level errors with
// the caller-supplied path.
package planconfig

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"

	"github.com/groundrover/navplan/gridmap"
	"github.com/groundrover/navplan/treeplan"
)

func mkVector(x, y float64) r3.Vector { return r3.Vector{X: x, Y: y} }

// WheelMaskConfig is the decodable form of a gridmap.WheelMask.
type WheelMaskConfig struct {
	CenterX    float64 `mapstructure:"center_x"`
	CenterY    float64 `mapstructure:"center_y"`
	HalfWidth  float64 `mapstructure:"half_width"`
	HalfLength float64 `mapstructure:"half_length"`
}

// Validate checks that the mask has positive extents.
func (w WheelMaskConfig) Validate(path string) error {
	if w.HalfWidth <= 0 {
		return fmt.Errorf("%s.half_width: must be positive", path)
	}
	if w.HalfLength <= 0 {
		return fmt.Errorf("%s.half_length: must be positive", path)
	}
	return nil
}

// ToWheelMask converts the decoded config into a gridmap.WheelMask.
func (w WheelMaskConfig) ToWheelMask() gridmap.WheelMask {
	return gridmap.WheelMask{
		Center:     mkVector(w.CenterX, w.CenterY),
		HalfWidth:  w.HalfWidth,
		HalfLength: w.HalfLength,
	}
}

// GridConfig is the decodable form of gridmap.PipelineConfig.
type GridConfig struct {
	Width        int               `mapstructure:"width"`
	Height       int               `mapstructure:"height"`
	Resolution   float64           `mapstructure:"resolution"`
	BoundarySize float64           `mapstructure:"boundary_size"`
	MaxStepSize  float64           `mapstructure:"max_step_size"`
	WheelMasks   []WheelMaskConfig `mapstructure:"wheel_masks"`
}

// Validate checks GridConfig's fields for the obvious non-sensical cases:
// non-positive grid dimensions or resolution, and a boundary trigger that
// would never fit inside the grid at all.
func (g GridConfig) Validate(path string) error {
	if g.Width <= 0 {
		return fmt.Errorf("%s.width: must be positive, got %d", path, g.Width)
	}
	if g.Height <= 0 {
		return fmt.Errorf("%s.height: must be positive, got %d", path, g.Height)
	}
	if g.Resolution <= 0 {
		return fmt.Errorf("%s.resolution: must be positive, got %g", path, g.Resolution)
	}
	if g.MaxStepSize <= 0 {
		return fmt.Errorf("%s.max_step_size: must be positive, got %g", path, g.MaxStepSize)
	}
	if g.BoundarySize <= 0 || g.BoundarySize >= float64(g.Width)/2*g.Resolution {
		return fmt.Errorf("%s.boundary_size: must be positive and less than half the grid width", path)
	}
	for i, m := range g.WheelMasks {
		if err := m.Validate(fmt.Sprintf("%s.wheel_masks.%d", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// ToPipelineConfig converts the decoded config into a
// gridmap.PipelineConfig, assuming g has already passed Validate.
func (g GridConfig) ToPipelineConfig() gridmap.PipelineConfig {
	masks := make([]gridmap.WheelMask, len(g.WheelMasks))
	for i, m := range g.WheelMasks {
		masks[i] = m.ToWheelMask()
	}
	return gridmap.PipelineConfig{
		Width:        g.Width,
		Height:       g.Height,
		Resolution:   g.Resolution,
		BoundarySize: g.BoundarySize,
		MaxStepSize:  g.MaxStepSize,
		WheelMasks:   masks,
	}
}

// PlanConfig is the decodable form of treeplan.TreeSearchConf.
type PlanConfig struct {
	MaxTreeSize            int     `mapstructure:"max_tree_size"`
	StepDistance           float64 `mapstructure:"step_distance"`
	AngularSampling        int     `mapstructure:"angular_sampling"`
	DiscountFactor         float64 `mapstructure:"discount_factor"`
	ObstacleSafetyDistance float64 `mapstructure:"obstacle_safety_distance"`
	RobotWidth             float64 `mapstructure:"robot_width"`
	PositionTolerance      float64 `mapstructure:"position_tolerance"`
	HeadingTolerance       float64 `mapstructure:"heading_tolerance"`
}

// Validate checks PlanConfig's fields: MaxTreeSize, StepDistance,
// ObstacleSafetyDistance, and RobotWidth must be strictly positive,
// AngularSampling at least 2, and DiscountFactor in (0,1].
// PositionTolerance and HeadingTolerance are not checked.
func (p PlanConfig) Validate(path string) error {
	if p.MaxTreeSize <= 0 {
		return fmt.Errorf("%s.max_tree_size: must be positive, got %d", path, p.MaxTreeSize)
	}
	if p.StepDistance <= 0 {
		return fmt.Errorf("%s.step_distance: must be positive, got %g", path, p.StepDistance)
	}
	if p.AngularSampling < 2 {
		return fmt.Errorf("%s.angular_sampling: must be at least 2 (both interval endpoints), got %d", path, p.AngularSampling)
	}
	if p.DiscountFactor <= 0 || p.DiscountFactor > 1 {
		return fmt.Errorf("%s.discount_factor: must be in (0, 1], got %g", path, p.DiscountFactor)
	}
	if p.ObstacleSafetyDistance <= 0 {
		return fmt.Errorf("%s.obstacle_safety_distance: must be positive, got %g", path, p.ObstacleSafetyDistance)
	}
	if p.RobotWidth <= 0 {
		return fmt.Errorf("%s.robot_width: must be positive, got %g", path, p.RobotWidth)
	}
	return nil
}

// ToTreeSearchConf converts the decoded config into a
// treeplan.TreeSearchConf, assuming p has already passed Validate.
func (p PlanConfig) ToTreeSearchConf() treeplan.TreeSearchConf {
	return treeplan.TreeSearchConf{
		MaxTreeSize:            p.MaxTreeSize,
		StepDistance:           p.StepDistance,
		AngularSampling:        p.AngularSampling,
		DiscountFactor:         p.DiscountFactor,
		ObstacleSafetyDistance: p.ObstacleSafetyDistance,
		RobotWidth:             p.RobotWidth,
		PositionTolerance:      p.PositionTolerance,
		HeadingTolerance:       p.HeadingTolerance,
	}
}

// Config is the top-level decodable configuration for a navplan session.
type Config struct {
	Grid GridConfig `mapstructure:"grid"`
	Plan PlanConfig `mapstructure:"plan"`
}

// Validate validates both sub-configs, prefixing errors with "grid" or
// "plan" respectively.
func (c Config) Validate() error {
	if err := c.Grid.Validate("grid"); err != nil {
		return err
	}
	if err := c.Plan.Validate("plan"); err != nil {
		return err
	}
	return nil
}

// Decode decodes raw (as produced by a YAML/JSON unmarshal into
// map[string]interface{}) into a Config and validates it.
func Decode(raw map[string]interface{}) (Config, error) {
	var cfg Config
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("planconfig: decode failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
