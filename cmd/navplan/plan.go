package main

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/groundrover/navplan/kinodrive"
	"github.com/groundrover/navplan/logging"
	"github.com/groundrover/navplan/navoracle"
	"github.com/groundrover/navplan/treeplan"
)

var planCommand = &cli.Command{
	Name:  "plan",
	Usage: "build a traversability map from a scan log, then plan a trajectory to a goal point",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Required: true, Usage: "path to a navplan config YAML"},
		&cli.StringFlag{Name: "scans", Required: true, Usage: "path to a CSV scan log or a .las point cloud"},
		&cli.Float64Flag{Name: "goal-x", Required: true},
		&cli.Float64Flag{Name: "goal-y", Required: true},
		&cli.Float64Flag{Name: "goal-tolerance", Value: 0.5, Usage: "meters; node within this radius of the goal is terminal"},
		&cli.Float64Flag{Name: "max-turn-rate", Value: 1.0, Usage: "radians of heading change per meter the drive model allows"},
		&cli.BoolFlag{Name: "watch", Usage: "re-run whenever --config changes, via fsnotify"},
	},
	Action: runPlan,
}

func runPlan(c *cli.Context) error {
	runID := uuid.New().String()
	logger := logging.NewTestLogger("navplan.plan").With("run_id", runID)

	if !c.Bool("watch") {
		return planOnce(c, logger)
	}
	return planWatch(c, logger)
}

func planOnce(c *cli.Context, logger logging.Logger) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}

	pipeline, lastPose, err := buildMap(cfg.Grid.ToPipelineConfig(), c.String("scans"), logger)
	if err != nil {
		return err
	}

	oracle := &navoracle.Oracle{
		Grid:          pipeline.Traversability(),
		Elev:          pipeline.SmoothedElevation(),
		Goal:          r3.Vector{X: c.Float64("goal-x"), Y: c.Float64("goal-y")},
		GoalTolerance: c.Float64("goal-tolerance"),
		StepDistance:  cfg.Plan.StepDistance,
		Drive:         kinodrive.ArcDrive{MaxTurnRatePerMeter: c.Float64("max-turn-rate")},
	}

	planner := treeplan.NewPlanner(cfg.Plan.ToTreeSearchConf())
	planner.SetLogger(logger)

	result, err := planner.Plan(context.Background(), lastPose, oracle)
	if err != nil {
		return fmt.Errorf("planning: %w", err)
	}

	if result.BudgetExhausted {
		logger.Warnw("plan returned best-so-far: node budget exhausted before reaching goal", "tree_size", result.TreeSize)
	}
	if len(result.Waypoints) == 0 {
		fmt.Println("no feasible trajectory found")
		return nil
	}

	for i, wp := range result.Waypoints {
		fmt.Printf("%d: (%.3f, %.3f, %.3f) heading=%.3f pos_tol=%.3f heading_tol=%.3f\n",
			i, wp.Pose.Point().X, wp.Pose.Point().Y, wp.Pose.Point().Z, wp.Heading, wp.PositionTol, wp.HeadingTol)
	}
	return nil
}

// planWatch re-runs planOnce whenever --config changes on disk, using
// fsnotify to block between re-plans rather than polling.
func planWatch(c *cli.Context, logger logging.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(c.String("config")); err != nil {
		return fmt.Errorf("watching config: %w", err)
	}

	if err := planOnce(c, logger); err != nil {
		logger.Errorw("plan failed", "err", err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Infow("config changed, re-planning", "event", event.String())
			if err := planOnce(c, logger); err != nil {
				logger.Errorw("plan failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Errorw("config watcher error", "err", err)
		case <-c.Context.Done():
			return c.Context.Err()
		}
	}
}
