package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/groundrover/navplan/logging"
)

var ingestCommand = &cli.Command{
	Name:  "ingest",
	Usage: "feed a scan log or LAS point cloud through the traversability map pipeline and dump the result",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Required: true, Usage: "path to a navplan config YAML"},
		&cli.StringFlag{Name: "scans", Required: true, Usage: "path to a CSV scan log or a .las point cloud"},
		&cli.StringFlag{Name: "out", Usage: "write the resulting GridDump as JSON to this file (default: stdout)"},
	},
	Action: runIngest,
}

func runIngest(c *cli.Context) error {
	runID := uuid.New().String()
	logger := logging.NewTestLogger("navplan.ingest").With("run_id", runID)

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}

	pipeline, _, err := buildMap(cfg.Grid.ToPipelineConfig(), c.String("scans"), logger)
	if err != nil {
		return err
	}

	dump := pipeline.Dump()
	raw, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling dump: %w", err)
	}

	out := c.String("out")
	if out == "" {
		_, err := os.Stdout.Write(append(raw, '\n'))
		return err
	}
	return os.WriteFile(out, raw, 0o644)
}
