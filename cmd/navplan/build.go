package main

import (
	"fmt"
	"strings"

	"go.viam.com/rdk/spatialmath"

	"github.com/groundrover/navplan/gridmap"
	"github.com/groundrover/navplan/logging"
)

// buildMap feeds every scan in scansPath through a freshly constructed
// MapPipeline and returns it with ComputeNewMap already run. LAS files
// (".las"/".laz") go through the bulk point-cloud path; everything else is
// read as the CSV scan-log format.
func buildMap(cfg gridmap.PipelineConfig, scansPath string, logger logging.Logger) (*gridmap.MapPipeline, spatialmath.Pose, error) {
	pipeline := gridmap.NewMapPipeline(cfg)
	pipeline.SetLogger(logger)

	lastPose := spatialmath.NewZeroPose()

	lower := strings.ToLower(scansPath)
	if strings.HasSuffix(lower, ".las") || strings.HasSuffix(lower, ".laz") {
		points, err := readLASPoints(scansPath)
		if err != nil {
			return nil, nil, err
		}
		if len(points) == 0 {
			return nil, nil, fmt.Errorf("LAS file %s contained no points", scansPath)
		}
		if !pipeline.Elevation().Contains(points[0]) {
			pipeline.Elevation().MoveGrid(points[0])
			pipeline.SmoothedElevation().MoveGrid(points[0])
			pipeline.Traversability().MoveGrid(points[0])
		}
		pipeline.Elevation().AddScan(points)
		lastPose = spatialmath.NewPoseFromPoint(points[len(points)-1])
		pipeline.ComputeNewMap()
		return pipeline, lastPose, nil
	}

	records, err := readCSVScans(scansPath)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("scan log %s contained no records", scansPath)
	}

	for _, rec := range records {
		significant, err := pipeline.Ingest(rec.scan, rec.bodyToOdo, spatialmath.NewZeroPose())
		if err != nil {
			return nil, nil, fmt.Errorf("ingest: %w", err)
		}
		if significant {
			pipeline.ComputeNewMap()
		}
		lastPose = rec.bodyToOdo
	}
	pipeline.ComputeNewMap()
	return pipeline, lastPose, nil
}
