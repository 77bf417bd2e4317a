package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"

	"go.viam.com/rdk/spatialmath"

	"github.com/groundrover/navplan/gridmap"
)

// scanRecord is one CSV row: the body pose at acquisition time, plus the
// laser scan taken from that pose.
type scanRecord struct {
	bodyToOdo spatialmath.Pose
	scan      *gridmap.LaserScan
}

// readCSVScans reads a comma-separated scan log (whitespace around each
// field is ignored): one record per line,
// `body_x,body_y,body_theta_deg,angle_start_deg,angle_step_deg,r0,r1,...,rN`.
// Blank lines and lines starting with '#' are skipped.
func readCSVScans(path string) ([]scanRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scan log: %w", err)
	}
	defer f.Close()

	var records []scanRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseCSVLine(line)
		if err != nil {
			return nil, fmt.Errorf("scan log line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading scan log: %w", err)
	}
	return records, nil
}

func parseCSVLine(line string) (scanRecord, error) {
	fields := strings.Split(line, ",")
	const headerFields = 5
	if len(fields) < headerFields+1 {
		return scanRecord{}, fmt.Errorf("expected at least %d fields, got %d", headerFields+1, len(fields))
	}

	nums := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return scanRecord{}, fmt.Errorf("field %d (%q): %w", i, s, err)
		}
		nums[i] = v
	}

	bodyX, bodyY, bodyThetaDeg := nums[0], nums[1], nums[2]
	angleStartDeg, angleStepDeg := nums[3], nums[4]
	ranges := nums[headerFields:]

	bodyPose := spatialmath.NewPose(
		r3.Vector{X: bodyX, Y: bodyY},
		&spatialmath.OrientationVectorDegrees{OZ: 1, Theta: bodyThetaDeg},
	)

	return scanRecord{
		bodyToOdo: bodyPose,
		scan: &gridmap.LaserScan{
			Ranges:     ranges,
			AngleStart: angleStartDeg * math.Pi / 180,
			AngleStep:  angleStepDeg * math.Pi / 180,
		},
	}, nil
}

// readLASPoints reads a LAS point cloud and returns its points verbatim in
// the frame the file was recorded in (treated as the odometry frame by
// this CLI). Unlike readCSVScans, this path skips MapPipeline's per-beam
// ingest entirely and feeds a bulk static scan directly into the
// elevation grid: it models importing a previously-surveyed point cloud
// rather than a live streaming scan.
func readLASPoints(path string) ([]r3.Vector, error) {
	lf, err := lidario.NewLasFile(path, "r")
	if err != nil {
		return nil, fmt.Errorf("opening LAS file: %w", err)
	}
	defer lf.Close()

	n := lf.Header.NumberPoints
	points := make([]r3.Vector, 0, n)
	for i := 0; i < n; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, fmt.Errorf("LAS point %d: %w", i, err)
		}
		pointData := p.PointData()
		points = append(points, r3.Vector{X: pointData.X, Y: pointData.Y, Z: pointData.Z})
	}
	return points, nil
}
