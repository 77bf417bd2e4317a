package gridmap

import (
	"encoding/json"
	"testing"

	"go.viam.com/test"
)

func TestDumpMarshalsInfinitiesAsStrings(t *testing.T) {
	cfg := PipelineConfig{Width: 4, Height: 4, Resolution: 1.0, BoundarySize: 0.5, MaxStepSize: 0.2}
	p := NewMapPipeline(cfg)
	p.ComputeNewMap()

	dump := p.Dump()
	raw, err := json.Marshal(dump)
	test.That(t, err, test.ShouldBeNil)

	var decoded map[string]interface{}
	test.That(t, json.Unmarshal(raw, &decoded), test.ShouldBeNil)

	heights, ok := decoded["height"].([]interface{})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, len(heights) > 0, test.ShouldBeTrue)
	test.That(t, heights[0], test.ShouldEqual, "+Inf")
}

func TestDumpDimensionsMatchGrid(t *testing.T) {
	cfg := PipelineConfig{Width: 4, Height: 6, Resolution: 1.0, BoundarySize: 0.5, MaxStepSize: 0.2}
	p := NewMapPipeline(cfg)
	p.Elevation().Entry(1, 1).AddMeasurement(1.5)
	p.ComputeNewMap()

	dump := p.Dump()
	test.That(t, dump.Width, test.ShouldEqual, 4)
	test.That(t, dump.Height, test.ShouldEqual, 6)
	test.That(t, len(dump.HeightValues), test.ShouldEqual, 24)
}
