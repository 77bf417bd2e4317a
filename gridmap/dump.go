package gridmap

import (
	"encoding/json"
	"math"
)

// GridDump is a read-only, row-major snapshot of a MapPipeline's grids,
// suitable for serialization to a downstream map consumer.
type GridDump struct {
	Width, Height int
	OriginX       float64
	OriginY       float64
	OriginZ       float64

	// HeightValues holds each cell's median (measured or interpolated), or
	// +Inf when the cell has neither a measurement nor an interpolated
	// value.
	HeightValues []float64
	// MaxValues holds each cell's maximum observed height, or -Inf.
	MaxValues []float64
	// Interpolated flags whether HeightValues came from interpolation.
	Interpolated []bool
	// Traversability holds each cell's classification.
	Traversability []Classification
}

// Dump snapshots p's smoothed elevation and traversability grids into a
// GridDump.
func (p *MapPipeline) Dump() GridDump {
	w, h := p.smooth.Width(), p.smooth.Height()
	origin := p.smooth.Origin()
	dump := GridDump{
		Width:           w,
		Height:          h,
		OriginX:         origin.X,
		OriginY:         origin.Y,
		OriginZ:         origin.Z,
		HeightValues:    make([]float64, w*h),
		MaxValues:       make([]float64, w*h),
		Interpolated:    make([]bool, w*h),
		Traversability:  make([]Classification, w*h),
	}

	p.smooth.ForEach(func(x, y int, cell *ElevationCell) {
		idx := y*w + x
		count, _, maximum, median, interpolated := cell.Summary()
		if count == 0 && !interpolated {
			dump.HeightValues[idx] = math.Inf(1)
		} else {
			dump.HeightValues[idx] = median
		}
		dump.MaxValues[idx] = maximum
		dump.Interpolated[idx] = interpolated
	})
	p.trav.ForEach(func(x, y int, cls *Classification) {
		dump.Traversability[y*w+x] = *cls
	})
	return dump
}

// gridDumpJSON is the wire shape for GridDump's JSON encoding: infinities
// are not valid JSON numbers, so they are rendered as sentinel strings.
type gridDumpJSON struct {
	Width, Height  int
	OriginX        float64
	OriginY        float64
	OriginZ        float64
	HeightValues   []string `json:"height"`
	MaxValues      []string `json:"max"`
	Interpolated   []bool   `json:"interpolated"`
	Traversability []string `json:"traversability"`
}

// MarshalJSON renders the dump with +Inf/-Inf sentinels as strings, since
// encoding/json cannot represent IEEE infinities.
func (d GridDump) MarshalJSON() ([]byte, error) {
	out := gridDumpJSON{
		Width:          d.Width,
		Height:         d.Height,
		OriginX:        d.OriginX,
		OriginY:        d.OriginY,
		OriginZ:        d.OriginZ,
		HeightValues:   make([]string, len(d.HeightValues)),
		MaxValues:      make([]string, len(d.MaxValues)),
		Interpolated:   d.Interpolated,
		Traversability: make([]string, len(d.Traversability)),
	}
	for i, hv := range d.HeightValues {
		out.HeightValues[i] = floatToJSON(hv)
	}
	for i, m := range d.MaxValues {
		out.MaxValues[i] = floatToJSON(m)
	}
	for i, c := range d.Traversability {
		out.Traversability[i] = c.String()
	}
	return json.Marshal(out)
}

func floatToJSON(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	default:
		b, _ := json.Marshal(f)
		return string(b)
	}
}
