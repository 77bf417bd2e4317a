package treeplan

import "math"

// angularStep sizes the number of interior heading samples within a
// direction interval, independent of the caller-supplied AngularSampling
// cap. Five degrees keeps interior sampling dense enough to matter for
// typical robot_width/step_distance combinations without blowing up
// branching factor at the cap.
const angularStep = 5 * math.Pi / 180

// sampleHeadings expands interval into a de-duplicated slice of headings:
// both endpoints (Lo, then Hi), followed by up to angularSampling-2
// uniformly spaced interior samples in ascending order (capped further by
// span/angularStep). A zero-width interval yields exactly one sample.
func sampleHeadings(interval AngleInterval, angularSampling int) []float64 {
	a, b := interval.Lo, interval.Hi
	if a == b {
		return []float64{a}
	}

	span := b - a
	maxInterior := angularSampling - 2
	if maxInterior < 0 {
		maxInterior = 0
	}
	byStep := int(math.Floor(span / angularStep))
	interior := maxInterior
	if byStep < interior {
		interior = byStep
	}
	if interior < 0 {
		interior = 0
	}

	seen := make(map[float64]struct{}, interior+2)
	var out []float64
	add := func(h float64) {
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}

	add(a)
	add(b)
	for i := 1; i <= interior; i++ {
		frac := float64(i) / float64(interior+1)
		add(a + frac*span)
	}
	return out
}

// sampleAllHeadings applies sampleHeadings to every interval and
// concatenates the results, de-duplicating across intervals as well.
func sampleAllHeadings(intervals []AngleInterval, angularSampling int) []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	for _, iv := range intervals {
		for _, h := range sampleHeadings(iv, angularSampling) {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	return out
}
