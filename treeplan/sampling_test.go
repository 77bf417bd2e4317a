package treeplan

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestSampleHeadingsZeroWidthIntervalYieldsOneSample(t *testing.T) {
	got := sampleHeadings(AngleInterval{Lo: 0.5, Hi: 0.5}, 5)
	test.That(t, len(got), test.ShouldEqual, 1)
	test.That(t, got[0], test.ShouldEqual, 0.5)
}

func TestSampleHeadingsIncludesBothEndpoints(t *testing.T) {
	got := sampleHeadings(AngleInterval{Lo: 0, Hi: math.Pi / 2}, 2)
	test.That(t, len(got), test.ShouldEqual, 2)
	test.That(t, got[0], test.ShouldEqual, 0.0)
	test.That(t, got[1], test.ShouldEqual, math.Pi/2)
}

func TestSampleHeadingsCapsInteriorCount(t *testing.T) {
	got := sampleHeadings(AngleInterval{Lo: 0, Hi: math.Pi}, 4)
	// angular_sampling=4 allows at most 2 interior samples; with a π-wide
	// span and a 5° step, span/step far exceeds 2, so the cap binds.
	test.That(t, len(got), test.ShouldEqual, 4)
}

func TestSampleAllHeadingsDeduplicatesAcrossIntervals(t *testing.T) {
	got := sampleAllHeadings([]AngleInterval{{Lo: 0, Hi: 1}, {Lo: 1, Hi: 2}}, 2)
	seen := map[float64]int{}
	for _, h := range got {
		seen[h]++
	}
	test.That(t, seen[1.0], test.ShouldEqual, 1)
}
