package pbn

import (
	"math"
	"testing"
)

func TestShoelaceSignedSquareIsPositive(t *testing.T) {
	r := Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	if a := shoelaceSigned(r); a <= 0 {
		t.Fatalf("square ring area = %v, want > 0 (outer-ring convention)", a)
	}
}

func TestExtractRegionsSolidBlockProducesOneRegionNoHoles(t *testing.T) {
	w, h := 20, 20
	labels := makeLabelMap(w, h, func(x, y int) int { return 0 })

	regions, err := ExtractRegions(labels, 1)
	if err != nil {
		t.Fatalf("ExtractRegions: %v", err)
	}
	if len(regions) != 1 {
		t.Fatalf("region count = %d, want 1", len(regions))
	}
	r := regions[0]
	if len(r.Holes) != 0 {
		t.Fatalf("hole count = %d, want 0", len(r.Holes))
	}
	if area := math.Abs(shoelaceSigned(r.Outer)); !approxEqual(area, float64(w*h), 1e-6) {
		t.Fatalf("outer area = %v, want %v", area, w*h)
	}
	if r.Outer[0] != r.Outer[len(r.Outer)-1] {
		t.Fatalf("ring is not closed: first %v != last %v", r.Outer[0], r.Outer[len(r.Outer)-1])
	}
}

// TestExtractRegionsSquareWithHole matches spec scenario "a region
// surrounding a hole": an outer label forms a ring around an inner label
// large enough to survive the area filter.
func TestExtractRegionsSquareWithHole(t *testing.T) {
	w, h := 40, 40
	pixels := makeSquarePixels(w, h, 10, [3]byte{0, 0, 255}, [3]byte{255, 0, 0})
	lab := buildLabBuffer(pixels, w, h)

	// Bypass color quantization noise: derive labels directly from the
	// synthetic image's two colors via nearest-centroid against their
	// known Lab values, matching what Quantize would converge to.
	blueL, blueA, blueB := RGBToLab(0, 0, 255)
	redL, redA, redB := RGBToLab(255, 0, 0)
	centroids := []labPoint{{blueL, blueA, blueB}, {redL, redA, redB}}
	labels := newLabelMap(w, h)
	for i := 0; i < w*h; i++ {
		labels.Labels[i] = uint8(nearestCentroid(labAt(lab, i), centroids))
	}

	// traceLabelRegions extracts a single label's regions directly; the
	// exported ExtractRegions instead takes the *total* palette size and
	// loops over every index (see TestExtractRegionsAllLabelsInOneCall),
	// so per-label assertions go through the unexported helper.
	innerRegions := traceLabelRegions(labels, 1) // label 1 is red, the inner square
	if len(innerRegions) != 1 {
		t.Fatalf("inner region count = %d, want 1", len(innerRegions))
	}
	if len(innerRegions[0].Holes) != 0 {
		t.Fatalf("inner region hole count = %d, want 0", len(innerRegions[0].Holes))
	}

	outerRegions := traceLabelRegions(labels, 0) // label 0 is blue, surrounds the hole
	if len(outerRegions) != 1 {
		t.Fatalf("outer region count = %d, want 1", len(outerRegions))
	}
	if len(outerRegions[0].Holes) != 1 {
		t.Fatalf("outer region hole count = %d, want 1", len(outerRegions[0].Holes))
	}

	all, err := ExtractRegions(labels, 2) // ExtractRegions(labels, totalK) covers both labels
	if err != nil {
		t.Fatalf("ExtractRegions: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("combined region count = %d, want 2", len(all))
	}
}

func TestExtractRegionsEmptyLabelProducesNoRegions(t *testing.T) {
	w, h := 10, 10
	labels := makeLabelMap(w, h, func(x, y int) int { return 0 })
	regions := traceLabelRegions(labels, 1) // label 1 never appears
	if len(regions) != 0 {
		t.Fatalf("region count = %d, want 0", len(regions))
	}
}

func TestExtractRegionsFiltersTinyComponents(t *testing.T) {
	w, h := 10, 10
	// A single-pixel speckle has area 1, well under minRegionArea, and
	// should not surface as a region even though Cleanup didn't run.
	labels := makeLabelMap(w, h, func(x, y int) int {
		if x == 5 && y == 5 {
			return 1
		}
		return 0
	})
	regions := traceLabelRegions(labels, 1) // the speckle's own label
	if len(regions) != 0 {
		t.Fatalf("region count = %d, want 0 (filtered by minRegionArea)", len(regions))
	}
}

// TestExtractRegionsAllLabelsInOneCall documents ExtractRegions's real
// contract: the second argument is the total palette size, not a single
// label to select — it loops over every index 0..k-1 and flattens the
// results, the way Process calls it with settings.KColors.
func TestExtractRegionsAllLabelsInOneCall(t *testing.T) {
	w, h := 10, 10
	labels := makeLabelMap(w, h, func(x, y int) int {
		if x < 5 {
			return 0
		}
		return 1
	})
	regions, err := ExtractRegions(labels, 2)
	if err != nil {
		t.Fatalf("ExtractRegions: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("region count = %d, want 2", len(regions))
	}
	seen := map[int]bool{}
	for _, r := range regions {
		seen[r.ColorIndex] = true
	}
	if !seen[0] || !seen[1] {
		t.Fatalf("expected regions tagged with both color indices, got %v", regions)
	}
}

func TestNestRingsAssignsHoleToSmallestEnclosingOuter(t *testing.T) {
	big := Ring{{0, 0}, {20, 0}, {20, 20}, {0, 20}, {0, 0}}
	small := Ring{{5, 5}, {15, 5}, {15, 15}, {5, 15}, {5, 5}}
	hole := Ring{{8, 8}, {9, 8}, {9, 9}, {8, 9}, {8, 8}}

	// Force signs per convention: outers positive, holes negative.
	if shoelaceSigned(big) < 0 {
		t.Fatalf("test fixture: big ring must be positive")
	}
	reversedHole := Ring{hole[0], hole[3], hole[2], hole[1], hole[0]}
	if shoelaceSigned(reversedHole) >= 0 {
		t.Fatalf("test fixture: reversed hole must be negative")
	}

	regions := nestRings([]Ring{big, small, reversedHole})
	if len(regions) != 2 {
		t.Fatalf("region count = %d, want 2", len(regions))
	}
	// The smallest enclosing outer (the "small" ring) should own the hole.
	var smallRegion, bigRegion *Region
	for i := range regions {
		if math.Abs(shoelaceSigned(regions[i].Outer)) < 300 {
			smallRegion = &regions[i]
		} else {
			bigRegion = &regions[i]
		}
	}
	if smallRegion == nil || bigRegion == nil {
		t.Fatalf("expected one small and one big region")
	}
	if len(smallRegion.Holes) != 1 {
		t.Fatalf("small region hole count = %d, want 1", len(smallRegion.Holes))
	}
	if len(bigRegion.Holes) != 0 {
		t.Fatalf("big region hole count = %d, want 0", len(bigRegion.Holes))
	}
}
