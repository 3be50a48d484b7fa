package geodesy_test

import (
	"math"
	"testing"

	"github.com/samirrijal/geoseam/internal/core/domain"
	"github.com/samirrijal/geoseam/internal/core/geodesy"
)

func segment(t *testing.T, lat, lon, radius float64) (domain.RingGeometry, []domain.GeoPoint) {
	t.Helper()
	points := sampleRing(t, lat, lon, radius)
	crossings, err := geodesy.DetectCrossings(points)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	ring, err := geodesy.SegmentRing(points, crossings)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	return ring, points
}

func assertNonWrapping(t *testing.T, ring domain.RingGeometry) {
	t.Helper()
	for bi, batch := range ring.AllBatches() {
		for i := 1; i < len(batch); i++ {
			if d := math.Abs(batch[i].Lon - batch[i-1].Lon); d > 180 {
				t.Fatalf("batch %d wraps at %d: Δlon %.3f", bi, i, d)
			}
		}
	}
}

func TestSegmentRing_SingleBatchFarFromSeam(t *testing.T) {
	ring, points := segment(t, 51.5072, -0.1276, 900000)

	if ring.Kind != domain.RingSingle {
		t.Fatalf("expected single-batch ring")
	}
	if len(ring.Single) != 121 {
		t.Fatalf("expected 121 points in single batch, got %d", len(ring.Single))
	}
	for i := range points {
		if ring.Single[i] != points[i] {
			t.Fatalf("point %d reordered", i)
		}
	}
	assertNonWrapping(t, ring)
}

func TestSegmentRing_FourBatchesAcrossSeam(t *testing.T) {
	ring, points := segment(t, 67.017, -178.242, 450000)

	if ring.Kind != domain.RingMulti {
		t.Fatalf("expected multi-batch ring")
	}
	for i, b := range ring.Batches {
		if len(b) == 0 {
			t.Fatalf("batch %d is empty", i)
		}
	}
	assertNonWrapping(t, ring)

	// Each crossing contributes its seam coordinate once per adjacent side:
	// 121 ring points + 4 seam entries across the four batches.
	if got := ring.PointTotal(); got != len(points)+4 {
		t.Fatalf("total points %d, want %d", got, len(points)+4)
	}

	// Concatenating batches 0..3 and dropping seam entries reconstructs the
	// original ring in order.
	var rebuilt []domain.GeoPoint
	for _, batch := range ring.Batches {
		for _, p := range batch {
			if math.Abs(p.Lon) == 180 {
				continue
			}
			rebuilt = append(rebuilt, p)
		}
	}
	if len(rebuilt) != len(points) {
		t.Fatalf("rebuilt ring has %d points, want %d", len(rebuilt), len(points))
	}
	for i := range points {
		if rebuilt[i] != points[i] {
			t.Fatalf("rebuilt ring differs at %d: %+v vs %+v", i, rebuilt[i], points[i])
		}
	}

	// Batch boundaries carry the seam: batch 0 ends on it, batch 1 starts
	// on it, batch 2 ends on it, batch 3 starts on it.
	if lon := ring.Batches[0][len(ring.Batches[0])-1].Lon; math.Abs(lon) != 180 {
		t.Errorf("batch 0 ends at lon %g, want ±180", lon)
	}
	if lon := ring.Batches[1][0].Lon; math.Abs(lon) != 180 {
		t.Errorf("batch 1 starts at lon %g, want ±180", lon)
	}
	if lon := ring.Batches[2][len(ring.Batches[2])-1].Lon; math.Abs(lon) != 180 {
		t.Errorf("batch 2 ends at lon %g, want ±180", lon)
	}
	if lon := ring.Batches[3][0].Lon; math.Abs(lon) != 180 {
		t.Errorf("batch 3 starts at lon %g, want ±180", lon)
	}
}

func TestSegmentRing_RejectsMoreThanTwoCrossings(t *testing.T) {
	points := sampleRing(t, 67.017, -178.242, 450000)
	crossings := []domain.Crossing{
		{Index: 10, Point: domain.GeoPoint{Lat: 60, Lon: 180}, Mirror: domain.GeoPoint{Lat: 60, Lon: -180}},
		{Index: 40, Point: domain.GeoPoint{Lat: 61, Lon: -180}, Mirror: domain.GeoPoint{Lat: 61, Lon: 180}},
		{Index: 80, Point: domain.GeoPoint{Lat: 62, Lon: 180}, Mirror: domain.GeoPoint{Lat: 62, Lon: -180}},
	}
	if _, err := geodesy.SegmentRing(points, crossings); err == nil {
		t.Error("expected error for 3 crossings")
	}
}

func TestSegmentRing_UnorderedAnchors(t *testing.T) {
	// Segmentation sorts by anchor index, so swapped crossings must yield
	// the same partition.
	points := sampleRing(t, 67.017, -178.242, 450000)
	crossings, err := geodesy.DetectCrossings(points)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	ordered, err := geodesy.SegmentRing(points, crossings)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	swapped, err := geodesy.SegmentRing(points, []domain.Crossing{crossings[1], crossings[0]})
	if err != nil {
		t.Fatalf("segment swapped: %v", err)
	}

	for i := range ordered.Batches {
		if len(ordered.Batches[i]) != len(swapped.Batches[i]) {
			t.Fatalf("batch %d length differs: %d vs %d",
				i, len(ordered.Batches[i]), len(swapped.Batches[i]))
		}
	}
}
