package geodesy_test

import (
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/geoseam/internal/core/domain"
	"github.com/samirrijal/geoseam/internal/core/geodesy"
)

func TestDetectCrossings_NoneFarFromSeam(t *testing.T) {
	// London, 900 km: nowhere near ±180.
	points := sampleRing(t, 51.5072, -0.1276, 900000)

	crossings, err := geodesy.DetectCrossings(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(crossings) != 0 {
		t.Fatalf("expected 0 crossings, got %d", len(crossings))
	}
}

func TestDetectCrossings_StraddlingRing(t *testing.T) {
	// Chukotka, 450 km: the circle straddles the antimeridian.
	points := sampleRing(t, 67.017, -178.242, 450000)

	crossings, err := geodesy.DetectCrossings(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(crossings) != 2 {
		t.Fatalf("expected 2 crossings, got %d", len(crossings))
	}

	for i, c := range crossings {
		if math.Abs(c.Point.Lon) != 180 {
			t.Errorf("crossing %d seam lon %g, want ±180", i, c.Point.Lon)
		}
		if c.Mirror.Lon != -c.Point.Lon {
			t.Errorf("crossing %d mirror lon %g, want %g", i, c.Mirror.Lon, -c.Point.Lon)
		}
		if c.Mirror.Lat != c.Point.Lat {
			t.Errorf("crossing %d mirror lat %g differs from point lat %g", i, c.Mirror.Lat, c.Point.Lat)
		}
		if c.Index < 1 || c.Index >= len(points) {
			t.Errorf("crossing %d anchor %d out of range", i, c.Index)
		}
	}

	// One pass in each direction, anchors in ring order.
	if crossings[0].Index >= crossings[1].Index {
		t.Errorf("anchors out of order: %d, %d", crossings[0].Index, crossings[1].Index)
	}
	if crossings[0].Eastbound == crossings[1].Eastbound {
		t.Error("expected one eastbound and one westbound crossing")
	}

	// The seam point's longitude sign matches the later point of its pair.
	for i, c := range crossings {
		later := points[c.Index]
		if (later.Lon >= 0) != (c.Point.Lon >= 0) {
			t.Errorf("crossing %d seam lon %g does not match later point lon %g", i, c.Point.Lon, later.Lon)
		}
	}
}

func TestDetectCrossings_AnchoredBetweenPair(t *testing.T) {
	points := sampleRing(t, 67.017, -178.242, 450000)
	crossings, err := geodesy.DetectCrossings(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range crossings {
		prev, cur := points[c.Index-1], points[c.Index]
		if math.Abs(cur.Lon-prev.Lon) <= 180 {
			t.Errorf("anchor %d: pair Δlon %.3f does not cross", c.Index, math.Abs(cur.Lon-prev.Lon))
		}
	}
}

func TestDetectCrossings_Degenerate(t *testing.T) {
	// -180 and +180 name the same meridian; their shifted longitudes
	// coincide, so interpolation has no slope to work with. Such input can
	// only arise from un-normalized data.
	points := []domain.GeoPoint{
		{Lat: 10, Lon: -180},
		{Lat: 11, Lon: 180},
	}
	_, err := geodesy.DetectCrossings(points)
	if !errors.Is(err, geodesy.ErrDegenerateCrossing) {
		t.Errorf("got %v, want ErrDegenerateCrossing", err)
	}
}

func TestAugment_InsertsSeamPointsInOrder(t *testing.T) {
	points := sampleRing(t, 67.017, -178.242, 450000)
	crossings, err := geodesy.DetectCrossings(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	augmented := geodesy.Augment(points, crossings)
	if len(augmented) != len(points)+len(crossings) {
		t.Fatalf("augmented length %d, want %d", len(augmented), len(points)+len(crossings))
	}

	for i := 1; i < len(augmented); i++ {
		if augmented[i].Seq <= augmented[i-1].Seq {
			t.Fatalf("sequence not strictly increasing at %d: %g then %g",
				i, augmented[i-1].Seq, augmented[i].Seq)
		}
	}

	seams := 0
	for _, bp := range augmented {
		if bp.Seq != math.Trunc(bp.Seq) {
			seams++
			if math.Abs(bp.Point.Lon) != 180 {
				t.Errorf("seam entry at seq %g has lon %g", bp.Seq, bp.Point.Lon)
			}
		}
	}
	if seams != 2 {
		t.Errorf("expected 2 seam entries, got %d", seams)
	}
}
