package geodesy_test

import (
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/geoseam/internal/core/domain"
	"github.com/samirrijal/geoseam/internal/core/geodesy"
	"github.com/samirrijal/geoseam/internal/pkg/geospatial"
)

const (
	earthRadius = 6371009.0
	pointCount  = 120
)

func sampleRing(t *testing.T, lat, lon, radius float64) []domain.GeoPoint {
	t.Helper()
	points, err := geodesy.Sample(lat, lon, radius, earthRadius, pointCount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return points
}

func TestSample_RingIsClosed(t *testing.T) {
	points := sampleRing(t, 51.5072, -0.1276, 900000)

	if len(points) != pointCount+1 {
		t.Fatalf("expected %d points, got %d", pointCount+1, len(points))
	}

	first, last := points[0], points[len(points)-1]
	if math.Abs(first.Lat-last.Lat) > 1e-9 || math.Abs(first.Lon-last.Lon) > 1e-9 {
		t.Errorf("ring not closed: first %+v last %+v", first, last)
	}
}

func TestSample_PointsAreRadiusFromCenter(t *testing.T) {
	const radius = 450000.0
	points := sampleRing(t, 43.263, -2.935, radius)

	for i, p := range points {
		d := geospatial.Haversine(43.263, -2.935, p.Lat, p.Lon)
		// Haversine uses its own earth radius constant; allow 0.5% slack.
		if math.Abs(d-radius)/radius > 0.005 {
			t.Fatalf("point %d is %.0f m from center, want ~%.0f", i, d, radius)
		}
	}
}

func TestSample_BearingSymmetry(t *testing.T) {
	center := domain.GeoPoint{Lat: 43.263, Lon: -2.935}
	points := sampleRing(t, center.Lat, center.Lon, 50000)

	north := points[0]
	south := points[pointCount/2]

	if math.Abs(north.Lon-center.Lon) > 1e-6 {
		t.Errorf("north point lon %.8f, want center lon %.8f", north.Lon, center.Lon)
	}
	if math.Abs(south.Lon-center.Lon) > 1e-6 {
		t.Errorf("south point lon %.8f, want center lon %.8f", south.Lon, center.Lon)
	}

	angularDeg := 50000 / earthRadius * 180 / math.Pi
	if math.Abs((north.Lat-center.Lat)-angularDeg) > 1e-3 {
		t.Errorf("north point lat offset %.6f, want ~%.6f", north.Lat-center.Lat, angularDeg)
	}
	if math.Abs((center.Lat-south.Lat)-angularDeg) > 1e-3 {
		t.Errorf("south point lat offset %.6f, want ~%.6f", center.Lat-south.Lat, angularDeg)
	}
}

func TestSample_DueSouthKeepsLongitude(t *testing.T) {
	// A 5000 km circle: large enough that small-angle shortcuts would show,
	// but due-south travel still must not change longitude for a non-polar
	// center.
	center := domain.GeoPoint{Lat: 28.3636, Lon: 77.1348}
	points := sampleRing(t, center.Lat, center.Lon, 5000000)

	south := points[60]
	if south.Lat >= center.Lat {
		t.Errorf("southbound point lat %.6f not south of center %.6f", south.Lat, center.Lat)
	}
	if math.Abs(south.Lon-center.Lon) > 1e-6 {
		t.Errorf("southbound point lon %.8f drifted from center %.8f", south.Lon, center.Lon)
	}
}

func TestSample_Validation(t *testing.T) {
	tests := []struct {
		name       string
		radius     float64
		pointCount int
		wantErr    error
	}{
		{"zero radius", 0, 120, geodesy.ErrInvalidRadius},
		{"negative radius", -5, 120, geodesy.ErrInvalidRadius},
		{"past antipode", earthRadius * math.Pi, 120, geodesy.ErrInvalidRadius},
		{"two points", 1000, 2, geodesy.ErrInvalidPointCount},
		{"zero points", 1000, 0, geodesy.ErrInvalidPointCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geodesy.Sample(10, 20, tt.radius, earthRadius, tt.pointCount)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSample_AcceptsAnyCountFromThree(t *testing.T) {
	for _, n := range []int{3, 4, 7, 360} {
		points, err := geodesy.Sample(51.5072, -0.1276, 1000, earthRadius, n)
		if err != nil {
			t.Fatalf("pointCount %d: %v", n, err)
		}
		if len(points) != n+1 {
			t.Errorf("pointCount %d: got %d points", n, len(points))
		}
	}
}

func TestSamplePlanar_Closure(t *testing.T) {
	points, err := geodesy.SamplePlanar(100, 200, 50, 120, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 121 {
		t.Fatalf("expected 121 points, got %d", len(points))
	}
	first, last := points[0], points[len(points)-1]
	if math.Abs(first.Lat-last.Lat) > 1e-9 || math.Abs(first.Lon-last.Lon) > 1e-9 {
		t.Errorf("planar ring not closed: first %+v last %+v", first, last)
	}
	// Point 0 sits due north of the rescaled center.
	if math.Abs(first.Lon-100.0/10) > 1e-9 || math.Abs(first.Lat-(200.0+50)/10) > 1e-9 {
		t.Errorf("unexpected first point %+v", first)
	}
}
