package geodesy_test

import (
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/geoseam/internal/core/geodesy"
)

func TestSamplePlanar_RingIsClosed(t *testing.T) {
	points, err := geodesy.SamplePlanar(5, 5, 2, 36, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(points) != 37 {
		t.Fatalf("expected 37 points, got %d", len(points))
	}

	first, last := points[0], points[len(points)-1]
	if math.Abs(first.Lat-last.Lat) > 1e-9 || math.Abs(first.Lon-last.Lon) > 1e-9 {
		t.Errorf("ring not closed: first %+v last %+v", first, last)
	}
}

func TestSamplePlanar_PointsAreRadiusFromCenter(t *testing.T) {
	const (
		cx, cy  = 12.0, -7.0
		radius  = 3.0
		rescale = 10.0
	)
	points, err := geodesy.SamplePlanar(cx, cy, radius, 24, rescale)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, p := range points {
		dx := p.Lon*rescale - cx
		dy := p.Lat*rescale - cy
		d := math.Hypot(dx, dy)
		if math.Abs(d-radius) > 1e-9 {
			t.Fatalf("point %d is %g from center, want %g", i, d, radius)
		}
	}
}

func TestSamplePlanar_FirstPointIsNorth(t *testing.T) {
	points, err := geodesy.SamplePlanar(0, 0, 4, 12, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(points[0].Lon) > 1e-9 || math.Abs(points[0].Lat-4) > 1e-9 {
		t.Errorf("expected first point at (lat 4, lon 0), got %+v", points[0])
	}
	// A quarter of the way around the ring sits due east.
	east := points[3]
	if math.Abs(east.Lon-4) > 1e-9 || math.Abs(east.Lat) > 1e-9 {
		t.Errorf("expected east point at (lat 0, lon 4), got %+v", east)
	}
}

func TestSamplePlanar_ScaleInvariance(t *testing.T) {
	small, err := geodesy.SamplePlanar(1, 2, 0.5, 16, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	big, err := geodesy.SamplePlanar(1000, 2000, 500, 16, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range small {
		if math.Abs(small[i].Lat-big[i].Lat) > 1e-9 || math.Abs(small[i].Lon-big[i].Lon) > 1e-9 {
			t.Fatalf("point %d differs after rescale: %+v vs %+v", i, small[i], big[i])
		}
	}
}

func TestSamplePlanar_Validation(t *testing.T) {
	cases := []struct {
		name    string
		radius  float64
		points  int
		rescale float64
		want    error
	}{
		{"too few points", 1, 2, 1, geodesy.ErrInvalidPointCount},
		{"zero radius", 0, 12, 1, geodesy.ErrInvalidRadius},
		{"negative radius", -3, 12, 1, geodesy.ErrInvalidRadius},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := geodesy.SamplePlanar(0, 0, tc.radius, tc.points, tc.rescale)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := geodesy.SamplePlanar(0, 0, 1, 12, 0); err == nil {
		t.Error("expected error for zero rescale divisor")
	}
}
