package geodesy

import (
	"fmt"
	"math"

	"github.com/samirrijal/geoseam/internal/core/domain"
)

// SamplePlanar produces the closed boundary ring of a circle on a flat
// Euclidean plane. Center and radius are in arbitrary consistent units; the
// rescale divisor shrinks the result so it stays inside the usable coordinate
// range of the downstream geometry constructors, which are shared with the
// spherical pipeline.
//
// X maps to longitude and Y to latitude. Bearings run clockwise from the
// positive Y axis, matching the spherical sampler, so point 0 sits due
// "north" of the center.
func SamplePlanar(centerX, centerY, radius float64, pointCount int, rescale float64) ([]domain.GeoPoint, error) {
	if pointCount < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPointCount, pointCount)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidRadius, radius)
	}
	if rescale <= 0 {
		return nil, fmt.Errorf("geodesy: rescale divisor must be positive, got %g", rescale)
	}

	points := make([]domain.GeoPoint, 0, pointCount+1)
	for i := 0; i <= pointCount; i++ {
		bearing := toRad(math.Mod(360*float64(i)/float64(pointCount), 360))
		sinBearing, cosBearing := math.Sincos(bearing)
		points = append(points, domain.GeoPoint{
			Lat: (centerY + radius*cosBearing) / rescale,
			Lon: (centerX + radius*sinBearing) / rescale,
		})
	}
	return points, nil
}
