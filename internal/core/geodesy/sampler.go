// Package geodesy computes polygonal approximations of circles on the WGS-84
// sphere: evenly-spaced boundary sampling via the great-circle destination
// formula, longitude canonicalization, antimeridian crossing detection, and
// partitioning of rings into non-wrapping batches.
//
// Everything in this package is a pure function of its inputs. Configuration
// (point count, sphere radius) is threaded in explicitly rather than read from
// ambient state, so callers can vary accuracy and scale per call.
package geodesy

import (
	"fmt"
	"math"

	"github.com/samirrijal/geoseam/internal/core/domain"
)

// Sample produces the closed boundary ring of a circle on a sphere.
//
// The ring has pointCount+1 entries: point i sits at bearing 360·i/pointCount
// degrees (clockwise from north), and the final bearing 360° ≡ 0° repeats the
// first point, closing the ring. Every longitude is canonicalized to
// [-180, 180) before it is returned.
//
// radiusMeters and earthRadius must share units. Circles whose angular
// distance radius/earthRadius reaches π are rejected: the shape past the
// antipode is undefined.
func Sample(centerLat, centerLon, radiusMeters, earthRadius float64, pointCount int) ([]domain.GeoPoint, error) {
	if pointCount < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPointCount, pointCount)
	}
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("%w: %g m", ErrInvalidRadius, radiusMeters)
	}

	// Angular distance: the radius as an angle at the sphere's center.
	delta := radiusMeters / earthRadius
	if delta >= math.Pi {
		return nil, fmt.Errorf("%w: %g m spans past the antipode", ErrInvalidRadius, radiusMeters)
	}

	phi1 := toRad(centerLat)
	lambda1 := toRad(centerLon)
	sinPhi1, cosPhi1 := math.Sincos(phi1)
	sinDelta, cosDelta := math.Sincos(delta)

	points := make([]domain.GeoPoint, 0, pointCount+1)
	for i := 0; i <= pointCount; i++ {
		bearing := toRad(math.Mod(360*float64(i)/float64(pointCount), 360))
		sinBearing, cosBearing := math.Sincos(bearing)

		sinPhi2 := sinPhi1*cosDelta + cosPhi1*sinDelta*cosBearing
		phi2 := math.Asin(sinPhi2)
		lambda2 := lambda1 + math.Atan2(
			sinBearing*sinDelta*cosPhi1,
			cosDelta-sinPhi1*sinPhi2,
		)

		points = append(points, domain.GeoPoint{
			Lat: toDeg(phi2),
			Lon: NormalizeLon(toDeg(lambda2)),
		})
	}
	return points, nil
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

func toDeg(rad float64) float64 { return rad * 180 / math.Pi }
