package geodesy

import "errors"

// Sentinel validation errors. All are input-validation failures surfaced
// immediately to the caller.
var (
	// ErrInvalidRadius is returned when radius ≤ 0 or the angular distance
	// radius/earthRadius reaches π (the circle would wrap past the antipode).
	ErrInvalidRadius = errors.New("geodesy: invalid radius")

	// ErrInvalidPointCount is returned for rings with fewer than 3 points.
	ErrInvalidPointCount = errors.New("geodesy: point count must be at least 3")

	// ErrDegenerateCrossing is returned when a flagged crossing pair has a
	// zero longitude delta in shifted space, which would divide by zero in
	// the seam interpolation.
	ErrDegenerateCrossing = errors.New("geodesy: degenerate antimeridian crossing")
)
