package geodesy

import "math"

// NormalizeLon maps any longitude in degrees into the canonical [-180, 180)
// range.
//
// math.Mod keeps the sign of the dividend, so a single mod of a negative
// longitude comes out negative and would leave the result off by 360. The
// second mod corrects for that.
func NormalizeLon(lon float64) float64 {
	m := math.Mod(lon+180, 360)
	m = math.Mod(m+360, 360)
	return m - 180
}

// shift360 maps a longitude into [0, 360), removing the discontinuity at
// ±180 so a straight line can be interpolated across the seam.
func shift360(lon float64) float64 {
	return math.Mod(lon+360, 360)
}
