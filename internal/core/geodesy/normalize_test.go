package geodesy_test

import (
	"math"
	"testing"

	"github.com/samirrijal/geoseam/internal/core/geodesy"
)

func TestNormalizeLon(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{179.5, 179.5},
		{180, -180},
		{-180, -180},
		{181, -179},
		{-181, 179},
		{360, 0},
		{-360, 0},
		{540, -180},
		{-540, -180},
		{723.4, 3.4},
		{-77.5, -77.5},
	}

	for _, tt := range tests {
		if got := geodesy.NormalizeLon(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeLon(%g) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLon_Range(t *testing.T) {
	for lon := -1000.0; lon <= 1000.0; lon += 7.3 {
		got := geodesy.NormalizeLon(lon)
		if got < -180 || got >= 180 {
			t.Fatalf("NormalizeLon(%g) = %g, outside [-180, 180)", lon, got)
		}
	}
}

func TestNormalizeLon_Idempotent(t *testing.T) {
	for lon := -900.0; lon <= 900.0; lon += 11.1 {
		once := geodesy.NormalizeLon(lon)
		twice := geodesy.NormalizeLon(once)
		if math.Abs(once-twice) > 1e-12 {
			t.Fatalf("not idempotent at %g: %g vs %g", lon, once, twice)
		}
	}
}
