// Package geojson assembles boundary rings into RFC 7946 geometry objects.
package geojson

import (
	"encoding/json"
	"fmt"

	"github.com/samirrijal/geoseam/internal/core/domain"
)

// Assembler implements ports.GeometryAssembler with RFC 7946 output.
// Longitudes are emitted exactly as given; rings that straddle the
// antimeridian must be split before assembly.
type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// MakeLine copies points into a line string, leaving the input untouched.
func (a *Assembler) MakeLine(points []domain.GeoPoint) domain.GeoLineString {
	coords := make([]domain.GeoPoint, len(points))
	copy(coords, points)
	return domain.GeoLineString{Coordinates: coords}
}

// JoinLines concatenates two line strings in order.
func (a *Assembler) JoinLines(x, y domain.GeoLineString) domain.GeoLineString {
	coords := make([]domain.GeoPoint, 0, len(x.Coordinates)+len(y.Coordinates))
	coords = append(coords, x.Coordinates...)
	coords = append(coords, y.Coordinates...)
	return domain.GeoLineString{Coordinates: coords}
}

// MakePolygon serializes one ring as a GeoJSON Polygon, or several rings as a
// MultiPolygon with one polygon per ring. Unclosed rings are closed by
// repeating the first coordinate.
func (a *Assembler) MakePolygon(rings ...domain.GeoLineString) ([]byte, error) {
	if len(rings) == 0 {
		return nil, fmt.Errorf("make polygon: no rings")
	}

	closed := make([][][]float64, len(rings))
	for i, r := range rings {
		ring, err := closeRing(r.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("make polygon: ring %d: %w", i, err)
		}
		closed[i] = ring
	}

	if len(closed) == 1 {
		// A Polygon's coordinates are an array of rings, even with one ring.
		return json.Marshal(geometry{Type: "Polygon", Coordinates: closed[:1]})
	}

	polys := make([][][][]float64, len(closed))
	for i, r := range closed {
		polys[i] = [][][]float64{r}
	}
	return json.Marshal(geometry{Type: "MultiPolygon", Coordinates: polys})
}

type geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

func closeRing(points []domain.GeoPoint) ([][]float64, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("need at least 3 points, got %d", len(points))
	}

	ring := make([][]float64, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, []float64{p.Lon, p.Lat})
	}
	first, last := points[0], points[len(points)-1]
	if first.Lat != last.Lat || first.Lon != last.Lon {
		ring = append(ring, []float64{first.Lon, first.Lat})
	}
	return ring, nil
}
