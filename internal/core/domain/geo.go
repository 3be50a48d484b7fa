package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoLineString represents an ordered sequence of geographic coordinates.
type GeoLineString struct {
	Coordinates []GeoPoint `json:"coordinates"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundaryPoint is one sampled point on a circle's boundary ring.
// Seq is fractional: genuine sampled points sit at integer indices 0..N,
// synthesized seam points are inserted at index−0.5 so ordering is preserved
// without renumbering.
type BoundaryPoint struct {
	Seq   float64  `json:"seq"`
	Point GeoPoint `json:"point"`
}

// Crossing records one pass of a boundary ring over the antimeridian.
// It is anchored at the index of the later of the two points forming the
// crossing pair. Point carries the interpolated seam coordinate (lon exactly
// +180 or −180); Mirror is the same geographic point expressed with the
// opposite longitude sign, used on the far side of the seam.
type Crossing struct {
	Index     int      `json:"index"`
	Point     GeoPoint `json:"point"`
	Mirror    GeoPoint `json:"mirror"`
	Eastbound bool     `json:"eastbound"`
}

// Batch is a contiguous run of ring coordinates guaranteed not to cross the
// antimeridian internally, safe to hand to a line/polygon constructor as-is.
type Batch []GeoPoint

// RingKind tags how a ring is partitioned for assembly.
type RingKind int

const (
	// RingSingle means the ring never crosses the antimeridian and is
	// assembled from one batch.
	RingSingle RingKind = iota
	// RingMulti means the ring crosses the antimeridian and is assembled
	// from exactly four batches in order.
	RingMulti
)

// RingGeometry is the assembler-facing result of segmenting a boundary ring.
// Exactly one of Single or Batches is meaningful, selected by Kind.
type RingGeometry struct {
	Kind    RingKind `json:"kind"`
	Single  Batch    `json:"single,omitempty"`
	Batches [4]Batch `json:"batches,omitempty"`
}

// AllBatches returns the ring's batches in assembly order, regardless of kind.
func (r RingGeometry) AllBatches() []Batch {
	if r.Kind == RingSingle {
		return []Batch{r.Single}
	}
	return r.Batches[:]
}

// PointTotal returns the number of coordinates across all batches.
func (r RingGeometry) PointTotal() int {
	n := 0
	for _, b := range r.AllBatches() {
		n += len(b)
	}
	return n
}
