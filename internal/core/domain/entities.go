package domain

import (
	"time"
)

// Location is a circular geofence: a center point plus a radius in meters.
// Locations are loaded from the catalog and immutable during a computation
// pass.
type Location struct {
	ID           string         `json:"id"`
	Slug         string         `json:"slug"`
	Name         string         `json:"name"`
	Center       GeoPoint       `json:"center"`
	RadiusMeters float64        `json:"radius_meters"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Distance     *float64       `json:"distance,omitempty"` // computed field
	CreatedAt    time.Time      `json:"created_at"`
}

// LocationGeometry is the computed polygonal approximation of one Location's
// circle, ready for assembly into GeoJSON.
type LocationGeometry struct {
	LocationID          string       `json:"location_id"`
	Slug                string       `json:"slug"`
	Ring                RingGeometry `json:"ring"`
	CrossesAntimeridian bool         `json:"crosses_antimeridian"`
	PointCount          int          `json:"point_count"`
	ComputedAt          time.Time    `json:"computed_at"`
}

// StoredGeometry is a persisted geometry row: the assembled GeoJSON document
// plus bookkeeping columns.
type StoredGeometry struct {
	LocationID          string    `json:"location_id"`
	GeoJSON             []byte    `json:"geojson"`
	CrossesAntimeridian bool      `json:"crosses_antimeridian"`
	PointCount          int       `json:"point_count"`
	ComputedAt          time.Time `json:"computed_at"`
}

// GeometryUpdate is the event published when a Location's polygon has been
// (re)computed.
type GeometryUpdate struct {
	LocationID          string    `json:"location_id"`
	Slug                string    `json:"slug"`
	CrossesAntimeridian bool      `json:"crosses_antimeridian"`
	BatchCount          int       `json:"batch_count"`
	PointCount          int       `json:"point_count"`
	ComputedAt          time.Time `json:"computed_at"`
}

// RecomputeRequest asks the worker to recompute geometry for one location, or
// for the whole catalog when Slug is empty.
type RecomputeRequest struct {
	Slug        string    `json:"slug,omitempty"`
	PointCount  int       `json:"point_count,omitempty"` // 0 = configured default
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// ComputeError pairs a failed Location with its error so one bad input never
// hides the rest of a batch run.
type ComputeError struct {
	LocationID string `json:"location_id"`
	Slug       string `json:"slug"`
	Err        string `json:"error"`
}

// ComputeReport is the outcome of a multi-location computation pass: partial
// results plus the per-location failures.
type ComputeReport struct {
	Geometries []LocationGeometry `json:"geometries"`
	Errors     []ComputeError     `json:"errors,omitempty"`
}
