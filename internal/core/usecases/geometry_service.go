package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/samirrijal/geoseam/internal/core/domain"
	"github.com/samirrijal/geoseam/internal/core/geodesy"
	"github.com/samirrijal/geoseam/internal/core/ports"
	"github.com/samirrijal/geoseam/internal/pkg/geospatial"
	"github.com/samirrijal/geoseam/internal/pkg/metrics"
)

// GeometryService runs the boundary pipeline for locations: sample the circle,
// detect antimeridian crossings, segment the ring, assemble GeoJSON, persist,
// cache and publish.
type GeometryService struct {
	locations ports.LocationRepository
	geoms     ports.GeometryRepository
	assembler ports.GeometryAssembler
	cache     ports.CacheService
	publisher ports.EventPublisher

	pointCount     int
	earthRadius    float64
	maxConcurrency int
	planarRescale  float64
}

// NewGeometryService creates a new GeometryService. pointCount, earthRadius
// and planarRescale are the configured defaults; maxConcurrency bounds
// ComputeAll fan-out.
func NewGeometryService(
	locations ports.LocationRepository,
	geoms ports.GeometryRepository,
	assembler ports.GeometryAssembler,
	cache ports.CacheService,
	publisher ports.EventPublisher,
	pointCount int,
	earthRadius float64,
	maxConcurrency int,
	planarRescale float64,
) *GeometryService {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	if planarRescale <= 0 {
		planarRescale = 10
	}
	return &GeometryService{
		locations:      locations,
		geoms:          geoms,
		assembler:      assembler,
		cache:          cache,
		publisher:      publisher,
		pointCount:     pointCount,
		earthRadius:    earthRadius,
		maxConcurrency: maxConcurrency,
		planarRescale:  planarRescale,
	}
}

// ComputeRing runs the pure pipeline for one location without touching any
// backing store. pointCount 0 means the configured default.
func (s *GeometryService) ComputeRing(loc *domain.Location, pointCount int) (*domain.LocationGeometry, error) {
	if pointCount == 0 {
		pointCount = s.pointCount
	}

	points, err := geodesy.Sample(loc.Center.Lat, loc.Center.Lon, loc.RadiusMeters, s.earthRadius, pointCount)
	if err != nil {
		return nil, fmt.Errorf("sample boundary: %w", err)
	}

	crossings, err := geodesy.DetectCrossings(points)
	if err != nil {
		return nil, fmt.Errorf("detect crossings: %w", err)
	}

	ring, err := geodesy.SegmentRing(points, crossings)
	if err != nil {
		return nil, fmt.Errorf("segment ring: %w", err)
	}

	return &domain.LocationGeometry{
		LocationID:          loc.ID,
		Slug:                loc.Slug,
		Ring:                ring,
		CrossesAntimeridian: ring.Kind == domain.RingMulti,
		// PointCount reports the requested sample count, not the emitted
		// coordinate total with closing and seam points.
		PointCount:          pointCount,
		ComputedAt:          time.Now().UTC(),
	}, nil
}

// AssembleFeature serializes a computed ring as a GeoJSON Feature. Rings that
// cross the antimeridian become a MultiPolygon with one polygon per side of
// the seam; batches 1 and 2 form the far side, 3 and 0 the near side.
func (s *GeometryService) AssembleFeature(loc *domain.Location, geom *domain.LocationGeometry) ([]byte, error) {
	var (
		geomJSON []byte
		err      error
	)
	if geom.Ring.Kind == domain.RingSingle {
		geomJSON, err = s.assembler.MakePolygon(s.assembler.MakeLine(geom.Ring.Single))
	} else {
		b := geom.Ring.Batches
		far := s.assembler.JoinLines(s.assembler.MakeLine(b[1]), s.assembler.MakeLine(b[2]))
		near := s.assembler.JoinLines(s.assembler.MakeLine(b[3]), s.assembler.MakeLine(b[0]))
		geomJSON, err = s.assembler.MakePolygon(far, near)
	}
	if err != nil {
		return nil, fmt.Errorf("assemble polygon: %w", err)
	}

	feature := struct {
		Type       string          `json:"type"`
		BBox       []float64       `json:"bbox,omitempty"`
		Geometry   json.RawMessage `json:"geometry"`
		Properties map[string]any  `json:"properties"`
	}{
		Type:     "Feature",
		Geometry: geomJSON,
		Properties: map[string]any{
			"slug":                 loc.Slug,
			"name":                 loc.Name,
			"radius_meters":        loc.RadiusMeters,
			"point_count":          geom.PointCount,
			"crosses_antimeridian": geom.CrossesAntimeridian,
			"computed_at":          geom.ComputedAt.Format(time.RFC3339),
		},
	}
	// The bbox helper does not wrap at the seam, so it is omitted for
	// crossing rings.
	if !geom.CrossesAntimeridian {
		minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(loc.Center.Lat, loc.Center.Lon, loc.RadiusMeters)
		feature.BBox = []float64{minLon, minLat, maxLon, maxLat}
	}

	return json.Marshal(feature)
}

// ComputeForLocation computes, stores, caches and publishes geometry for one
// slug. pointCount 0 means the configured default.
func (s *GeometryService) ComputeForLocation(ctx context.Context, slug string, pointCount int) (*domain.LocationGeometry, error) {
	loc, err := s.locations.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find location %q: %w", slug, err)
	}
	geom, _, err := s.computeAndStore(ctx, loc, pointCount, true)
	return geom, err
}

// ComputeForRefresh computes, stores and caches geometry for one slug without
// emitting an event. The refresh workflow publishes in its own tracked step.
func (s *GeometryService) ComputeForRefresh(ctx context.Context, slug string, pointCount int) (*domain.LocationGeometry, error) {
	loc, err := s.locations.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find location %q: %w", slug, err)
	}
	geom, _, err := s.computeAndStore(ctx, loc, pointCount, false)
	return geom, err
}

// ComputeAll recomputes the whole catalog. Locations are processed
// concurrently up to the configured bound; one location's failure is recorded
// in the report and never aborts the rest of the run.
func (s *GeometryService) ComputeAll(ctx context.Context, pointCount int) (*domain.ComputeReport, error) {
	locs, err := s.locations.FindAll(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report domain.ComputeReport
	)
	sem := make(chan struct{}, s.maxConcurrency)

	for i := range locs {
		loc := &locs[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			geom, _, err := s.computeAndStore(ctx, loc, pointCount, true)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Errors = append(report.Errors, domain.ComputeError{
					LocationID: loc.ID,
					Slug:       loc.Slug,
					Err:        err.Error(),
				})
				return
			}
			report.Geometries = append(report.Geometries, *geom)
		}()
	}
	wg.Wait()

	return &report, nil
}

// GetPolygon returns the assembled GeoJSON feature for a slug, computing it on
// demand when no stored geometry exists yet.
func (s *GeometryService) GetPolygon(ctx context.Context, slug string) ([]byte, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, polygonCacheKey(slug)); err == nil {
			return data, nil
		}
	}

	loc, err := s.locations.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find location %q: %w", slug, err)
	}

	if s.geoms != nil {
		if stored, err := s.geoms.Get(ctx, loc.ID); err == nil && stored != nil {
			if s.cache != nil {
				_ = s.cache.Set(ctx, polygonCacheKey(slug), stored.GeoJSON, 3600)
			}
			return stored.GeoJSON, nil
		}
	}

	_, doc, err := s.computeAndStore(ctx, loc, 0, true)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Preview computes a GeoJSON feature for ad-hoc parameters without persisting
// anything.
func (s *GeometryService) Preview(ctx context.Context, lat, lon, radiusMeters float64, pointCount int) ([]byte, error) {
	loc := &domain.Location{
		Slug:         "preview",
		Name:         "preview",
		Center:       domain.GeoPoint{Lat: lat, Lon: lon},
		RadiusMeters: radiusMeters,
	}
	geom, err := s.ComputeRing(loc, pointCount)
	if err != nil {
		return nil, err
	}
	return s.AssembleFeature(loc, geom)
}

// PreviewPlanar computes a flat-plane circle for ad-hoc planar coordinates,
// divided by the configured rescale so the output fits the geographic
// coordinate range. pointCount 0 means the configured default.
func (s *GeometryService) PreviewPlanar(ctx context.Context, x, y, radius float64, pointCount int) ([]byte, error) {
	if pointCount == 0 {
		pointCount = s.pointCount
	}
	points, err := geodesy.SamplePlanar(x, y, radius, pointCount, s.planarRescale)
	if err != nil {
		return nil, fmt.Errorf("sample planar boundary: %w", err)
	}

	loc := &domain.Location{
		Slug:         "preview",
		Name:         "preview",
		Center:       domain.GeoPoint{Lat: y / s.planarRescale, Lon: x / s.planarRescale},
		RadiusMeters: radius,
	}
	geom := &domain.LocationGeometry{
		Slug:       loc.Slug,
		Ring:       domain.RingGeometry{Kind: domain.RingSingle, Single: domain.Batch(points)},
		PointCount: pointCount,
		ComputedAt: time.Now().UTC(),
	}
	return s.AssembleFeature(loc, geom)
}

// InvalidateCache drops the cached polygon for a slug.
func (s *GeometryService) InvalidateCache(ctx context.Context, slug string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, polygonCacheKey(slug))
}

// PublishUpdate emits a geometry-updated event for an already computed result.
func (s *GeometryService) PublishUpdate(ctx context.Context, geom *domain.LocationGeometry) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishGeometryUpdated(ctx, &domain.GeometryUpdate{
		LocationID:          geom.LocationID,
		Slug:                geom.Slug,
		CrossesAntimeridian: geom.CrossesAntimeridian,
		BatchCount:          len(geom.Ring.AllBatches()),
		PointCount:          geom.PointCount,
		ComputedAt:          geom.ComputedAt,
	})
}

// DropStored removes persisted geometry for a location, used when a publish
// step fails and the write has to be compensated.
func (s *GeometryService) DropStored(ctx context.Context, locationID string) error {
	if s.geoms == nil {
		return nil
	}
	return s.geoms.DeleteByLocation(ctx, locationID)
}

func (s *GeometryService) computeAndStore(ctx context.Context, loc *domain.Location, pointCount int, publish bool) (*domain.LocationGeometry, []byte, error) {
	start := time.Now()

	geom, err := s.ComputeRing(loc, pointCount)
	if err != nil {
		metrics.RingsComputed.WithLabelValues("error").Inc()
		return nil, nil, err
	}
	metrics.RingsComputed.WithLabelValues("ok").Inc()
	if geom.CrossesAntimeridian {
		metrics.SeamCrossingsDetected.Inc()
	}

	doc, err := s.AssembleFeature(loc, geom)
	if err != nil {
		return nil, nil, err
	}

	if s.geoms != nil {
		stored := &domain.StoredGeometry{
			LocationID:          loc.ID,
			GeoJSON:             doc,
			CrossesAntimeridian: geom.CrossesAntimeridian,
			PointCount:          geom.PointCount,
			ComputedAt:          geom.ComputedAt,
		}
		if err := s.geoms.Upsert(ctx, stored); err != nil {
			return nil, nil, fmt.Errorf("store geometry for %q: %w", loc.Slug, err)
		}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, polygonCacheKey(loc.Slug), doc, 3600)
	}

	if publish {
		// Best-effort event; a broker outage must not fail the computation.
		_ = s.PublishUpdate(ctx, geom)
	}

	metrics.ComputeDuration.Observe(time.Since(start).Seconds())
	return geom, doc, nil
}

func polygonCacheKey(slug string) string {
	return "geo:polygon:" + slug
}
