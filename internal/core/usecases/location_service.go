package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/geoseam/internal/core/domain"
	"github.com/samirrijal/geoseam/internal/core/ports"
)

// LocationService handles geofence catalog business logic.
type LocationService struct {
	locations ports.LocationRepository
	cache     ports.CacheService
}

// NewLocationService creates a new LocationService.
func NewLocationService(locations ports.LocationRepository, cache ports.CacheService) *LocationService {
	return &LocationService{locations: locations, cache: cache}
}

// List returns a page of locations.
func (s *LocationService) List(ctx context.Context, limit, offset int) ([]domain.Location, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.locations.FindAll(ctx, limit, offset)
}

// GetBySlug returns a single location.
func (s *LocationService) GetBySlug(ctx context.Context, slug string) (*domain.Location, error) {
	cacheKey := "geo:location:" + slug
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var loc domain.Location
			if err := json.Unmarshal(data, &loc); err == nil {
				return &loc, nil
			}
		}
	}

	loc, err := s.locations.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(loc); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return loc, nil
}

// FindNearby returns locations whose center sits within radiusMeters of the
// given point.
func (s *LocationService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Location, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("geo:nearby:%.4f:%.4f:%.0f:%d", lat, lon, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var locs []domain.Location
			if err := json.Unmarshal(data, &locs); err == nil {
				return locs, nil
			}
		}
	}

	locs, err := s.locations.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	// Cache for 5 minutes (the catalog changes rarely)
	if s.cache != nil {
		if data, err := json.Marshal(locs); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return locs, nil
}

// Create validates and stores a new location.
func (s *LocationService) Create(ctx context.Context, loc *domain.Location) error {
	if loc.Slug == "" {
		return fmt.Errorf("location slug must not be empty")
	}
	if loc.RadiusMeters <= 0 {
		return fmt.Errorf("location radius must be positive, got %v", loc.RadiusMeters)
	}
	if loc.Center.Lat < -90 || loc.Center.Lat > 90 {
		return fmt.Errorf("location center latitude out of range: %v", loc.Center.Lat)
	}
	return s.locations.Create(ctx, loc)
}

// Update stores changed fields and drops stale cache entries.
func (s *LocationService) Update(ctx context.Context, loc *domain.Location) error {
	if loc.RadiusMeters <= 0 {
		return fmt.Errorf("location radius must be positive, got %v", loc.RadiusMeters)
	}
	if err := s.locations.Update(ctx, loc); err != nil {
		return err
	}
	s.invalidate(ctx, loc.Slug)
	return nil
}

// Delete removes a location and drops stale cache entries.
func (s *LocationService) Delete(ctx context.Context, slug string) error {
	if err := s.locations.Delete(ctx, slug); err != nil {
		return err
	}
	s.invalidate(ctx, slug)
	return nil
}

// Count returns the catalog size.
func (s *LocationService) Count(ctx context.Context) (int, error) {
	return s.locations.Count(ctx)
}

func (s *LocationService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, "geo:location:"+slug)
	_ = s.cache.Delete(ctx, polygonCacheKey(slug))
}
