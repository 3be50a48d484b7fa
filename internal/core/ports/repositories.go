package ports

import (
	"context"

	"github.com/samirrijal/geoseam/internal/core/domain"
)

// LocationRepository is the persistence port for geofence locations.
type LocationRepository interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Location, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.Location, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Location, error)
	Create(ctx context.Context, loc *domain.Location) error
	Update(ctx context.Context, loc *domain.Location) error
	Delete(ctx context.Context, slug string) error
	Count(ctx context.Context) (int, error)
}

// GeometryRepository stores computed boundary polygons keyed by location.
type GeometryRepository interface {
	Get(ctx context.Context, locationID string) (*domain.StoredGeometry, error)
	Upsert(ctx context.Context, geom *domain.StoredGeometry) error
	UpsertBatch(ctx context.Context, geoms []domain.StoredGeometry) error
	DeleteByLocation(ctx context.Context, locationID string) error
}
