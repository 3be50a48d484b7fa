package ports

import (
	"context"

	"github.com/samirrijal/geoseam/internal/core/domain"
)

// GeometryAssembler turns boundary rings into serialized polygon features.
// Lines passed to MakePolygon that are not closed are closed by the
// implementation.
type GeometryAssembler interface {
	MakeLine(points []domain.GeoPoint) domain.GeoLineString
	JoinLines(a, b domain.GeoLineString) domain.GeoLineString
	MakePolygon(rings ...domain.GeoLineString) ([]byte, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishGeometryUpdated(ctx context.Context, update *domain.GeometryUpdate) error
	PublishRecomputeRequested(ctx context.Context, req *domain.RecomputeRequest) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeGeometryUpdates(ctx context.Context, handler func(ctx context.Context, update *domain.GeometryUpdate) error) error
	SubscribeRecomputeRequests(ctx context.Context, handler func(ctx context.Context, req *domain.RecomputeRequest) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
