package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/samirrijal/geoseam/internal/core/domain"
	"github.com/samirrijal/geoseam/internal/core/ports"
)

// RealtimeService accepts recompute requests and dispatches them to the
// geometry pipeline. It backs the NATS worker and the HTTP recompute endpoint.
type RealtimeService struct {
	geometry  *GeometryService
	publisher ports.EventPublisher
}

// NewRealtimeService creates a new RealtimeService.
func NewRealtimeService(geometry *GeometryService, publisher ports.EventPublisher) *RealtimeService {
	return &RealtimeService{geometry: geometry, publisher: publisher}
}

// RequestRecompute enqueues a recompute job on the message bus.
func (s *RealtimeService) RequestRecompute(ctx context.Context, req *domain.RecomputeRequest) error {
	if s.publisher == nil {
		return fmt.Errorf("no event publisher configured")
	}
	req.RequestedAt = time.Now().UTC()
	if err := s.publisher.PublishRecomputeRequested(ctx, req); err != nil {
		return fmt.Errorf("publish recompute request: %w", err)
	}
	return nil
}

// ProcessRecompute handles one recompute job. An empty slug means the whole
// catalog.
func (s *RealtimeService) ProcessRecompute(ctx context.Context, req *domain.RecomputeRequest) error {
	if req.Slug != "" {
		_, err := s.geometry.ComputeForLocation(ctx, req.Slug, req.PointCount)
		return err
	}

	report, err := s.geometry.ComputeAll(ctx, req.PointCount)
	if err != nil {
		return err
	}
	if len(report.Errors) > 0 {
		return fmt.Errorf("recompute finished with %d of %d locations failed",
			len(report.Errors), len(report.Errors)+len(report.Geometries))
	}
	return nil
}
