package workflows

import (
	"context"
	"fmt"
	"log"

	"github.com/samirrijal/geoseam/internal/core/domain"
	"github.com/samirrijal/geoseam/internal/core/ports"
	"github.com/samirrijal/geoseam/internal/core/usecases"
)

// RefreshActivities holds the activity implementations for the catalog
// refresh workflow.
type RefreshActivities struct {
	Geometry  *usecases.GeometryService
	Locations ports.LocationRepository
}

// ListLocationSlugs returns every slug in the catalog.
func (a *RefreshActivities) ListLocationSlugs(ctx context.Context) ([]string, error) {
	locs, err := a.Locations.FindAll(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	slugs := make([]string, len(locs))
	for i, loc := range locs {
		slugs[i] = loc.Slug
	}
	return slugs, nil
}

// ComputeGeometry runs the boundary pipeline for one slug and persists the
// result without publishing. It returns the computed geometry so the
// PublishUpdate step emits the only event for the run.
func (a *RefreshActivities) ComputeGeometry(ctx context.Context, slug string) (*domain.LocationGeometry, error) {
	geom, err := a.Geometry.ComputeForRefresh(ctx, slug, 0)
	if err != nil {
		return nil, fmt.Errorf("compute %s: %w", slug, err)
	}
	return geom, nil
}

// InvalidateCache drops the cached polygon for a slug.
func (a *RefreshActivities) InvalidateCache(ctx context.Context, slug string) error {
	return a.Geometry.InvalidateCache(ctx, slug)
}

// PublishUpdate emits a geometry-updated event for a finished computation.
func (a *RefreshActivities) PublishUpdate(ctx context.Context, geom *domain.LocationGeometry) error {
	if err := a.Geometry.PublishUpdate(ctx, geom); err != nil {
		return fmt.Errorf("publish update for %s: %w", geom.Slug, err)
	}
	return nil
}

// DropStoredGeometry removes persisted geometry. The workflow calls it to
// compensate when a publish step exhausts its retries.
func (a *RefreshActivities) DropStoredGeometry(ctx context.Context, locationID string) error {
	if err := a.Geometry.DropStored(ctx, locationID); err != nil {
		return fmt.Errorf("drop geometry %s: %w", locationID, err)
	}
	log.Printf("geometry %s dropped (saga compensation)", locationID)
	return nil
}
