package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/geoseam/internal/core/domain"
)

// RefreshInput is the input for the catalog refresh workflow. An empty Slugs
// list refreshes the whole catalog.
type RefreshInput struct {
	Slugs []string
}

// RefreshResult summarises one refresh run.
type RefreshResult struct {
	Refreshed int
	Failed    []string
}

// CatalogRefreshWorkflow recomputes boundary polygons location by location:
// compute and persist, invalidate cache, publish the update. If publishing
// fails after retries, the compensation step deletes the freshly stored
// geometry again.
func CatalogRefreshWorkflow(ctx workflow.Context, input RefreshInput) (*RefreshResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting catalog refresh", "slugs", len(input.Slugs))

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 60 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	slugs := input.Slugs
	if len(slugs) == 0 {
		if err := workflow.ExecuteActivity(ctx, "ListLocationSlugs").Get(ctx, &slugs); err != nil {
			return nil, err
		}
	}

	result := &RefreshResult{}
	for _, slug := range slugs {
		var geom domain.LocationGeometry
		if err := workflow.ExecuteActivity(ctx, "ComputeGeometry", slug).Get(ctx, &geom); err != nil {
			logger.Warn("compute failed, skipping location", "slug", slug, "error", err)
			result.Failed = append(result.Failed, slug)
			continue
		}

		if err := workflow.ExecuteActivity(ctx, "InvalidateCache", slug).Get(ctx, nil); err != nil {
			logger.Warn("cache invalidation failed", "slug", slug, "error", err)
		}

		if err := workflow.ExecuteActivity(ctx, "PublishUpdate", &geom).Get(ctx, nil); err != nil {
			logger.Warn("publish failed, compensating", "slug", slug, "error", err)
			_ = workflow.ExecuteActivity(ctx, "DropStoredGeometry", geom.LocationID).Get(ctx, nil)
			result.Failed = append(result.Failed, slug)
			continue
		}

		result.Refreshed++
	}

	logger.Info("Catalog refresh finished", "refreshed", result.Refreshed, "failed", len(result.Failed))
	return result, nil
}
