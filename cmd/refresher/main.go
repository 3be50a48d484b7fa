package main

import (
	"context"
	"log"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/geoseam/internal/adapters/geojson"
	natsadapter "github.com/samirrijal/geoseam/internal/adapters/nats"
	"github.com/samirrijal/geoseam/internal/adapters/postgres"
	"github.com/samirrijal/geoseam/internal/adapters/valkey"
	"github.com/samirrijal/geoseam/internal/core/ports"
	"github.com/samirrijal/geoseam/internal/core/usecases"
	"github.com/samirrijal/geoseam/internal/pkg/config"
	"github.com/samirrijal/geoseam/internal/pkg/logging"
	"github.com/samirrijal/geoseam/internal/workflows"
)

func main() {
	cfg, err := config.Load("geoseam-refresher")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup("refresher", os.Getenv("LOG_LEVEL"), "json")

	ctx := context.Background()

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache (optional; refresh still works without it)
	cache, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix)
	if err != nil {
		log.Printf("valkey unavailable: %v", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer publisher.Close()

	locationRepo := postgres.NewLocationRepo(db)
	geometryRepo := postgres.NewGeometryRepo(db)
	geometrySvc := usecases.NewGeometryService(
		locationRepo, geometryRepo, geojson.NewAssembler(), cacheOrNil(cache), publisher,
		cfg.Geometry.PointCount, cfg.Geometry.EarthRadiusM, cfg.Geometry.MaxConcurrency,
		cfg.Geometry.PlanarRescale,
	)

	// Connect to Temporal
	hostPort := os.Getenv("TEMPORAL_ADDRESS")
	if hostPort == "" {
		hostPort = "localhost:7233"
	}
	c, err := client.Dial(client.Options{
		HostPort: hostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, "catalog-refresh-queue", worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.CatalogRefreshWorkflow)
	w.RegisterActivity(&workflows.RefreshActivities{
		Geometry:  geometrySvc,
		Locations: locationRepo,
	})

	log.Println("refresher worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

// cacheOrNil keeps a failed cache out of the interface so the service's nil
// checks still work.
func cacheOrNil(c *valkey.Cache) ports.CacheService {
	if c == nil {
		return nil
	}
	return c
}
