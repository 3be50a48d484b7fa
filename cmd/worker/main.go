package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samirrijal/geoseam/internal/adapters/geojson"
	natsadapter "github.com/samirrijal/geoseam/internal/adapters/nats"
	"github.com/samirrijal/geoseam/internal/adapters/postgres"
	"github.com/samirrijal/geoseam/internal/adapters/valkey"
	"github.com/samirrijal/geoseam/internal/core/domain"
	"github.com/samirrijal/geoseam/internal/core/ports"
	"github.com/samirrijal/geoseam/internal/core/usecases"
	"github.com/samirrijal/geoseam/internal/pkg/config"
	"github.com/samirrijal/geoseam/internal/pkg/logging"
	"github.com/samirrijal/geoseam/internal/pkg/metrics"
)

// The worker consumes recompute jobs from JetStream and runs the boundary
// pipeline off the API's request path.
func main() {
	cfg, err := config.Load("geoseam-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("worker", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	// NATS
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer publisher.Close()

	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer subscriber.Close()

	// Services
	locationRepo := postgres.NewLocationRepo(db)
	geometryRepo := postgres.NewGeometryRepo(db)
	geometrySvc := usecases.NewGeometryService(
		locationRepo, geometryRepo, geojson.NewAssembler(), cacheOrNil(cache), publisher,
		cfg.Geometry.PointCount, cfg.Geometry.EarthRadiusM, cfg.Geometry.MaxConcurrency,
		cfg.Geometry.PlanarRescale,
	)
	realtimeSvc := usecases.NewRealtimeService(geometrySvc, publisher)

	err = subscriber.SubscribeRecomputeRequests(ctx, func(ctx context.Context, req *domain.RecomputeRequest) error {
		start := time.Now()
		slog.Info("recompute job received", "slug", req.Slug, "reason", req.Reason)

		if err := realtimeSvc.ProcessRecompute(ctx, req); err != nil {
			metrics.RecomputeJobs.WithLabelValues("error").Inc()
			slog.Error("recompute failed", "slug", req.Slug, "error", err)
			return err
		}

		metrics.RecomputeJobs.WithLabelValues("ok").Inc()
		slog.Info("recompute done", "slug", req.Slug, "elapsed", time.Since(start).String())
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	// Periodically export DB pool stats
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	slog.Info("worker started", "max_concurrency", cfg.Geometry.MaxConcurrency)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("worker stopping")
}

// cacheOrNil keeps a failed cache out of the interface so the service's nil
// checks still work.
func cacheOrNil(c *valkey.Cache) ports.CacheService {
	if c == nil {
		return nil
	}
	return c
}
