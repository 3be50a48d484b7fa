package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/samirrijal/geoseam/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// The pre-rename circles surface forwards to /v1/locations until clients
	// move off it.
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/circles",
			SunsetDate:  time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/locations",
		},
	}))

	// Health & readiness, no timeout wrapper
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 with a 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Get("/locations", timeout.NewWithContext(ListLocationsHandler(deps), 15*time.Second))
	v1.Post("/locations", timeout.NewWithContext(CreateLocationHandler(deps), 15*time.Second))
	v1.Get("/locations/nearby", timeout.NewWithContext(NearbyLocationsHandler(deps), 15*time.Second))
	v1.Get("/locations/:slug", timeout.NewWithContext(GetLocationHandler(deps), 15*time.Second))
	v1.Put("/locations/:slug", timeout.NewWithContext(UpdateLocationHandler(deps), 15*time.Second))
	v1.Delete("/locations/:slug", timeout.NewWithContext(DeleteLocationHandler(deps), 15*time.Second))
	v1.Get("/locations/:slug/polygon", timeout.NewWithContext(LocationPolygonHandler(deps), 15*time.Second))
	v1.Get("/polygons/preview", timeout.NewWithContext(PreviewPolygonHandler(deps), 15*time.Second))
	v1.Get("/polygons/batch", timeout.NewWithContext(BatchPolygonsHandler(deps), 15*time.Second))
	v1.Post("/recompute", timeout.NewWithContext(RecomputeHandler(deps), 15*time.Second))
	v1.Get("/catalog/status", timeout.NewWithContext(CatalogStatusHandler(deps), 15*time.Second))

	// Deprecated alias kept for pre-rename clients
	v1.Get("/circles", timeout.NewWithContext(ListLocationsHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket. deps.NATS is nil when the broker was unreachable at startup.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if deps.NATS == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "event stream unavailable")
		}
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
