package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/geoseam/internal/adapters/postgres"
	"github.com/samirrijal/geoseam/internal/adapters/valkey"
	"github.com/samirrijal/geoseam/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Locations *usecases.LocationService
	Geometry  *usecases.GeometryService
	Realtime  *usecases.RealtimeService
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
}
