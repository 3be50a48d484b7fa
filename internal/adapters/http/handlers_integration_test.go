//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samirrijal/geoseam/internal/adapters/geojson"
	"github.com/samirrijal/geoseam/internal/adapters/http"
	"github.com/samirrijal/geoseam/internal/adapters/postgres"
	"github.com/samirrijal/geoseam/internal/core/domain"
	"github.com/samirrijal/geoseam/internal/core/usecases"
	"github.com/samirrijal/geoseam/internal/pkg/config"
)

// setupTestDB connects to the test database and returns a clean DB instance.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("geoseam-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	db := &postgres.DB{Pool: pool}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}

	return db
}

// setupTestDeps creates dependencies with real DB and repos, no cache or broker.
func setupTestDeps(t *testing.T, db *postgres.DB) *http.Dependencies {
	locationRepo := postgres.NewLocationRepo(db)
	geometryRepo := postgres.NewGeometryRepo(db)

	geometry := usecases.NewGeometryService(
		locationRepo, geometryRepo, geojson.NewAssembler(), nil, nil, 120, 6371009.0, 4, 10)

	return &http.Dependencies{
		Locations: usecases.NewLocationService(locationRepo, nil),
		Geometry:  geometry,
		Realtime:  usecases.NewRealtimeService(geometry, nil),
		DB:        db,
	}
}

// seedTestLocation inserts a location and returns its UUID.
func seedTestLocation(t *testing.T, db *postgres.DB, slug string, lat, lon, radius float64) string {
	ctx := context.Background()
	var id string
	if err := db.Pool.QueryRow(ctx, `
		INSERT INTO locations (slug, name, center, radius_meters)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5)
		ON CONFLICT (slug) DO UPDATE SET radius_meters = EXCLUDED.radius_meters
		RETURNING id
	`, slug, "Test "+slug, lon, lat, radius).Scan(&id); err != nil {
		t.Fatalf("seed location: %v", err)
	}
	return id
}

// TestListLocations_Integration_WithRealDB tests catalog listing against a real database.
func TestListLocations_Integration_WithRealDB(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	seedTestLocation(t, db, "test_downtown", 40.71, -74.0, 5000)
	seedTestLocation(t, db, "test_uptown", 40.81, -73.94, 3000)

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/locations", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Location   `json:"data"`
		Pagination struct{ Total int } `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if result.Pagination.Total < 2 {
		t.Errorf("expected at least 2 locations, got %d", result.Pagination.Total)
	}
}

// TestNearbyLocations_Integration exercises the PostGIS distance query.
func TestNearbyLocations_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	seedTestLocation(t, db, "test_spatial", 43.263, -2.935, 2000)

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/locations/nearby?lat=43.263&lon=-2.935&radius=5000", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var locs []domain.Location
	if err := json.NewDecoder(resp.Body).Decode(&locs); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(locs) == 0 {
		t.Error("expected at least 1 nearby location, got 0")
	}
}

// TestLocationPolygon_Integration computes on demand and verifies the stored row.
func TestLocationPolygon_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	slug := "test_seam_" + time.Now().Format("20060102150405")
	id := seedTestLocation(t, db, slug, 67.017, -178.242, 450000)

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/locations/"+slug+"/polygon", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var feat struct {
		Geometry struct {
			Type string `json:"type"`
		} `json:"geometry"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&feat); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if feat.Geometry.Type != "MultiPolygon" {
		t.Errorf("expected MultiPolygon across the seam, got %q", feat.Geometry.Type)
	}

	// The on-demand compute persists its result
	stored, err := postgres.NewGeometryRepo(db).Get(context.Background(), id)
	if err != nil {
		t.Fatalf("expected stored geometry after on-demand compute: %v", err)
	}
	if !stored.CrossesAntimeridian {
		t.Error("expected stored row to flag the seam crossing")
	}
}
