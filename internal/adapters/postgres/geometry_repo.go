package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samirrijal/geoseam/internal/core/domain"
)

// GeometryRepo persists computed boundary polygons, one row per location.
type GeometryRepo struct {
	db *DB
}

// NewGeometryRepo creates a new GeometryRepo.
func NewGeometryRepo(db *DB) *GeometryRepo {
	return &GeometryRepo{db: db}
}

// Get returns the stored geometry for a location.
func (r *GeometryRepo) Get(ctx context.Context, locationID string) (*domain.StoredGeometry, error) {
	var g domain.StoredGeometry
	err := r.db.Pool.QueryRow(ctx, `
		SELECT location_id, geojson, crosses_antimeridian, point_count, computed_at
		FROM location_geometries WHERE location_id = $1
	`, locationID).Scan(
		&g.LocationID, &g.GeoJSON, &g.CrossesAntimeridian, &g.PointCount, &g.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Upsert inserts or replaces the geometry for one location.
func (r *GeometryRepo) Upsert(ctx context.Context, geom *domain.StoredGeometry) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO location_geometries (location_id, geojson, crosses_antimeridian, point_count, computed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (location_id) DO UPDATE
		SET geojson = EXCLUDED.geojson,
		    crosses_antimeridian = EXCLUDED.crosses_antimeridian,
		    point_count = EXCLUDED.point_count,
		    computed_at = EXCLUDED.computed_at
	`, geom.LocationID, geom.GeoJSON, geom.CrossesAntimeridian, geom.PointCount, geom.ComputedAt)
	return err
}

// UpsertBatch writes many geometries using pgx.Batch.
func (r *GeometryRepo) UpsertBatch(ctx context.Context, geoms []domain.StoredGeometry) error {
	if len(geoms) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, g := range geoms {
		batch.Queue(`
			INSERT INTO location_geometries (location_id, geojson, crosses_antimeridian, point_count, computed_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (location_id) DO UPDATE
			SET geojson = EXCLUDED.geojson,
			    crosses_antimeridian = EXCLUDED.crosses_antimeridian,
			    point_count = EXCLUDED.point_count,
			    computed_at = EXCLUDED.computed_at
		`, g.LocationID, g.GeoJSON, g.CrossesAntimeridian, g.PointCount, g.ComputedAt)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range geoms {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// DeleteByLocation removes the stored geometry for a location.
func (r *GeometryRepo) DeleteByLocation(ctx context.Context, locationID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM location_geometries WHERE location_id = $1`, locationID)
	return err
}
