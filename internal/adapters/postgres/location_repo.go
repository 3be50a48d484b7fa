package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samirrijal/geoseam/internal/core/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("postgres: not found")

// LocationRepo implements ports.LocationRepository with pgx.
type LocationRepo struct {
	db *DB
}

// NewLocationRepo creates a new LocationRepo.
func NewLocationRepo(db *DB) *LocationRepo {
	return &LocationRepo{db: db}
}

const locationColumns = `
	id, slug, name,
	ST_Y(center::geometry) as lat,
	ST_X(center::geometry) as lon,
	radius_meters, COALESCE(metadata, '{}'), created_at`

func scanLocation(row pgx.Row) (*domain.Location, error) {
	var loc domain.Location
	err := row.Scan(
		&loc.ID, &loc.Slug, &loc.Name,
		&loc.Center.Lat, &loc.Center.Lon,
		&loc.RadiusMeters, &loc.Metadata, &loc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindBySlug returns a single location.
func (r *LocationRepo) FindBySlug(ctx context.Context, slug string) (*domain.Location, error) {
	return scanLocation(r.db.Pool.QueryRow(ctx, `
		SELECT`+locationColumns+`
		FROM locations WHERE slug = $1
	`, slug))
}

// FindAll returns locations ordered by slug. limit <= 0 means no limit.
func (r *LocationRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.Location, error) {
	if limit <= 0 {
		limit = 1 << 30
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT`+locationColumns+`
		FROM locations
		ORDER BY slug
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLocations(rows, false)
}

// FindNearby returns locations whose center is within radiusMeters of the
// given point, nearest first, using PostGIS ST_DWithin.
func (r *LocationRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Location, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT`+locationColumns+`,
		       ST_Distance(center, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) as distance
		FROM locations
		WHERE ST_DWithin(center, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance
		LIMIT $4
	`, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLocations(rows, true)
}

func collectLocations(rows pgx.Rows, withDistance bool) ([]domain.Location, error) {
	var locs []domain.Location
	for rows.Next() {
		var loc domain.Location
		dest := []any{
			&loc.ID, &loc.Slug, &loc.Name,
			&loc.Center.Lat, &loc.Center.Lon,
			&loc.RadiusMeters, &loc.Metadata, &loc.CreatedAt,
		}
		if withDistance {
			loc.Distance = new(float64)
			dest = append(dest, loc.Distance)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

// Create inserts a new location.
func (r *LocationRepo) Create(ctx context.Context, loc *domain.Location) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO locations (slug, name, center, radius_meters, metadata)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5, $6)
		RETURNING id, created_at
	`, loc.Slug, loc.Name, loc.Center.Lon, loc.Center.Lat,
		loc.RadiusMeters, loc.Metadata).Scan(&loc.ID, &loc.CreatedAt)
}

// Update rewrites a location's mutable fields, keyed by slug.
func (r *LocationRepo) Update(ctx context.Context, loc *domain.Location) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE locations
		SET name = $2,
		    center = ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography,
		    radius_meters = $5,
		    metadata = $6
		WHERE slug = $1
	`, loc.Slug, loc.Name, loc.Center.Lon, loc.Center.Lat,
		loc.RadiusMeters, loc.Metadata)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %q: %w", loc.Slug, ErrNotFound)
	}
	return nil
}

// Delete removes a location; computed geometry goes with it via FK cascade.
func (r *LocationRepo) Delete(ctx context.Context, slug string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM locations WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %q: %w", slug, ErrNotFound)
	}
	return nil
}

// Count returns the catalog size.
func (r *LocationRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n)
	return n, err
}
