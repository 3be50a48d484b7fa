package http

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/geoseam/internal/adapters/postgres"
	"github.com/samirrijal/geoseam/internal/core/domain"
	"github.com/samirrijal/geoseam/internal/core/geodesy"
)

// CatalogStats holds row counts for the geofence catalog.
type CatalogStats struct {
	Locations  int    `json:"locations"`
	Geometries int    `json:"geometries"`
	Crossing   int    `json:"crossing_antimeridian"`
	LastUpdate string `json:"last_update,omitempty"`
}

// CatalogStatusHandler returns row counts from the catalog tables.
func CatalogStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats CatalogStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM locations),
				(SELECT count(*) FROM location_geometries),
				(SELECT count(*) FROM location_geometries WHERE crosses_antimeridian),
				COALESCE((SELECT max(computed_at)::text FROM location_geometries), '')
		`)
		if err := row.Scan(&stats.Locations, &stats.Geometries,
			&stats.Crossing, &stats.LastUpdate); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// ListLocationsHandler returns a page of the geofence catalog.
func ListLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := clampPage(c.QueryInt("offset", 0), c.QueryInt("limit", 50), 50, 100)

		locs, err := deps.Locations.List(c.Context(), limit, offset)
		if err != nil {
			return errInternal(c, err.Error())
		}
		total, err := deps.Locations.Count(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: locs, Pagination: pg})
	}
}

// GetLocationHandler returns a single location by slug.
func GetLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		if slug == "" {
			return errBadRequest(c, "location slug is required")
		}
		loc, err := deps.Locations.GetBySlug(c.Context(), slug)
		if err != nil {
			return errNotFound(c, "location not found")
		}
		return c.JSON(loc)
	}
}

// NearbyLocationsHandler returns locations whose center lies within a radius
// of a point.
func NearbyLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 50000)
		limit := c.QueryInt("limit", 20)

		if lat == 0 && lon == 0 && c.Query("lat") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		if lat < -90 || lat > 90 {
			return errBadRequest(c, "lat must be between -90 and 90")
		}
		if radius <= 0 || radius > 1000000 {
			return errBadRequest(c, "radius must be between 1 and 1000000 meters")
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		locs, err := deps.Locations.FindNearby(c.Context(), lat, lon, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(locs)
	}
}

type locationRequest struct {
	Slug         string         `json:"slug"`
	Name         string         `json:"name"`
	Lat          float64        `json:"lat"`
	Lon          float64        `json:"lon"`
	RadiusMeters float64        `json:"radius_meters"`
	Metadata     map[string]any `json:"metadata"`
}

func (r locationRequest) toDomain() *domain.Location {
	return &domain.Location{
		Slug:         r.Slug,
		Name:         r.Name,
		Center:       domain.GeoPoint{Lat: r.Lat, Lon: geodesy.NormalizeLon(r.Lon)},
		RadiusMeters: r.RadiusMeters,
		Metadata:     r.Metadata,
	}
}

// CreateLocationHandler registers a new geofence.
func CreateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		loc := req.toDomain()
		if err := deps.Locations.Create(c.Context(), loc); err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return errConflict(c, "a location with this slug already exists")
			}
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(loc)
	}
}

// UpdateLocationHandler rewrites a geofence's mutable fields.
func UpdateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		if slug == "" {
			return errBadRequest(c, "location slug is required")
		}

		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		req.Slug = slug

		loc := req.toDomain()
		if err := deps.Locations.Update(c.Context(), loc); err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				return errNotFound(c, "location not found")
			}
			return errBadRequest(c, err.Error())
		}
		return c.JSON(loc)
	}
}

// DeleteLocationHandler removes a geofence and its computed geometry.
func DeleteLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		if slug == "" {
			return errBadRequest(c, "location slug is required")
		}
		if err := deps.Locations.Delete(c.Context(), slug); err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				return errNotFound(c, "location not found")
			}
			return errInternal(c, err.Error())
		}
		return c.SendStatus(204)
	}
}

// LocationPolygonHandler returns the computed GeoJSON polygon for a location.
// A ?points= override computes an ad-hoc ring without touching stored state.
func LocationPolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		if slug == "" {
			return errBadRequest(c, "location slug is required")
		}

		points := c.QueryInt("points", 0)
		if points != 0 && (points < 3 || points > 10000) {
			return errBadRequest(c, "points must be between 3 and 10000")
		}

		var (
			doc []byte
			err error
		)
		if points == 0 {
			doc, err = deps.Geometry.GetPolygon(c.Context(), slug)
		} else {
			var loc *domain.Location
			loc, err = deps.Locations.GetBySlug(c.Context(), slug)
			if err == nil {
				doc, err = deps.Geometry.Preview(c.Context(),
					loc.Center.Lat, loc.Center.Lon, loc.RadiusMeters, points)
			}
		}
		if err != nil {
			return polygonError(c, err)
		}

		c.Set("Content-Type", "application/geo+json")
		return c.Send(doc)
	}
}

// PreviewPolygonHandler computes a polygon for ad-hoc parameters without
// persisting anything.
func PreviewPolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 0)
		points := c.QueryInt("points", 0)

		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		planar := c.Query("projection") == "planar"
		if !planar && (lat < -90 || lat > 90) {
			return errBadRequest(c, "lat must be between -90 and 90")
		}
		if radius <= 0 {
			return errBadRequest(c, "radius must be positive")
		}

		var (
			doc []byte
			err error
		)
		if planar {
			// Planar previews treat lon/lat as x/y in arbitrary units.
			doc, err = deps.Geometry.PreviewPlanar(c.Context(), lon, lat, radius, points)
		} else {
			doc, err = deps.Geometry.Preview(c.Context(), lat, geodesy.NormalizeLon(lon), radius, points)
		}
		if err != nil {
			return polygonError(c, err)
		}

		c.Set("Content-Type", "application/geo+json")
		return c.Send(doc)
	}
}

// BatchPolygonsHandler returns polygons for several slugs in one request.
// Missing or failing slugs are reported alongside the successes.
func BatchPolygonsHandler(deps *Dependencies) fiber.Handler {
	type batchEntry struct {
		Slug    string      `json:"slug"`
		Polygon interface{} `json:"polygon,omitempty"`
		Error   string      `json:"error,omitempty"`
	}

	return func(c *fiber.Ctx) error {
		raw := c.Query("slugs")
		if raw == "" {
			return errBadRequest(c, "slugs query parameter is required")
		}
		slugs := strings.Split(raw, ",")
		if len(slugs) > 50 {
			return errBadRequest(c, "at most 50 slugs per request")
		}

		results := make([]batchEntry, 0, len(slugs))
		for _, slug := range slugs {
			slug = strings.TrimSpace(slug)
			if slug == "" {
				continue
			}
			doc, err := deps.Geometry.GetPolygon(c.Context(), slug)
			if err != nil {
				results = append(results, batchEntry{Slug: slug, Error: err.Error()})
				continue
			}
			results = append(results, batchEntry{Slug: slug, Polygon: json.RawMessage(doc)})
		}

		return c.JSON(fiber.Map{"results": results})
	}
}

// RecomputeHandler enqueues a recompute job. An empty body or empty slug
// requests a full catalog refresh.
func RecomputeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.RecomputeRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid request body")
			}
		}
		if req.Reason == "" {
			req.Reason = "api"
		}

		if err := deps.Realtime.RequestRecompute(c.Context(), &req); err != nil {
			return errInternal(c, err.Error())
		}
		return c.Status(202).JSON(fiber.Map{
			"status": "queued",
			"slug":   req.Slug,
		})
	}
}

// polygonError maps pipeline failures onto HTTP statuses: validation errors
// are the client's fault, missing locations are 404, the rest is 500.
func polygonError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, geodesy.ErrInvalidRadius),
		errors.Is(err, geodesy.ErrInvalidPointCount),
		errors.Is(err, geodesy.ErrDegenerateCrossing):
		return errUnprocessable(c, err.Error())
	case errors.Is(err, postgres.ErrNotFound):
		return errNotFound(c, "location not found")
	default:
		return errInternal(c, err.Error())
	}
}
