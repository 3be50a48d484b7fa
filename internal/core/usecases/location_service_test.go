package usecases_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/samirrijal/geoseam/internal/core/domain"
	"github.com/samirrijal/geoseam/internal/core/usecases"
)

// --- Mock LocationRepository ---

type mockLocationRepo struct {
	findBySlugFn func(ctx context.Context, slug string) (*domain.Location, error)
	findAllFn    func(ctx context.Context, limit, offset int) ([]domain.Location, error)
	findNearbyFn func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Location, error)
	createFn     func(ctx context.Context, loc *domain.Location) error
}

func (m *mockLocationRepo) FindBySlug(ctx context.Context, slug string) (*domain.Location, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, nil
}

func (m *mockLocationRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.Location, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockLocationRepo) FindNearby(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Location, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radius, limit)
	}
	return nil, nil
}

func (m *mockLocationRepo) Create(ctx context.Context, loc *domain.Location) error {
	if m.createFn != nil {
		return m.createFn(ctx, loc)
	}
	return nil
}

func (m *mockLocationRepo) Update(ctx context.Context, loc *domain.Location) error { return nil }
func (m *mockLocationRepo) Delete(ctx context.Context, slug string) error          { return nil }
func (m *mockLocationRepo) Count(ctx context.Context) (int, error)                 { return 0, nil }

// --- Mock CacheService ---

type mockCache struct {
	getFn    func(ctx context.Context, key string) ([]byte, error)
	setFn    func(ctx context.Context, key string, value []byte, ttlSeconds int) error
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, fmt.Errorf("cache miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttlSeconds)
	}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

// --- Tests ---

func TestLocationService_FindNearby(t *testing.T) {
	repo := &mockLocationRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Location, error) {
			return []domain.Location{
				{ID: "1", Slug: "bilbao-center", Center: domain.GeoPoint{Lat: 43.263, Lon: -2.935}, RadiusMeters: 500},
				{ID: "2", Slug: "getxo-port", Center: domain.GeoPoint{Lat: 43.345, Lon: -3.015}, RadiusMeters: 800},
			}, nil
		},
	}

	svc := usecases.NewLocationService(repo, nil)

	locs, err := svc.FindNearby(context.Background(), 43.263, -2.935, 10000, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locs))
	}
}

func TestLocationService_FindNearbyClampsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockLocationRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Location, error) {
			gotLimit = limit
			return nil, nil
		},
	}

	svc := usecases.NewLocationService(repo, nil)

	if _, err := svc.FindNearby(context.Background(), 0, 0, 100, 9999); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 50 {
		t.Errorf("expected limit clamped to 50, got %d", gotLimit)
	}
}

func TestLocationService_GetBySlugUsesCache(t *testing.T) {
	repoCalled := false
	repo := &mockLocationRepo{
		findBySlugFn: func(ctx context.Context, slug string) (*domain.Location, error) {
			repoCalled = true
			return nil, fmt.Errorf("should not reach the repository")
		},
	}
	cache := &mockCache{
		getFn: func(ctx context.Context, key string) ([]byte, error) {
			if key != "geo:location:chukotka-east" {
				t.Errorf("unexpected cache key %q", key)
			}
			return []byte(`{"id":"7","slug":"chukotka-east"}`), nil
		},
	}

	svc := usecases.NewLocationService(repo, cache)

	loc, err := svc.GetBySlug(context.Background(), "chukotka-east")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repoCalled {
		t.Error("expected cached result to bypass the repository")
	}
	if loc.ID != "7" {
		t.Errorf("expected cached location, got %+v", loc)
	}
}

func TestLocationService_CreateValidation(t *testing.T) {
	svc := usecases.NewLocationService(&mockLocationRepo{}, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		loc  domain.Location
	}{
		{"empty slug", domain.Location{RadiusMeters: 100}},
		{"zero radius", domain.Location{Slug: "x", RadiusMeters: 0}},
		{"latitude out of range", domain.Location{Slug: "x", RadiusMeters: 100, Center: domain.GeoPoint{Lat: 91}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loc := tc.loc
			if err := svc.Create(ctx, &loc); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
