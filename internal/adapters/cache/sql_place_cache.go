package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/platform/obs"
)

// SQLPlaceCache is a Postgres-backed cache mapping place references to coordinates.
type SQLPlaceCache struct {
	DB *sql.DB
}

func NewSQLPlaceCache(db *sql.DB) *SQLPlaceCache {
	return &SQLPlaceCache{DB: db}
}

// Get returns the cached coordinate for reference, if any.
func (s *SQLPlaceCache) Get(
	ctx context.Context,
	reference string,
) (_ domain.Coordinate, _ bool, err error) {
	defer obs.Time(ctx, "place.cache.Get")(&err)

	if s.DB == nil {
		return domain.Coordinate{}, false, errors.New("place cache: db is nil")
	}

	ref := strings.TrimSpace(reference)
	if ref == "" {
		return domain.Coordinate{}, false, nil
	}

	q := `
	SELECT lat, lon
    FROM place_cache
    WHERE reference = $1;
	`

	var c domain.Coordinate
	err = s.DB.QueryRowContext(ctx, q, ref).Scan(&c.Latitude, &c.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}

	return c, true, nil
}

// Put stores a reference -> coordinate mapping, replacing any previous one.
func (s *SQLPlaceCache) Put(ctx context.Context, reference string, c domain.Coordinate) (err error) {
	defer obs.Time(ctx, "place.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}

	ref := strings.TrimSpace(reference)
	if ref == "" {
		return fmt.Errorf("insert place cache: empty reference key")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO place_cache (reference, lat, lon)
    VALUES ($1, $2, $3)
	ON CONFLICT (reference) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`, ref, c.Latitude, c.Longitude)
	if err != nil {
		return fmt.Errorf("insert place cache reference=%q: %w", ref, err)
	}

	return nil
}
