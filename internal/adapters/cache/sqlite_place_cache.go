package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-route-planner/internal/domain"
)

// SQLite backed cache mapping place references to coordinates.
// References are opaque Places ids and are stored verbatim (trimmed).
type SqlitePlaceCache struct {
	DB *sql.DB
}

func NewSqlitePlaceCache(db *sql.DB) *SqlitePlaceCache {
	return &SqlitePlaceCache{DB: db}
}

func (s *SqlitePlaceCache) Get(ctx context.Context, reference string) (domain.Coordinate, bool, error) {
	if s.DB == nil {
		return domain.Coordinate{}, false, errors.New("place cache: db is nil")
	}

	ref := strings.TrimSpace(reference)
	if ref == "" {
		return domain.Coordinate{}, false, nil
	}

	var c domain.Coordinate
	err := s.DB.QueryRowContext(ctx, `
	SELECT
        lat,
        lon
    FROM place_cache
    WHERE reference = ?;
	`, ref).Scan(&c.Latitude, &c.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}

	return c, true, nil
}

func (s *SqlitePlaceCache) Put(ctx context.Context, reference string, c domain.Coordinate) error {
	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}

	ref := strings.TrimSpace(reference)
	if ref == "" {
		return fmt.Errorf("insert place cache: empty reference key")
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO place_cache (
        reference,
        lat,
        lon
    )
    VALUES (?, ?, ?);
	`, ref, c.Latitude, c.Longitude); err != nil {
		return fmt.Errorf("insert place cache reference=%q: %w", ref, err)
	}

	return nil
}
