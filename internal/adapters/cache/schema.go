package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/ports"
)

// InitSchema creates the place cache table. The DDL is valid on both
// Postgres and SQLite.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlaceCacheQuery := `
	CREATE TABLE IF NOT EXISTS place_cache (
        reference TEXT PRIMARY KEY,
        lat DOUBLE PRECISION NOT NULL,
        lon DOUBLE PRECISION NOT NULL
    );
	`

	statements := []string{
		createPlaceCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PlaceSeed struct {
	Reference   string  `json:"reference"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// LoadSeeds reads and validates a JSON file of known places.
func LoadSeeds(jsonPath string) ([]PlaceSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load seeds: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load seeds: parse json: %w", err)
	}

	rows := make([]PlaceSeed, 0, len(data))
	for i, item := range data {
		ref := strings.TrimSpace(item.Reference)
		if ref == "" {
			return nil, fmt.Errorf("load seeds: item at index %d: reference cannot be empty", i+1)
		}
		if item.Latitude < -90 || item.Latitude > 90 || item.Longitude < -180 || item.Longitude > 180 {
			return nil, fmt.Errorf("load seeds: item %q: coordinate out of range", ref)
		}
		item.Reference = ref
		rows = append(rows, item)
	}
	return rows, nil
}

func (p PlaceSeed) Coordinate() domain.Coordinate {
	return domain.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// SeedFromJSON pre-populates a place cache from a JSON file of known places.
// It returns the number of places written.
func SeedFromJSON(ctx context.Context, cache ports.PlaceCache, jsonPath string) (int, error) {
	rows, err := LoadSeeds(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed places: %w", err)
	}

	for _, p := range rows {
		if err := cache.Put(ctx, p.Reference, p.Coordinate()); err != nil {
			return 0, fmt.Errorf("seed places: %w", err)
		}
	}

	return len(rows), nil
}
