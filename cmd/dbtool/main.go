package main

import (
	"context"
	"fmt"
	"os"

	"trip-route-planner/internal/adapters/cache"
	"trip-route-planner/internal/config"
	"trip-route-planner/internal/platform/db"
	"trip-route-planner/internal/platform/obs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// dbtool prepares a shared Postgres place cache: it creates the schema and
// loads the seed places.
func main() {
	_ = godotenv.Load()

	log, err := obs.NewLogger(config.Get("APP_ENV", "development"), "dbtool")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer conn.Close()

	ctx := context.Background()

	log.Info("initializing database schema")
	if err := cache.InitSchema(ctx, conn); err != nil {
		log.Fatal("schema initialization failed", zap.Error(err))
	}

	seedPath := config.Get("SEED_PATH", "data/seeds/places.json")
	log.Info("seeding place cache", zap.String("path", seedPath))
	n, err := cache.SeedFromJSON(ctx, cache.NewSQLPlaceCache(conn), seedPath)
	if err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("seeding complete", zap.Int("places", n))
}
