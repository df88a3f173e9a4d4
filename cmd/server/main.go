package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trip-route-planner/internal/adapters/cache"
	"trip-route-planner/internal/adapters/fake"
	"trip-route-planner/internal/adapters/google"
	"trip-route-planner/internal/adapters/polyline"
	"trip-route-planner/internal/api"
	"trip-route-planner/internal/config"
	"trip-route-planner/internal/platform/db"
	"trip-route-planner/internal/platform/obs"
	"trip-route-planner/internal/ports"
	"trip-route-planner/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (Google Maps, SQL place cache) behind ports and
// starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := obs.NewLogger(cfg.AppEnv, "trip-route-planner")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx := context.Background()

	conn, placeCache, err := openPlaceCache(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open place cache", zap.Error(err))
	}
	defer conn.Close()

	// Seeding is best effort; a missing file only means a cold cache.
	if n, err := cache.SeedFromJSON(ctx, placeCache, cfg.SeedPath); err != nil {
		log.Warn("place cache not seeded", zap.String("path", cfg.SeedPath), zap.Error(err))
	} else {
		log.Info("place cache seeded", zap.Int("places", n))
	}

	backends, err := newBackends(cfg, placeCache, log)
	if err != nil {
		log.Fatal("failed to create map clients", zap.Error(err))
	}

	store, err := session.NewStore(backends, cfg.Flow, log.Named("session"))
	if err != nil {
		log.Fatal("failed to create session store", zap.Error(err))
	}
	defer store.Close()

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(store, log.Named("http"))

	// Write timeout covers a location fetch plus a directions round trip.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Flow.LocationTimeout + 2*cfg.Maps.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("maps_provider", cfg.Maps.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// openPlaceCache uses Postgres when DATABASE_URL is set and a local SQLite
// file otherwise.
func openPlaceCache(ctx context.Context, cfg *config.Config) (*sql.DB, ports.PlaceCache, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return conn, cache.NewSQLPlaceCache(conn), nil
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cache.InitSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, cache.NewSqlitePlaceCache(conn), nil
}

func newBackends(cfg *config.Config, placeCache ports.PlaceCache, log *zap.Logger) (session.Backends, error) {
	b := session.Backends{Decoder: polyline.NewDecoder()}

	var geocoder ports.Geocoder
	switch cfg.Maps.Provider {
	case "fake":
		seeds, err := cache.LoadSeeds(cfg.SeedPath)
		if err != nil {
			return b, fmt.Errorf("fake maps: %w", err)
		}
		places := make([]fake.Place, 0, len(seeds))
		for _, s := range seeds {
			places = append(places, fake.Place{
				Reference:   s.Reference,
				Description: s.Description,
				Coordinate:  s.Coordinate(),
			})
		}
		maps := fake.NewMaps(places)
		geocoder, b.Directions, b.Autocompleter = maps, maps, maps

	default:
		g, err := google.NewGeocoder(cfg.Maps)
		if err != nil {
			return b, err
		}
		d, err := google.NewDirections(cfg.Maps)
		if err != nil {
			return b, err
		}
		a, err := google.NewAutocompleter(cfg.Maps)
		if err != nil {
			return b, err
		}
		geocoder, b.Directions, b.Autocompleter = g, d, a
	}

	cached, err := cache.NewCachingGeocoder(geocoder, placeCache, log.Named("geocode"))
	if err != nil {
		return b, err
	}
	b.Geocoder = cached
	return b, nil
}
