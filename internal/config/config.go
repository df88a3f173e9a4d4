package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Maps is the explicit configuration handed to every Google Maps client.
type Maps struct {
	// Provider is "google" or "fake"; fake serves the seeded places offline.
	Provider    string
	APIKey      string
	BaseURL     string
	Language    string
	Country     string
	MaxAttempts int
	Timeout     time.Duration
}

// Flow tunes the selection workflow.
type Flow struct {
	LocationTimeout   time.Duration
	Debounce          time.Duration
	SupersedeInFlight bool
}

type Config struct {
	Port        string
	AppEnv      string
	DatabaseURL string
	DBPath      string
	SeedPath    string
	Maps        Maps
	Flow        Flow
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Info("no .env file found (using environment variables)")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_PATH", "data/app.db")
	v.SetDefault("SEED_PATH", "data/seeds/places.json")
	v.SetDefault("MAPS_PROVIDER", "google")
	v.SetDefault("MAPS_BASE_URL", "https://maps.googleapis.com")
	v.SetDefault("MAPS_LANGUAGE", "en")
	v.SetDefault("MAPS_COUNTRY", "gh")
	v.SetDefault("HTTP_MAX_ATTEMPTS", 1)
	v.SetDefault("HTTP_TIMEOUT", 10*time.Second)
	v.SetDefault("LOCATION_TIMEOUT", 7*time.Second)
	v.SetDefault("SEARCH_DEBOUNCE", 600*time.Millisecond)
	v.SetDefault("SUPERSEDE_IN_FLIGHT", true)

	cfg := &Config{
		Port:        v.GetString("PORT"),
		AppEnv:      v.GetString("APP_ENV"),
		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		DBPath:      v.GetString("DB_PATH"),
		SeedPath:    v.GetString("SEED_PATH"),
		Maps: Maps{
			Provider:    strings.ToLower(strings.TrimSpace(v.GetString("MAPS_PROVIDER"))),
			APIKey:      strings.TrimSpace(v.GetString("MAPS_API_KEY")),
			BaseURL:     v.GetString("MAPS_BASE_URL"),
			Language:    v.GetString("MAPS_LANGUAGE"),
			Country:     v.GetString("MAPS_COUNTRY"),
			MaxAttempts: v.GetInt("HTTP_MAX_ATTEMPTS"),
			Timeout:     v.GetDuration("HTTP_TIMEOUT"),
		},
		Flow: Flow{
			LocationTimeout:   v.GetDuration("LOCATION_TIMEOUT"),
			Debounce:          v.GetDuration("SEARCH_DEBOUNCE"),
			SupersedeInFlight: v.GetBool("SUPERSEDE_IN_FLIGHT"),
		},
	}

	switch cfg.Maps.Provider {
	case "google", "fake":
	default:
		return nil, fmt.Errorf("config: unknown MAPS_PROVIDER %q", cfg.Maps.Provider)
	}

	if cfg.Maps.MaxAttempts < 1 {
		cfg.Maps.MaxAttempts = 1
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
