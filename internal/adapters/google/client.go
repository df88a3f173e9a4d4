// Package google adapts the Google Maps web services (Geocoding, Directions,
// Places Autocomplete) to the trip planner's ports.
package google

import (
	"errors"
	"fmt"
	"net/http"

	"trip-route-planner/internal/config"

	"googlemaps.github.io/maps"
)

func newMapsClient(cfg config.Maps) (*maps.Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("maps api key is empty")
	}

	session := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: newRetryTransport(http.DefaultTransport, cfg.MaxAttempts),
	}

	opts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(session),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}

	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return c, nil
}
