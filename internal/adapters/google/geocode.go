package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trip-route-planner/internal/config"
	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/platform/obs"

	"googlemaps.github.io/maps"
)

// Geocoder resolves Places references (place ids) through the Geocoding API.
type Geocoder struct {
	client   *maps.Client
	language string
}

func NewGeocoder(cfg config.Maps) (*Geocoder, error) {
	c, err := newMapsClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("new geocoder: %w", err)
	}
	return &Geocoder{client: c, language: cfg.Language}, nil
}

func (g *Geocoder) Resolve(ctx context.Context, reference string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "google.Geocode")(&err)

	ref := strings.TrimSpace(reference)
	if ref == "" {
		return domain.Coordinate{}, errors.New("geocode: reference must be non-empty")
	}

	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		PlaceID:  ref,
		Language: g.language,
	})
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %w", ref, err)
	}

	if len(results) == 0 {
		return domain.Coordinate{}, fmt.Errorf("no geocode results for %q", ref)
	}

	loc := results[0].Geometry.Location
	return domain.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
