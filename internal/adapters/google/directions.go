package google

import (
	"context"
	"fmt"

	"trip-route-planner/internal/config"
	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/platform/obs"

	"googlemaps.github.io/maps"
)

// Directions fetches driving routes from the Directions API.
type Directions struct {
	client   *maps.Client
	language string
}

func NewDirections(cfg config.Maps) (*Directions, error) {
	c, err := newMapsClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("new directions: %w", err)
	}
	return &Directions{client: c, language: cfg.Language}, nil
}

// Route returns the encoded overview polyline of the first route.
func (d *Directions) Route(
	ctx context.Context,
	origin domain.Coordinate,
	destination domain.Coordinate,
) (_ string, err error) {
	defer obs.Time(ctx, "google.Directions")(&err)

	routes, _, err := d.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      origin.String(),
		Destination: destination.String(),
		Mode:        maps.TravelModeDriving,
		Language:    d.language,
	})
	if err != nil {
		return "", fmt.Errorf("directions %s -> %s: %w", origin, destination, err)
	}

	if len(routes) == 0 {
		return "", fmt.Errorf("no route found %s -> %s", origin, destination)
	}

	return routes[0].OverviewPolyline.Points, nil
}
