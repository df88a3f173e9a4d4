// Package fake provides deterministic in-memory stand-ins for the Google
// Maps adapters. cmd/server uses them when MAPS_PROVIDER=fake.
package fake

import (
	"context"
	"fmt"
	"strings"

	"trip-route-planner/internal/domain"

	gopolyline "github.com/twpayne/go-polyline"
)

type Place struct {
	Reference   string
	Description string
	Coordinate  domain.Coordinate
}

// Maps answers autocomplete, geocode and directions requests from a fixed
// list of places. Routes are straight two-point polylines.
type Maps struct {
	places []Place
	byRef  map[string]domain.Coordinate
}

func NewMaps(places []Place) *Maps {
	m := make(map[string]domain.Coordinate, len(places))
	for _, p := range places {
		m[p.Reference] = p.Coordinate
	}
	return &Maps{places: places, byRef: m}
}

func (m *Maps) Resolve(ctx context.Context, reference string) (domain.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinate{}, err
	}

	c, ok := m.byRef[reference]
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("unknown place %q", reference)
	}
	return c, nil
}

// Suggest returns places whose description contains input, in list order.
func (m *Maps) Suggest(ctx context.Context, input string) ([]domain.PlaceSuggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(input))
	out := []domain.PlaceSuggestion{}
	if needle == "" {
		return out, nil
	}

	for _, p := range m.places {
		if strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, domain.PlaceSuggestion{Description: p.Description, Reference: p.Reference})
		}
	}
	return out, nil
}

func (m *Maps) Route(ctx context.Context, origin, destination domain.Coordinate) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	encoded := gopolyline.EncodeCoords([][]float64{
		{origin.Latitude, origin.Longitude},
		{destination.Latitude, destination.Longitude},
	})
	return string(encoded), nil
}
