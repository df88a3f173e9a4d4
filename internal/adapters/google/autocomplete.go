package google

import (
	"context"
	"fmt"
	"strings"

	"trip-route-planner/internal/config"
	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/platform/obs"

	"googlemaps.github.io/maps"
)

// Autocompleter queries Places Autocomplete, restricted to one country.
type Autocompleter struct {
	client   *maps.Client
	language string
	country  string
}

func NewAutocompleter(cfg config.Maps) (*Autocompleter, error) {
	c, err := newMapsClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("new autocompleter: %w", err)
	}
	return &Autocompleter{client: c, language: cfg.Language, country: cfg.Country}, nil
}

func (a *Autocompleter) Suggest(ctx context.Context, input string) (_ []domain.PlaceSuggestion, err error) {
	defer obs.Time(ctx, "google.PlaceAutocomplete")(&err)

	text := strings.TrimSpace(input)
	if text == "" {
		return []domain.PlaceSuggestion{}, nil
	}

	req := &maps.PlaceAutocompleteRequest{
		Input:    text,
		Language: a.language,
	}
	if a.country != "" {
		req.Components = map[maps.Component][]string{
			maps.ComponentCountry: {a.country},
		}
	}

	resp, err := a.client.PlaceAutocomplete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("autocomplete %q: %w", text, err)
	}

	out := make([]domain.PlaceSuggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, domain.PlaceSuggestion{
			Description: p.Description,
			Reference:   p.PlaceID,
		})
	}
	return out, nil
}
