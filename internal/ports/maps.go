package ports

import (
	"context"

	"trip-route-planner/internal/domain"
)

// Port: resolves an opaque place reference to a coordinate.
type Geocoder interface {
	Resolve(ctx context.Context, reference string) (domain.Coordinate, error)
}

// Port: returns the encoded overview polyline of a driving route.
type DirectionsProvider interface {
	Route(ctx context.Context, origin, destination domain.Coordinate) (string, error)
}

// Port: decodes an encoded polyline into an ordered coordinate sequence.
type PolylineDecoder interface {
	Decode(encoded string) ([]domain.Coordinate, error)
}

// Port: returns place suggestions for free-text input, in relevance order.
type PlaceAutocompleter interface {
	Suggest(ctx context.Context, input string) ([]domain.PlaceSuggestion, error)
}

// Persistent reference -> coordinate store used to avoid repeated geocode calls.
type PlaceCache interface {
	Get(ctx context.Context, reference string) (domain.Coordinate, bool, error)
	Put(ctx context.Context, reference string, c domain.Coordinate) error
}
