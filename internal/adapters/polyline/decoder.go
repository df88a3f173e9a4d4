package polyline

import (
	"fmt"

	"trip-route-planner/internal/domain"

	gopolyline "github.com/twpayne/go-polyline"
)

// Decoder decodes Google encoded polylines (precision 1e-5).
type Decoder struct{}

func NewDecoder() Decoder { return Decoder{} }

func (Decoder) Decode(encoded string) ([]domain.Coordinate, error) {
	if encoded == "" {
		return []domain.Coordinate{}, nil
	}

	coords, rest, err := gopolyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("decode polyline: %d trailing bytes", len(rest))
	}

	out := make([]domain.Coordinate, 0, len(coords))
	for _, c := range coords {
		out = append(out, domain.Coordinate{Latitude: c[0], Longitude: c[1]})
	}
	return out, nil
}
