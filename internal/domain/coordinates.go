package domain

import "strconv"

// Immutable geographic coordinate (latitude, longitude).
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Return the coordinate as "lat,lng" for external API compatibility.
// Values keep their full precision.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// Region describes a visible map viewport: a center plus zoom extent.
type Region struct {
	Coordinate
	LatitudeDelta  float64
	LongitudeDelta float64
}

// Default zoom extent applied to a freshly located region.
const (
	DefaultLatitudeDelta  = 0.05
	DefaultLongitudeDelta = 0.05
)

// NewRegion centers a region on c with the default deltas.
func NewRegion(c Coordinate) Region {
	return Region{
		Coordinate:     c,
		LatitudeDelta:  DefaultLatitudeDelta,
		LongitudeDelta: DefaultLongitudeDelta,
	}
}

// Recenter returns a copy of r moved to c, keeping the zoom extent.
func (r Region) Recenter(c Coordinate) Region {
	r.Coordinate = c
	return r
}
