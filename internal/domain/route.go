package domain

import "time"

// Route is the ordered sequence of coordinates decoded from a directions response.
// It is regenerated wholesale on every directions request.
type Route []Coordinate

// CameraTarget is an imperative camera move on the map view.
type CameraTarget struct {
	Center   Coordinate
	Zoom     float64
	Duration time.Duration
}

// Camera parameters used when recentering on a place or on the device location.
const (
	RecenterZoom     = 15
	RecenterDuration = 2 * time.Second
)
