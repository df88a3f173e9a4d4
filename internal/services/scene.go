package services

import "trip-route-planner/internal/domain"

type Screen string

const (
	ScreenOrigin      Screen = "origin"
	ScreenDestination Screen = "destination"
)

type MarkerRole string

const (
	RoleOrigin      MarkerRole = "origin"
	RoleDestination MarkerRole = "destination"
)

type Marker struct {
	Role       MarkerRole
	Coordinate domain.Coordinate
}

// Scene is what the active screen renders. It is derived from flow state
// and never stored.
type Scene struct {
	Screen   Screen
	Region   *domain.Region
	Markers  []Marker
	Polyline domain.Route
	// Loading shows a spinner in place of the flow's own marker.
	Loading bool
}

// TripPreview is published after every successful route fetch.
type TripPreview struct {
	Origin      domain.Coordinate
	Destination domain.Coordinate
	Route       domain.Route
}
