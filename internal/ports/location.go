package ports

import (
	"context"

	"trip-route-planner/internal/domain"
)

// PermissionStatus is the answer to a location permission prompt.
type PermissionStatus string

const (
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
)

// Contract for prompting the user for location permission.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) (PermissionStatus, error)
}

// Contract for reading the current device position.
// The fetch deadline is carried by ctx.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (domain.Coordinate, error)
}
