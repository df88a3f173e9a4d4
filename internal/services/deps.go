package services

import (
	"errors"
	"time"

	"trip-route-planner/internal/config"
	"trip-route-planner/internal/ports"
)

// DefaultLocationTimeout bounds a single device location fetch.
const DefaultLocationTimeout = 7 * time.Second

// Deps are the external collaborators of the selection workflow.
type Deps struct {
	Permissions ports.PermissionRequester
	Location    ports.LocationProvider
	Geocoder    ports.Geocoder
	Directions  ports.DirectionsProvider
	Decoder     ports.PolylineDecoder
	Alerter     ports.Alerter
	Camera      ports.Camera
}

func (d Deps) validate() error {
	var errs []error
	if d.Permissions == nil {
		errs = append(errs, errors.New("permission requester is nil"))
	}
	if d.Location == nil {
		errs = append(errs, errors.New("location provider is nil"))
	}
	if d.Geocoder == nil {
		errs = append(errs, errors.New("geocoder is nil"))
	}
	if d.Directions == nil {
		errs = append(errs, errors.New("directions provider is nil"))
	}
	if d.Decoder == nil {
		errs = append(errs, errors.New("polyline decoder is nil"))
	}
	if d.Alerter == nil {
		errs = append(errs, errors.New("alerter is nil"))
	}
	if d.Camera == nil {
		errs = append(errs, errors.New("camera is nil"))
	}
	return errors.Join(errs...)
}

func locationTimeout(cfg config.Flow) time.Duration {
	if cfg.LocationTimeout <= 0 {
		return DefaultLocationTimeout
	}
	return cfg.LocationTimeout
}
