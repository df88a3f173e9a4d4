package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/ports"
)

// DeviceReport is what the map client tells us about its device. Nil
// fields leave the previous value in place.
type DeviceReport struct {
	Permission    *ports.PermissionStatus
	Fix           *domain.Coordinate
	LocationError *string
}

// Device answers permission prompts and location requests from the last
// report of the client. An unanswered prompt counts as denied; a location
// request without a fix waits for the next report.
type Device struct {
	mu         sync.Mutex
	permission ports.PermissionStatus
	fix        *domain.Coordinate
	locErr     string
	updated    chan struct{}
}

func NewDevice() *Device {
	return &Device{updated: make(chan struct{})}
}

// Report applies r and wakes pending location requests.
func (d *Device) Report(r DeviceReport) error {
	if r.Permission != nil {
		switch *r.Permission {
		case ports.PermissionGranted, ports.PermissionDenied:
		default:
			return fmt.Errorf("device report: unknown permission %q", *r.Permission)
		}
	}
	if r.Fix != nil {
		if r.Fix.Latitude < -90 || r.Fix.Latitude > 90 || r.Fix.Longitude < -180 || r.Fix.Longitude > 180 {
			return fmt.Errorf("device report: fix %s out of range", r.Fix)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if r.Permission != nil {
		d.permission = *r.Permission
	}
	if r.Fix != nil {
		c := *r.Fix
		d.fix = &c
		d.locErr = ""
	}
	if r.LocationError != nil {
		d.locErr = *r.LocationError
		if d.locErr != "" {
			d.fix = nil
		}
	}

	close(d.updated)
	d.updated = make(chan struct{})
	return nil
}

func (d *Device) RequestPermission(ctx context.Context) (ports.PermissionStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.permission == "" {
		return ports.PermissionDenied, nil
	}
	return d.permission, nil
}

func (d *Device) CurrentLocation(ctx context.Context) (domain.Coordinate, error) {
	for {
		d.mu.Lock()
		fix, locErr, updated := d.fix, d.locErr, d.updated
		d.mu.Unlock()

		if locErr != "" {
			return domain.Coordinate{}, errors.New(locErr)
		}
		if fix != nil {
			return *fix, nil
		}

		select {
		case <-updated:
		case <-ctx.Done():
			return domain.Coordinate{}, ctx.Err()
		}
	}
}

// State returns the reported permission and fix.
func (d *Device) State() (ports.PermissionStatus, *domain.Coordinate) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fix == nil {
		return d.permission, nil
	}
	c := *d.fix
	return d.permission, &c
}
