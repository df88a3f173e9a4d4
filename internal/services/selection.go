package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/platform/obs"
	"trip-route-planner/internal/ports"

	"go.uber.org/zap"
)

// selection is the state and behaviour shared by the origin and
// destination flows: a region picked by device location, map gestures or
// place search.
type selection struct {
	deps    Deps
	camera  *cameraDriver
	log     *zap.Logger
	timeout time.Duration
	fetches *inflight

	mu      sync.Mutex
	region  *domain.Region
	loading int
	// zoom extent used when a place is chosen before any region exists
	seed domain.Region
}

func newSelection(deps Deps, camera *cameraDriver, log *zap.Logger, timeout time.Duration, supersede bool) *selection {
	return &selection{
		deps:    deps,
		camera:  camera,
		log:     log,
		timeout: timeout,
		fetches: newInflight(supersede),
		seed:    domain.NewRegion(domain.Coordinate{}),
	}
}

// Region returns a copy of the current region, if any.
func (s *selection) Region() (domain.Region, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.region == nil {
		return domain.Region{}, false
	}
	return *s.region, true
}

// IsLoading reports whether a location fetch is in progress.
func (s *selection) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// OnRegionChange replaces the region verbatim.
func (s *selection) OnRegionChange(r domain.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.region = &r
}

// locate runs the permission prompt followed by a bounded location fetch
// and centers the region on the fix with the default zoom extent.
func (s *selection) locate(ctx context.Context) (err error) {
	defer obs.Time(ctx, "selection.locate")(&err)

	ctx, n, done := s.fetches.begin(ctx, kindLocation)
	defer done()

	status, err := s.deps.Permissions.RequestPermission(ctx)
	if !s.fetches.current(kindLocation, n) {
		return ErrSuperseded
	}
	if err != nil {
		return s.fail(ctx, fmt.Errorf("locate: request permission: %w: %w", domain.ErrPermissionDenied, err))
	}
	if status != ports.PermissionGranted {
		return s.fail(ctx, fmt.Errorf("locate: %w", domain.ErrPermissionDenied))
	}

	s.mu.Lock()
	s.loading++
	s.mu.Unlock()

	c, err := s.currentLocation(ctx)

	s.mu.Lock()
	s.loading--
	if !s.fetches.current(kindLocation, n) {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		s.mu.Unlock()
		return s.fail(ctx, fmt.Errorf("locate: %w", err))
	}
	r := domain.NewRegion(c)
	s.region = &r
	s.mu.Unlock()

	s.log.Debug("located", zap.Stringer("coords", c))
	return nil
}

type locationFix struct {
	coords domain.Coordinate
	err    error
}

// currentLocation asks the device for a fix within the fetch timeout.
// Providers that ignore ctx are abandoned once the deadline passes.
func (s *selection) currentLocation(ctx context.Context) (domain.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ch := make(chan locationFix, 1)
	go func() {
		c, err := s.deps.Location.CurrentLocation(ctx)
		ch <- locationFix{coords: c, err: err}
	}()

	var fix locationFix
	select {
	case fix = <-ch:
	case <-ctx.Done():
		fix.err = ctx.Err()
	}

	switch {
	case fix.err == nil:
		return fix.coords, nil
	case errors.Is(fix.err, context.DeadlineExceeded):
		return domain.Coordinate{}, fmt.Errorf("current location: %w: %w", domain.ErrLocationTimeout, fix.err)
	default:
		return domain.Coordinate{}, fmt.Errorf("current location: %w: %w", domain.ErrLocationUnavailable, fix.err)
	}
}

// placeChosen geocodes reference and moves the region there, keeping the
// zoom extent, then flies the camera to it.
func (s *selection) placeChosen(ctx context.Context, reference string) (err error) {
	defer obs.Time(ctx, "selection.placeChosen")(&err)

	ctx, n, done := s.fetches.begin(ctx, kindGeocode)
	defer done()

	c, err := s.deps.Geocoder.Resolve(ctx, reference)

	s.mu.Lock()
	if !s.fetches.current(kindGeocode, n) {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		s.mu.Unlock()
		return s.fail(ctx, fmt.Errorf("place chosen %q: %w: %w", reference, domain.ErrGeocodeFailure, err))
	}
	s.moveToLocked(c)
	s.mu.Unlock()

	s.camera.animate(ctx, domain.CameraTarget{
		Center:   c,
		Zoom:     domain.RecenterZoom,
		Duration: domain.RecenterDuration,
	})
	return nil
}

// moveToLocked centers the region on c. Callers hold s.mu.
func (s *selection) moveToLocked(c domain.Coordinate) {
	base := s.seed
	if s.region != nil {
		base = *s.region
	}
	r := base.Recenter(c)
	s.region = &r
}

// recenter fetches the device location and animates the camera to it
// without touching the region. Nothing is animated while no map is shown.
func (s *selection) recenter(ctx context.Context) (err error) {
	defer obs.Time(ctx, "selection.recenter")(&err)

	ctx, n, done := s.fetches.begin(ctx, kindRecenter)
	defer done()

	c, err := s.currentLocation(ctx)

	s.mu.Lock()
	current := s.fetches.current(kindRecenter, n)
	shown := s.region != nil
	s.mu.Unlock()

	if !current {
		return ErrSuperseded
	}
	if err != nil {
		return s.fail(ctx, fmt.Errorf("recenter: %w", err))
	}
	if !shown {
		return nil
	}

	s.camera.animate(ctx, domain.CameraTarget{
		Center:   c,
		Zoom:     domain.RecenterZoom,
		Duration: domain.RecenterDuration,
	})
	return nil
}

// fail raises the alert mapped to err and returns err unchanged.
func (s *selection) fail(ctx context.Context, err error) error {
	if a, ok := domain.AlertFor(err); ok {
		s.deps.Alerter.Alert(context.WithoutCancel(ctx), a)
	}
	s.log.Info("operation failed", zap.String("req_id", obs.RequestID(ctx)), zap.Error(err))
	return err
}

func (s *selection) close() {
	s.fetches.close()
}
