package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"trip-route-planner/internal/config"
	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/platform/obs"

	"go.uber.org/zap"
)

// ErrDestinationOpen is returned when advancing while the destination
// screen is already on the stack.
var ErrDestinationOpen = errors.New("destination screen already open")

// Navigator is the two-screen stack: origin first, destination pushed on
// confirmation. Popping the destination discards it; the origin keeps its
// state for the lifetime of the navigator.
type Navigator struct {
	deps    Deps
	cfg     config.Flow
	log     *zap.Logger
	camera  *cameraDriver
	pending *inflight

	origin *OriginFlow

	mu          sync.Mutex
	destination *DestinationFlow
	params      *DestinationParams
	// destination picked from the origin screen, applied on the next push
	pendingDestination *domain.Coordinate
	listeners          []func(TripPreview)
}

func NewNavigator(deps Deps, cfg config.Flow, log *zap.Logger) (*Navigator, error) {
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("new navigator: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	n := &Navigator{
		deps:    deps,
		cfg:     cfg,
		log:     log,
		camera:  newCameraDriver(deps.Camera, log.Named("camera")),
		pending: newInflight(cfg.SupersedeInFlight),
	}
	n.origin = &OriginFlow{
		selection: n.newSelection("origin"),
		advance:   n.push,
	}
	return n, nil
}

func (n *Navigator) newSelection(name string) *selection {
	return newSelection(n.deps, n.camera, n.log.Named(name), locationTimeout(n.cfg), n.cfg.SupersedeInFlight)
}

// Start mounts the origin screen.
func (n *Navigator) Start(ctx context.Context) error {
	return n.origin.Mount(ctx)
}

func (n *Navigator) Origin() *OriginFlow {
	return n.origin
}

// Destination returns the destination flow while its screen is on the stack.
func (n *Navigator) Destination() (*DestinationFlow, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.destination, n.destination != nil
}

func (n *Navigator) Screen() Screen {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.destination != nil {
		return ScreenDestination
	}
	return ScreenOrigin
}

// DestinationParams returns the parameter the destination screen was
// pushed with.
func (n *Navigator) DestinationParams() (DestinationParams, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.params == nil {
		return DestinationParams{}, false
	}
	return *n.params, true
}

// PendingDestination returns the destination chosen from the origin
// screen that will seed the next destination screen.
func (n *Navigator) PendingDestination() (domain.Coordinate, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.pendingDestination == nil {
		return domain.Coordinate{}, false
	}
	return *n.pendingDestination, true
}

// OnTripPreview registers fn to receive every successful route preview.
func (n *Navigator) OnTripPreview(fn func(TripPreview)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

func (n *Navigator) publish(p TripPreview) {
	n.mu.Lock()
	listeners := append([]func(TripPreview){}, n.listeners...)
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
}

// ChooseDestination handles a destination search selection. On the
// destination screen it moves the destination; on the origin screen the
// place is resolved and kept until the user advances.
func (n *Navigator) ChooseDestination(ctx context.Context, reference string) (err error) {
	if dest, ok := n.Destination(); ok {
		return dest.OnPlaceChosen(ctx, reference)
	}

	defer obs.Time(ctx, "navigator.ChooseDestination")(&err)

	ctx, seq, done := n.pending.begin(ctx, kindGeocode)
	defer done()

	c, err := n.deps.Geocoder.Resolve(ctx, reference)
	if !n.pending.current(kindGeocode, seq) {
		return ErrSuperseded
	}
	if err != nil {
		err = fmt.Errorf("choose destination %q: %w: %w", reference, domain.ErrGeocodeFailure, err)
		if a, ok := domain.AlertFor(err); ok {
			n.deps.Alerter.Alert(context.WithoutCancel(ctx), a)
		}
		return err
	}

	n.mu.Lock()
	n.pendingDestination = &c
	n.mu.Unlock()

	n.log.Debug("pending destination set", zap.String("reference", reference), zap.Stringer("coords", c))
	return nil
}

// push puts a fresh destination screen on the stack, refusing while one is
// already open. The origin region's zoom extent seeds the destination's; a
// pending destination replaces the device location lookup.
func (n *Navigator) push(ctx context.Context, params DestinationParams, originRegion domain.Region) error {
	sel := n.newSelection("destination")
	sel.seed = domain.Region{
		LatitudeDelta:  originRegion.LatitudeDelta,
		LongitudeDelta: originRegion.LongitudeDelta,
	}

	dest := &DestinationFlow{
		selection: sel,
		origin:    params.OriginCoords,
		onRoute:   n.publish,
	}

	n.mu.Lock()
	if n.destination != nil {
		n.mu.Unlock()
		return ErrDestinationOpen
	}
	n.destination = dest
	n.params = &params
	pending := n.pendingDestination
	n.pendingDestination = nil
	n.mu.Unlock()

	n.log.Info("navigated", zap.String("screen", string(ScreenDestination)), zap.Stringer("origin", params.OriginCoords))

	if pending == nil {
		return dest.Mount(ctx)
	}

	dest.mu.Lock()
	dest.moveToLocked(*pending)
	dest.mu.Unlock()

	if err := dest.FetchRoute(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return err
	}
	return nil
}

// Back pops the destination screen. It reports false on the origin screen.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	dest := n.destination
	n.destination = nil
	n.params = nil
	n.mu.Unlock()

	if dest == nil {
		return false
	}
	dest.close()
	n.log.Info("navigated", zap.String("screen", string(ScreenOrigin)))
	return true
}

// Scene projects the active screen.
func (n *Navigator) Scene() Scene {
	if dest, ok := n.Destination(); ok {
		return dest.Scene()
	}
	return n.origin.Scene()
}

// Close cancels every outstanding fetch and animation.
func (n *Navigator) Close() {
	n.origin.close()
	n.pending.close()

	n.mu.Lock()
	dest := n.destination
	n.mu.Unlock()
	if dest != nil {
		dest.close()
	}

	n.camera.stop()
}
