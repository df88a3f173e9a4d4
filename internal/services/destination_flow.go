package services

import (
	"context"
	"fmt"

	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/platform/obs"
)

// DestinationParams is the navigation parameter of the destination screen.
type DestinationParams struct {
	OriginCoords *domain.Coordinate
}

// DestinationState is a snapshot of the destination selection.
type DestinationState struct {
	Region       *domain.Region
	IsLoading    bool
	OriginCoords *domain.Coordinate
	Route        domain.Route
}

// DestinationFlow lets the user pick a destination and previews the
// driving route to it from the origin.
type DestinationFlow struct {
	*selection
	origin  *domain.Coordinate
	onRoute func(TripPreview)
	// guarded by selection.mu; nil until the first route arrives
	route domain.Route
}

// Mount seeds the destination from the device location.
func (f *DestinationFlow) Mount(ctx context.Context) error {
	return f.locate(ctx)
}

// OnPlaceChosen moves the destination to the geocoded place.
func (f *DestinationFlow) OnPlaceChosen(ctx context.Context, reference string) error {
	return f.placeChosen(ctx, reference)
}

func (f *DestinationFlow) RecenterOnCurrentLocation(ctx context.Context) error {
	return f.recenter(ctx)
}

// OnRegionSettled fires once a map gesture finished.
func (f *DestinationFlow) OnRegionSettled(ctx context.Context) error {
	return f.FetchRoute(ctx)
}

// OnMapPressed drops the destination pin on c and fetches the route.
func (f *DestinationFlow) OnMapPressed(ctx context.Context, c domain.Coordinate) error {
	f.mu.Lock()
	f.moveToLocked(c)
	f.mu.Unlock()

	return f.FetchRoute(ctx)
}

// FetchRoute requests directions from the origin to the region center and
// replaces the route. It is a no-op until both ends are known.
func (f *DestinationFlow) FetchRoute(ctx context.Context) (err error) {
	defer obs.Time(ctx, "destination.FetchRoute")(&err)

	f.mu.Lock()
	if f.region == nil || f.origin == nil {
		f.mu.Unlock()
		return nil
	}
	origin, destination := *f.origin, f.region.Coordinate
	f.mu.Unlock()

	ctx, n, done := f.fetches.begin(ctx, kindRoute)
	defer done()

	var coords []domain.Coordinate
	encoded, err := f.deps.Directions.Route(ctx, origin, destination)
	if err == nil {
		coords, err = f.deps.Decoder.Decode(encoded)
	}

	f.mu.Lock()
	if !f.fetches.current(kindRoute, n) {
		f.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		f.mu.Unlock()
		return f.fail(ctx, fmt.Errorf("fetch route %s -> %s: %w: %w", origin, destination, domain.ErrDirectionsFailure, err))
	}
	route := domain.Route(coords)
	f.route = route
	f.mu.Unlock()

	if f.onRoute != nil {
		f.onRoute(TripPreview{
			Origin:      origin,
			Destination: destination,
			Route:       append(domain.Route(nil), route...),
		})
	}
	return nil
}

func (f *DestinationFlow) State() DestinationState {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := DestinationState{IsLoading: f.loading > 0}
	if f.region != nil {
		r := *f.region
		st.Region = &r
	}
	if f.origin != nil {
		o := *f.origin
		st.OriginCoords = &o
	}
	if f.route != nil {
		st.Route = append(domain.Route{}, f.route...)
	}
	return st
}

func (f *DestinationFlow) Scene() Scene {
	st := f.State()

	sc := Scene{
		Screen:   ScreenDestination,
		Region:   st.Region,
		Loading:  st.IsLoading,
		Markers:  []Marker{},
		Polyline: st.Route,
	}
	if st.OriginCoords != nil {
		sc.Markers = append(sc.Markers, Marker{Role: RoleOrigin, Coordinate: *st.OriginCoords})
	}
	if st.Region != nil && !st.IsLoading {
		sc.Markers = append(sc.Markers, Marker{Role: RoleDestination, Coordinate: st.Region.Coordinate})
	}
	return sc
}
