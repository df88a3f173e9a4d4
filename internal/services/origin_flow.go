package services

import (
	"context"
	"errors"

	"trip-route-planner/internal/domain"
)

// OriginState is a snapshot of the origin selection.
type OriginState struct {
	Region    *domain.Region
	IsLoading bool
}

// OriginFlow lets the user establish the trip origin.
type OriginFlow struct {
	*selection
	advance func(ctx context.Context, params DestinationParams, region domain.Region) error
}

// Mount locates the device and centers the origin on it. Failures leave
// the region absent and are alerted; the flow stays usable.
func (f *OriginFlow) Mount(ctx context.Context) error {
	return f.locate(ctx)
}

// OnPlaceChosen moves the origin to the geocoded place.
func (f *OriginFlow) OnPlaceChosen(ctx context.Context, reference string) error {
	return f.placeChosen(ctx, reference)
}

// RecenterOnCurrentLocation flies the camera to the device location.
func (f *OriginFlow) RecenterOnCurrentLocation(ctx context.Context) error {
	return f.recenter(ctx)
}

// ConfirmAndAdvance navigates to the destination screen carrying the
// origin coordinate. It reports false and does nothing without a region or
// while the destination screen is already open.
func (f *OriginFlow) ConfirmAndAdvance(ctx context.Context) (bool, error) {
	r, ok := f.Region()
	if !ok {
		return false, nil
	}

	origin := r.Coordinate
	err := f.advance(ctx, DestinationParams{OriginCoords: &origin}, r)
	if errors.Is(err, ErrDestinationOpen) {
		return false, err
	}
	return true, err
}

func (f *OriginFlow) State() OriginState {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := OriginState{IsLoading: f.loading > 0}
	if f.region != nil {
		r := *f.region
		st.Region = &r
	}
	return st
}

func (f *OriginFlow) Scene() Scene {
	st := f.State()

	sc := Scene{Screen: ScreenOrigin, Region: st.Region, Loading: st.IsLoading, Markers: []Marker{}}
	if st.Region != nil && !st.IsLoading {
		sc.Markers = append(sc.Markers, Marker{Role: RoleOrigin, Coordinate: st.Region.Coordinate})
	}
	return sc
}
