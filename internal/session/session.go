// Package session binds one navigator, its search group and the client's
// device, alert and camera state together for a single map client.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"trip-route-planner/internal/config"
	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/ports"
	"trip-route-planner/internal/search"
	"trip-route-planner/internal/services"

	"go.uber.org/zap"
)

// Backends are the shared map service clients used by every session.
type Backends struct {
	Geocoder      ports.Geocoder
	Directions    ports.DirectionsProvider
	Decoder       ports.PolylineDecoder
	Autocompleter ports.PlaceAutocompleter
}

func (b Backends) validate() error {
	if b.Geocoder == nil || b.Directions == nil || b.Decoder == nil || b.Autocompleter == nil {
		return errors.New("session backends: missing map client")
	}
	return nil
}

type Session struct {
	ID        string
	CreatedAt time.Time

	Device    *Device
	Alerts    *AlertQueue
	Camera    *CameraRecorder
	Navigator *services.Navigator
	Search    *search.Group

	mu          sync.Mutex
	lastPreview *services.TripPreview
}

func newSession(id string, b Backends, cfg config.Flow, log *zap.Logger) (*Session, error) {
	s := &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Device:    NewDevice(),
		Alerts:    NewAlertQueue(log.Named("alerts")),
		Camera:    NewCameraRecorder(),
	}

	nav, err := services.NewNavigator(services.Deps{
		Permissions: s.Device,
		Location:    s.Device,
		Geocoder:    b.Geocoder,
		Directions:  b.Directions,
		Decoder:     b.Decoder,
		Alerter:     s.Alerts,
		Camera:      s.Camera,
	}, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	nav.OnTripPreview(s.recordPreview)

	group, err := search.NewGroup(b.Autocompleter, cfg.Debounce, map[search.Kind]search.Owner{
		search.KindOrigin:      nav.Origin(),
		search.KindDestination: search.OwnerFunc(nav.ChooseDestination),
	}, log.Named("search"))
	if err != nil {
		nav.Close()
		return nil, fmt.Errorf("new session: %w", err)
	}

	s.Navigator = nav
	s.Search = group
	return s, nil
}

func (s *Session) recordPreview(p services.TripPreview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPreview = &p
}

// Locate re-runs the permission and location sequence on the active flow.
func (s *Session) Locate(ctx context.Context) error {
	if dest, ok := s.Navigator.Destination(); ok {
		return dest.Mount(ctx)
	}
	return s.Navigator.Origin().Mount(ctx)
}

// SetRegion applies a map viewport change to the active flow.
func (s *Session) SetRegion(r domain.Region) {
	if dest, ok := s.Navigator.Destination(); ok {
		dest.OnRegionChange(r)
		return
	}
	s.Navigator.Origin().OnRegionChange(r)
}

// ChoosePlace resolves reference into the active flow's region.
func (s *Session) ChoosePlace(ctx context.Context, reference string) error {
	if dest, ok := s.Navigator.Destination(); ok {
		return dest.OnPlaceChosen(ctx, reference)
	}
	return s.Navigator.Origin().OnPlaceChosen(ctx, reference)
}

func (s *Session) Recenter(ctx context.Context) error {
	if dest, ok := s.Navigator.Destination(); ok {
		return dest.RecenterOnCurrentLocation(ctx)
	}
	return s.Navigator.Origin().RecenterOnCurrentLocation(ctx)
}

// Confirm advances from the origin screen. On the destination screen it
// requests the route to the current pin instead.
func (s *Session) Confirm(ctx context.Context) error {
	if dest, ok := s.Navigator.Destination(); ok {
		return dest.FetchRoute(ctx)
	}
	_, err := s.Navigator.Origin().ConfirmAndAdvance(ctx)
	return err
}

// ErrWrongScreen is returned for destination-only operations on the
// origin screen.
var ErrWrongScreen = errors.New("operation not available on this screen")

func (s *Session) destination() (*services.DestinationFlow, error) {
	dest, ok := s.Navigator.Destination()
	if !ok {
		return nil, ErrWrongScreen
	}
	return dest, nil
}

func (s *Session) RegionSettled(ctx context.Context) error {
	dest, err := s.destination()
	if err != nil {
		return err
	}
	return dest.OnRegionSettled(ctx)
}

func (s *Session) MapPressed(ctx context.Context, c domain.Coordinate) error {
	dest, err := s.destination()
	if err != nil {
		return err
	}
	return dest.OnMapPressed(ctx, c)
}

func (s *Session) FetchRoute(ctx context.Context) error {
	dest, err := s.destination()
	if err != nil {
		return err
	}
	return dest.FetchRoute(ctx)
}

// Snapshot is everything the client needs to render the session.
type Snapshot struct {
	ID                 string
	Screen             services.Screen
	Origin             services.OriginState
	Destination        *services.DestinationState
	DestinationParams  *services.DestinationParams
	PendingDestination *domain.Coordinate
	Scene              services.Scene
	SuggestionsKind    search.Kind
	Suggestions        []domain.PlaceSuggestion
	Alerts             []domain.Alert
	Camera             CameraState
	Permission         ports.PermissionStatus
	LastPreview        *services.TripPreview
}

func (s *Session) Snapshot() Snapshot {
	origin := s.Navigator.Origin()
	snap := Snapshot{
		ID:     s.ID,
		Screen: services.ScreenOrigin,
		Origin: origin.State(),
		Alerts: s.Alerts.Pending(),
		Camera: s.Camera.State(),
	}

	// Screen, scene and destination all come from one read of the stack.
	if dest, ok := s.Navigator.Destination(); ok {
		st := dest.State()
		snap.Screen = services.ScreenDestination
		snap.Destination = &st
		snap.DestinationParams = &services.DestinationParams{OriginCoords: st.OriginCoords}
		snap.Scene = dest.Scene()
	} else {
		snap.Scene = origin.Scene()
	}
	if c, ok := s.Navigator.PendingDestination(); ok {
		snap.PendingDestination = &c
	}

	snap.SuggestionsKind, snap.Suggestions = s.Search.Visible()
	snap.Permission, _ = s.Device.State()

	s.mu.Lock()
	if s.lastPreview != nil {
		p := *s.lastPreview
		snap.LastPreview = &p
	}
	s.mu.Unlock()

	return snap
}

func (s *Session) Close() {
	s.Search.Close()
	s.Navigator.Close()
}
