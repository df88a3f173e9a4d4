package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"trip-route-planner/internal/adapters/polyline"
	"trip-route-planner/internal/config"
	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/ports"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	accra  = domain.Coordinate{Latitude: 5.6037, Longitude: -0.187}
	kumasi = domain.Coordinate{Latitude: 6.6885, Longitude: -1.6244}
	tema   = domain.Coordinate{Latitude: 5.6698, Longitude: -0.0166}
)

type fakePermissions struct {
	mu     sync.Mutex
	status ports.PermissionStatus
	err    error
	calls  int
}

func (p *fakePermissions) RequestPermission(ctx context.Context) (ports.PermissionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.status, p.err
}

type locationAnswer struct {
	coords domain.Coordinate
	err    error
}

// fakeLocation answers from fixed values, or from a channel when gated.
// A nil gate with block=true waits for ctx.
type fakeLocation struct {
	mu     sync.Mutex
	coords domain.Coordinate
	err    error
	block  bool
	gate   chan locationAnswer
	calls  int
	// calls that have returned
	returned int
}

func (l *fakeLocation) returnedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.returned
}

func (l *fakeLocation) CurrentLocation(ctx context.Context) (domain.Coordinate, error) {
	l.mu.Lock()
	l.calls++
	gate, block, coords, err := l.gate, l.block, l.coords, l.err
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.returned++
		l.mu.Unlock()
	}()

	if gate != nil {
		select {
		case a := <-gate:
			return a.coords, a.err
		case <-ctx.Done():
			return domain.Coordinate{}, ctx.Err()
		}
	}
	if block {
		<-ctx.Done()
		return domain.Coordinate{}, ctx.Err()
	}
	return coords, err
}

// gatedGeocoder resolves each reference when its gate is released.
// References without a gate resolve from places immediately.
type gatedGeocoder struct {
	mu     sync.Mutex
	places map[string]domain.Coordinate
	gates  map[string]chan struct{}
	calls  []string
}

func newGatedGeocoder(places map[string]domain.Coordinate) *gatedGeocoder {
	return &gatedGeocoder{places: places, gates: map[string]chan struct{}{}}
}

func (g *gatedGeocoder) gate(reference string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch := make(chan struct{})
	g.gates[reference] = ch
	return ch
}

func (g *gatedGeocoder) Resolve(ctx context.Context, reference string) (domain.Coordinate, error) {
	g.mu.Lock()
	g.calls = append(g.calls, reference)
	gate := g.gates[reference]
	c, ok := g.places[reference]
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.Coordinate{}, ctx.Err()
		}
	}
	if !ok {
		return domain.Coordinate{}, errors.New("ZERO_RESULTS")
	}
	return c, nil
}

type fakeDirections struct {
	mu      sync.Mutex
	encoded string
	err     error
	calls   [][2]domain.Coordinate
}

func (d *fakeDirections) Route(ctx context.Context, origin, destination domain.Coordinate) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, [2]domain.Coordinate{origin, destination})
	return d.encoded, d.err
}

func (d *fakeDirections) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []domain.Alert
}

func (a *recordingAlerter) Alert(ctx context.Context, alert domain.Alert) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alert)
}

func (a *recordingAlerter) kinds() []domain.ErrorKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []domain.ErrorKind{}
	for _, al := range a.alerts {
		out = append(out, al.Kind)
	}
	return out
}

// recordingCamera records targets; animations end when cancelled.
type recordingCamera struct {
	mu          sync.Mutex
	targets     []domain.CameraTarget
	interrupted int
}

func (c *recordingCamera) Animate(ctx context.Context, target domain.CameraTarget) error {
	c.mu.Lock()
	c.targets = append(c.targets, target)
	c.mu.Unlock()

	<-ctx.Done()

	c.mu.Lock()
	c.interrupted++
	c.mu.Unlock()
	return ctx.Err()
}

func (c *recordingCamera) snapshot() ([]domain.CameraTarget, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.CameraTarget{}, c.targets...), c.interrupted
}

type harness struct {
	perms      *fakePermissions
	location   *fakeLocation
	geocoder   *gatedGeocoder
	directions *fakeDirections
	alerter    *recordingAlerter
	camera     *recordingCamera
	nav        *Navigator
}

func newHarness(t *testing.T, supersede bool) *harness {
	t.Helper()

	h := &harness{
		perms:    &fakePermissions{status: ports.PermissionGranted},
		location: &fakeLocation{coords: accra},
		geocoder: newGatedGeocoder(map[string]domain.Coordinate{
			"accra":  accra,
			"kumasi": kumasi,
			"tema":   tema,
		}),
		directions: &fakeDirections{encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@"},
		alerter:    &recordingAlerter{},
		camera:     &recordingCamera{},
	}

	nav, err := NewNavigator(Deps{
		Permissions: h.perms,
		Location:    h.location,
		Geocoder:    h.geocoder,
		Directions:  h.directions,
		Decoder:     polyline.NewDecoder(),
		Alerter:     h.alerter,
		Camera:      h.camera,
	}, config.Flow{
		LocationTimeout:   DefaultLocationTimeout,
		SupersedeInFlight: supersede,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(nav.Close)

	h.nav = nav
	return h
}

func testFlowConfig() config.Flow {
	return config.Flow{LocationTimeout: DefaultLocationTimeout, SupersedeInFlight: true}
}
