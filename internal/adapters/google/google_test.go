package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"trip-route-planner/internal/config"
	"trip-route-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMapsConfig(baseURL string) config.Maps {
	return config.Maps{
		APIKey:      "AIzaTestKey",
		BaseURL:     baseURL,
		Language:    "en",
		Country:     "gh",
		MaxAttempts: 1,
		Timeout:     5 * time.Second,
	}
}

func TestNewGeocoderRequiresKey(t *testing.T) {
	cfg := testMapsConfig("http://localhost")
	cfg.APIKey = ""
	_, err := NewGeocoder(cfg)
	assert.Error(t, err)
}

func TestGeocoderResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "ChIJAccra", r.URL.Query().Get("place_id"))
		assert.Equal(t, "AIzaTestKey", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{
				"formatted_address": "Accra, Ghana",
				"place_id": "ChIJAccra",
				"geometry": {"location": {"lat": 5.6037, "lng": -0.187}}
			}],
			"status": "OK"
		}`))
	}))
	defer srv.Close()

	g, err := NewGeocoder(testMapsConfig(srv.URL))
	require.NoError(t, err)

	got, err := g.Resolve(context.Background(), "ChIJAccra")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinate{Latitude: 5.6037, Longitude: -0.187}, got)
}

func TestGeocoderResolveRejectsEmptyReference(t *testing.T) {
	g, err := NewGeocoder(testMapsConfig("http://127.0.0.1:1"))
	require.NoError(t, err)

	_, err = g.Resolve(context.Background(), "  ")
	assert.Error(t, err)
}

func TestGeocoderResolveServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [], "status": "REQUEST_DENIED", "error_message": "bad key"}`))
	}))
	defer srv.Close()

	g, err := NewGeocoder(testMapsConfig(srv.URL))
	require.NoError(t, err)

	_, err = g.Resolve(context.Background(), "ChIJAccra")
	assert.Error(t, err)
}

func TestDirectionsRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "5.6037,-0.187", q.Get("origin"))
		assert.Equal(t, "5.55601234,-0.19690087", q.Get("destination"))
		assert.Equal(t, "driving", q.Get("mode"))
		_, _ = w.Write([]byte(`{
			"routes": [{"summary": "N1", "overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"}, "legs": []}],
			"status": "OK"
		}`))
	}))
	defer srv.Close()

	d, err := NewDirections(testMapsConfig(srv.URL))
	require.NoError(t, err)

	points, err := d.Route(
		context.Background(),
		domain.Coordinate{Latitude: 5.6037, Longitude: -0.187},
		domain.Coordinate{Latitude: 5.55601234, Longitude: -0.19690087},
	)
	require.NoError(t, err)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", points)
}

func TestDirectionsRouteServerErrorIsRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"routes": [{"overview_polyline": {"points": "abc"}}], "status": "OK"}`))
	}))
	defer srv.Close()

	cfg := testMapsConfig(srv.URL)
	cfg.MaxAttempts = 2
	d, err := NewDirections(cfg)
	require.NoError(t, err)

	points, err := d.Route(context.Background(), domain.Coordinate{Latitude: 1, Longitude: 1}, domain.Coordinate{Latitude: 2, Longitude: 2})
	require.NoError(t, err)
	assert.Equal(t, "abc", points)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDirectionsRouteSingleAttemptFails(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d, err := NewDirections(testMapsConfig(srv.URL))
	require.NoError(t, err)

	_, err = d.Route(context.Background(), domain.Coordinate{Latitude: 1, Longitude: 1}, domain.Coordinate{Latitude: 2, Longitude: 2})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAutocompleterSuggest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/place/autocomplete/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Accra", q.Get("input"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "country:gh", q.Get("components"))
		_, _ = w.Write([]byte(`{
			"predictions": [
				{"description": "Accra, Ghana", "place_id": "ChIJAccra"},
				{"description": "Accra Mall, Spintex Road, Accra, Ghana", "place_id": "ChIJMall"}
			],
			"status": "OK"
		}`))
	}))
	defer srv.Close()

	a, err := NewAutocompleter(testMapsConfig(srv.URL))
	require.NoError(t, err)

	got, err := a.Suggest(context.Background(), "Accra")
	require.NoError(t, err)
	assert.Equal(t, []domain.PlaceSuggestion{
		{Description: "Accra, Ghana", Reference: "ChIJAccra"},
		{Description: "Accra Mall, Spintex Road, Accra, Ghana", Reference: "ChIJMall"},
	}, got)
}

func TestAutocompleterSuggestBlankInputSkipsRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	a, err := NewAutocompleter(testMapsConfig(srv.URL))
	require.NoError(t, err)

	got, err := a.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, atomic.LoadInt32(&calls))
}
