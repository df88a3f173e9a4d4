package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trip-route-planner/internal/adapters/fake"
	"trip-route-planner/internal/adapters/polyline"
	"trip-route-planner/internal/api/dto"
	"trip-route-planner/internal/config"
	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	accra  = domain.Coordinate{Latitude: 5.6037, Longitude: -0.187}
	kumasi = domain.Coordinate{Latitude: 6.6885, Longitude: -1.6244}
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	maps := fake.NewMaps([]fake.Place{
		{Reference: "accra", Description: "Accra, Ghana", Coordinate: accra},
		{Reference: "kumasi", Description: "Kumasi, Ghana", Coordinate: kumasi},
	})
	store, err := session.NewStore(session.Backends{
		Geocoder:      maps,
		Directions:    maps,
		Decoder:       polyline.NewDecoder(),
		Autocompleter: maps,
	}, config.Flow{
		LocationTimeout:   100 * time.Millisecond,
		Debounce:          10 * time.Millisecond,
		SupersedeInFlight: true,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)

	return NewRouter(store, zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.SessionResponse {
	t.Helper()
	var res dto.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func grantedWithFix(c domain.Coordinate) gin.H {
	return gin.H{"device": gin.H{
		"permission": "granted",
		"fix":        gin.H{"latitude": c.Latitude, "longitude": c.Longitude},
	}}
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(t, h, http.MethodPost, "/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCreateSessionWithoutDeviceAlertsPermission(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	res := decode(t, w)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "origin", res.Screen)
	assert.Nil(t, res.Origin.Region)
	require.Len(t, res.Alerts, 1)
	assert.Equal(t, "permission_denied", res.Alerts[0].Kind)

	w = do(t, h, http.MethodPost, "/sessions/"+res.ID+"/alerts/ack", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w).Alerts)

	w = do(t, h, http.MethodPost, "/sessions/"+res.ID+"/alerts/ack", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateSessionRejectsBadDevice(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/sessions", gin.H{"device": gin.H{"permission": "sometimes"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/sessions", gin.H{"device": gin.H{"fix": gin.H{"latitude": 120, "longitude": 0}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownSession(t *testing.T) {
	h := newTestRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/sessions/nope"},
		{http.MethodDelete, "/sessions/nope"},
		{http.MethodPost, "/sessions/nope/confirm"},
	} {
		w := do(t, h, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
	}
}

func TestTripWorkflow(t *testing.T) {
	h := newTestRouter(t)

	res := decode(t, do(t, h, http.MethodPost, "/sessions", grantedWithFix(accra)))
	id := res.ID
	require.NotNil(t, res.Origin.Region)
	assert.Equal(t, accra.Latitude, res.Origin.Region.Latitude)
	assert.Equal(t, 0.05, res.Origin.Region.LatitudeDelta)
	require.Len(t, res.Scene.Markers, 1)
	assert.Equal(t, "origin", res.Scene.Markers[0].Role)

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/route", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPut, "/sessions/"+id+"/device", gin.H{
		"fix": gin.H{"latitude": kumasi.Latitude, "longitude": kumasi.Longitude},
	})
	require.Equal(t, http.StatusOK, w.Code)

	res = decode(t, do(t, h, http.MethodPost, "/sessions/"+id+"/confirm", nil))
	assert.Equal(t, "destination", res.Screen)
	require.NotNil(t, res.Destination)
	require.NotNil(t, res.Destination.OriginCoords)
	assert.Equal(t, accra.Latitude, res.Destination.OriginCoords.Latitude)
	require.NotNil(t, res.Destination.Region)
	assert.Equal(t, kumasi.Latitude, res.Destination.Region.Latitude)

	res = decode(t, do(t, h, http.MethodPost, "/sessions/"+id+"/region/settled", nil))
	require.Len(t, res.Scene.Polyline, 2)
	require.Len(t, res.Scene.Markers, 2)
	require.NotNil(t, res.TripPreview)

	res = decode(t, do(t, h, http.MethodPost, "/sessions/"+id+"/map/press", gin.H{
		"latitude": accra.Latitude, "longitude": accra.Longitude,
	}))
	assert.Equal(t, accra.Latitude, res.Destination.Region.Latitude)

	res = decode(t, do(t, h, http.MethodPost, "/sessions/"+id+"/back", nil))
	assert.Equal(t, "origin", res.Screen)
	assert.Nil(t, res.Destination)
	require.NotNil(t, res.Origin.Region)
	assert.Equal(t, accra.Latitude, res.Origin.Region.Latitude)

	w = do(t, h, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestConfirmOnDestinationKeepsPinAndRoutes(t *testing.T) {
	h := newTestRouter(t)
	id := decode(t, do(t, h, http.MethodPost, "/sessions", grantedWithFix(accra))).ID

	res := decode(t, do(t, h, http.MethodPost, "/sessions/"+id+"/confirm", nil))
	require.Equal(t, "destination", res.Screen)

	res = decode(t, do(t, h, http.MethodPost, "/sessions/"+id+"/map/press", gin.H{
		"latitude": kumasi.Latitude, "longitude": kumasi.Longitude,
	}))
	require.Len(t, res.Destination.Route, 2)

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)

	res = decode(t, w)
	assert.Equal(t, "destination", res.Screen)
	require.NotNil(t, res.Destination.Region)
	assert.Equal(t, kumasi.Latitude, res.Destination.Region.Latitude)
	assert.Equal(t, kumasi.Longitude, res.Destination.Region.Longitude)
	require.Len(t, res.Destination.Route, 2)
	assert.InDelta(t, kumasi.Latitude, res.Destination.Route[1].Latitude, 1e-5)
}

func TestSearchAndSelect(t *testing.T) {
	h := newTestRouter(t)
	id := decode(t, do(t, h, http.MethodPost, "/sessions", nil)).ID

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/search/waypoint", gin.H{"text": "Accra"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/search/origin", gin.H{"text": "Kum"})
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool {
		res := decode(t, do(t, h, http.MethodGet, "/sessions/"+id, nil))
		return res.Suggestions.Kind == "origin" && len(res.Suggestions.Items) == 1
	}, time.Second, 5*time.Millisecond)

	res := decode(t, do(t, h, http.MethodPost, "/sessions/"+id+"/search/origin/select", gin.H{"reference": "kumasi"}))
	assert.Empty(t, res.Suggestions.Items)
	require.NotNil(t, res.Origin.Region)
	assert.Equal(t, kumasi.Latitude, res.Origin.Region.Latitude)
	assert.Equal(t, 0.05, res.Origin.Region.LongitudeDelta)

	require.Eventually(t, func() bool {
		cam := decode(t, do(t, h, http.MethodGet, "/sessions/"+id, nil)).Camera
		return cam.Target != nil && cam.Target.Zoom == 15 && cam.Target.DurationMs == 2000
	}, time.Second, 5*time.Millisecond)

	res = decode(t, do(t, h, http.MethodPost, "/sessions/"+id+"/search/destination/select", gin.H{"reference": "accra"}))
	require.NotNil(t, res.PendingDestination)
	assert.Equal(t, accra.Latitude, res.PendingDestination.Latitude)

	res = decode(t, do(t, h, http.MethodPost, "/sessions/"+id+"/confirm", nil))
	assert.Equal(t, "destination", res.Screen)
	assert.Nil(t, res.PendingDestination)
	require.Len(t, res.Destination.Route, 2)
}

func TestPlaceFailureIsAlertedNotHTTPError(t *testing.T) {
	h := newTestRouter(t)
	id := decode(t, do(t, h, http.MethodPost, "/sessions", grantedWithFix(accra))).ID

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/place", gin.H{"reference": "atlantis"})
	require.Equal(t, http.StatusOK, w.Code)

	res := decode(t, w)
	require.Len(t, res.Alerts, 1)
	assert.Equal(t, "geocode_failure", res.Alerts[0].Kind)
	assert.Equal(t, accra.Latitude, res.Origin.Region.Latitude)
}

func TestSetRegionValidation(t *testing.T) {
	h := newTestRouter(t)
	id := decode(t, do(t, h, http.MethodPost, "/sessions", nil)).ID

	w := do(t, h, http.MethodPut, "/sessions/"+id+"/region", gin.H{"latitude": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	res := decode(t, do(t, h, http.MethodPut, "/sessions/"+id+"/region", gin.H{
		"latitude": 5.55, "longitude": -0.2, "latitude_delta": 0.3, "longitude_delta": 0.3,
	}))
	require.NotNil(t, res.Origin.Region)
	assert.Equal(t, 0.3, res.Origin.Region.LatitudeDelta)
}
