package dto

import (
	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/ports"
	"trip-route-planner/internal/search"
	"trip-route-planner/internal/services"
	"trip-route-planner/internal/session"
)

type CoordinateRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

func (r CoordinateRequest) Coordinate() domain.Coordinate {
	return domain.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

// RegionRequest carries a viewport as reported by the map; it is applied
// without range checks.
type RegionRequest struct {
	Latitude       *float64 `json:"latitude" binding:"required"`
	Longitude      *float64 `json:"longitude" binding:"required"`
	LatitudeDelta  float64  `json:"latitude_delta"`
	LongitudeDelta float64  `json:"longitude_delta"`
}

func (r RegionRequest) Region() domain.Region {
	return domain.Region{
		Coordinate:     domain.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude},
		LatitudeDelta:  r.LatitudeDelta,
		LongitudeDelta: r.LongitudeDelta,
	}
}

type DeviceRequest struct {
	Permission    *string            `json:"permission" binding:"omitempty,oneof=granted denied"`
	Fix           *CoordinateRequest `json:"fix"`
	LocationError *string            `json:"location_error"`
}

func (r DeviceRequest) Report() session.DeviceReport {
	var rep session.DeviceReport
	if r.Permission != nil {
		p := ports.PermissionStatus(*r.Permission)
		rep.Permission = &p
	}
	if r.Fix != nil {
		c := r.Fix.Coordinate()
		rep.Fix = &c
	}
	rep.LocationError = r.LocationError
	return rep
}

type CreateSessionRequest struct {
	Device *DeviceRequest `json:"device"`
}

type SearchInputRequest struct {
	Text string `json:"text"`
}

type PlaceRequest struct {
	Reference string `json:"reference" binding:"required"`
}

type CoordinateResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RegionResponse struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

type MarkerResponse struct {
	Role      string  `json:"role"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SceneResponse struct {
	Screen   string               `json:"screen"`
	Region   *RegionResponse      `json:"region"`
	Markers  []MarkerResponse     `json:"markers"`
	Polyline []CoordinateResponse `json:"polyline"`
	Loading  bool                 `json:"loading"`
}

type OriginResponse struct {
	Region    *RegionResponse `json:"region"`
	IsLoading bool            `json:"is_loading"`
}

type DestinationResponse struct {
	Region       *RegionResponse      `json:"region"`
	IsLoading    bool                 `json:"is_loading"`
	OriginCoords *CoordinateResponse  `json:"origin_coords"`
	Route        []CoordinateResponse `json:"route"`
}

type SuggestionResponse struct {
	Description string `json:"description"`
	Reference   string `json:"reference"`
}

type SuggestionsResponse struct {
	Kind  string               `json:"kind"`
	Items []SuggestionResponse `json:"items"`
}

type AlertResponse struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type CameraTargetResponse struct {
	Center     CoordinateResponse `json:"center"`
	Zoom       float64            `json:"zoom"`
	DurationMs int64              `json:"duration_ms"`
}

type CameraResponse struct {
	Status string                `json:"status"`
	Target *CameraTargetResponse `json:"target"`
}

type TripPreviewResponse struct {
	Origin      CoordinateResponse   `json:"origin"`
	Destination CoordinateResponse   `json:"destination"`
	Route       []CoordinateResponse `json:"route"`
}

type SessionResponse struct {
	ID                 string               `json:"id"`
	Screen             string               `json:"screen"`
	Permission         string               `json:"permission"`
	Origin             OriginResponse       `json:"origin"`
	Destination        *DestinationResponse `json:"destination"`
	PendingDestination *CoordinateResponse  `json:"pending_destination"`
	Scene              SceneResponse        `json:"scene"`
	Suggestions        SuggestionsResponse  `json:"suggestions"`
	Alerts             []AlertResponse      `json:"alerts"`
	Camera             CameraResponse       `json:"camera"`
	TripPreview        *TripPreviewResponse `json:"trip_preview"`
}

func coordinate(c domain.Coordinate) CoordinateResponse {
	return CoordinateResponse{Latitude: c.Latitude, Longitude: c.Longitude}
}

func coordinatePtr(c *domain.Coordinate) *CoordinateResponse {
	if c == nil {
		return nil
	}
	r := coordinate(*c)
	return &r
}

func region(r *domain.Region) *RegionResponse {
	if r == nil {
		return nil
	}
	return &RegionResponse{
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		LatitudeDelta:  r.LatitudeDelta,
		LongitudeDelta: r.LongitudeDelta,
	}
}

func route(rt domain.Route) []CoordinateResponse {
	if rt == nil {
		return nil
	}
	out := make([]CoordinateResponse, 0, len(rt))
	for _, c := range rt {
		out = append(out, coordinate(c))
	}
	return out
}

func scene(sc services.Scene) SceneResponse {
	markers := make([]MarkerResponse, 0, len(sc.Markers))
	for _, m := range sc.Markers {
		markers = append(markers, MarkerResponse{
			Role:      string(m.Role),
			Latitude:  m.Coordinate.Latitude,
			Longitude: m.Coordinate.Longitude,
		})
	}
	return SceneResponse{
		Screen:   string(sc.Screen),
		Region:   region(sc.Region),
		Markers:  markers,
		Polyline: route(sc.Polyline),
		Loading:  sc.Loading,
	}
}

func suggestions(kind search.Kind, list []domain.PlaceSuggestion) SuggestionsResponse {
	items := make([]SuggestionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, SuggestionResponse{Description: s.Description, Reference: s.Reference})
	}
	return SuggestionsResponse{Kind: string(kind), Items: items}
}

func camera(st session.CameraState) CameraResponse {
	res := CameraResponse{Status: string(st.Status)}
	if st.Target != nil {
		res.Target = &CameraTargetResponse{
			Center:     coordinate(st.Target.Center),
			Zoom:       st.Target.Zoom,
			DurationMs: st.Target.Duration.Milliseconds(),
		}
	}
	return res
}

// FromSnapshot converts a session snapshot into its wire shape.
func FromSnapshot(s session.Snapshot) SessionResponse {
	res := SessionResponse{
		ID:                 s.ID,
		Screen:             string(s.Screen),
		Permission:         string(s.Permission),
		Origin:             OriginResponse{Region: region(s.Origin.Region), IsLoading: s.Origin.IsLoading},
		PendingDestination: coordinatePtr(s.PendingDestination),
		Scene:              scene(s.Scene),
		Suggestions:        suggestions(s.SuggestionsKind, s.Suggestions),
		Alerts:             make([]AlertResponse, 0, len(s.Alerts)),
		Camera:             camera(s.Camera),
	}

	if s.Destination != nil {
		res.Destination = &DestinationResponse{
			Region:       region(s.Destination.Region),
			IsLoading:    s.Destination.IsLoading,
			OriginCoords: coordinatePtr(s.Destination.OriginCoords),
			Route:        route(s.Destination.Route),
		}
	}

	for _, a := range s.Alerts {
		res.Alerts = append(res.Alerts, AlertResponse{Kind: string(a.Kind), Title: a.Title, Message: a.Message})
	}

	if s.LastPreview != nil {
		res.TripPreview = &TripPreviewResponse{
			Origin:      coordinate(s.LastPreview.Origin),
			Destination: coordinate(s.LastPreview.Destination),
			Route:       route(s.LastPreview.Route),
		}
	}

	return res
}
