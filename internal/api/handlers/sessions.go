package handlers

import (
	"errors"
	"net/http"

	"trip-route-planner/internal/api/dto"
	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/platform/obs"
	"trip-route-planner/internal/search"
	"trip-route-planner/internal/services"
	"trip-route-planner/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler exposes the trip selection workflow of one map client per
// session. Failures that were alerted to the user are part of the returned
// snapshot, not HTTP errors.
type SessionHandler struct {
	store *session.Store
	log   *zap.Logger
}

func NewSessionHandler(store *session.Store, log *zap.Logger) *SessionHandler {
	return &SessionHandler{store: store, log: log}
}

// RegisterRoutes registers all session routes on the given router group.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/sessions")
	{
		sessions.POST("", h.Create)
		sessions.GET("/:id", h.Get)
		sessions.DELETE("/:id", h.Delete)
		sessions.PUT("/:id/device", h.UpdateDevice)
		sessions.POST("/:id/locate", h.Locate)
		sessions.PUT("/:id/region", h.SetRegion)
		sessions.POST("/:id/region/settled", h.RegionSettled)
		sessions.POST("/:id/map/press", h.MapPressed)
		sessions.POST("/:id/search/:kind", h.SearchInput)
		sessions.POST("/:id/search/:kind/select", h.SearchSelect)
		sessions.POST("/:id/place", h.ChoosePlace)
		sessions.POST("/:id/confirm", h.Confirm)
		sessions.POST("/:id/route", h.FetchRoute)
		sessions.POST("/:id/recenter", h.Recenter)
		sessions.POST("/:id/back", h.Back)
		sessions.POST("/:id/alerts/ack", h.AckAlert)
	}
}

func (h *SessionHandler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

// respond writes the session snapshot after an operation finished with err.
func (h *SessionHandler) respond(c *gin.Context, s *session.Session, status int, err error) {
	if err != nil {
		log := h.log.With(
			zap.String("req_id", obs.RequestID(c.Request.Context())),
			zap.String("session_id", s.ID),
			zap.Error(err),
		)

		_, alerted := domain.AlertFor(err)
		switch {
		case errors.Is(err, services.ErrSuperseded):
			log.Debug("operation superseded")
		case alerted:
			log.Info("operation alerted")
		case errors.Is(err, session.ErrWrongScreen), errors.Is(err, services.ErrDestinationOpen):
			writeError(c, http.StatusConflict, err.Error())
			return
		case errors.Is(err, search.ErrUnknownKind):
			writeError(c, http.StatusNotFound, err.Error())
			return
		default:
			log.Error("operation failed")
			writeError(c, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	c.JSON(status, dto.FromSnapshot(s.Snapshot()))
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	var report *session.DeviceReport
	if req.Device != nil {
		r := req.Device.Report()
		report = &r
	}

	s, err := h.store.Create(c.Request.Context(), report)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.respond(c, s, http.StatusCreated, nil)
}

// Get handles GET /sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, s, http.StatusOK, nil)
}

// Delete handles DELETE /sessions/:id.
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		writeError(c, http.StatusNotFound, "session not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateDevice handles PUT /sessions/:id/device.
func (h *SessionHandler) UpdateDevice(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.DeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}
	if err := s.Device.Report(req.Report()); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.respond(c, s, http.StatusOK, nil)
}

// Locate handles POST /sessions/:id/locate.
func (h *SessionHandler) Locate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, s, http.StatusOK, s.Locate(c.Request.Context()))
}

// SetRegion handles PUT /sessions/:id/region.
func (h *SessionHandler) SetRegion(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.RegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}

	s.SetRegion(req.Region())
	h.respond(c, s, http.StatusOK, nil)
}

// RegionSettled handles POST /sessions/:id/region/settled.
func (h *SessionHandler) RegionSettled(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, s, http.StatusOK, s.RegionSettled(c.Request.Context()))
}

// MapPressed handles POST /sessions/:id/map/press.
func (h *SessionHandler) MapPressed(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.CoordinateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}

	h.respond(c, s, http.StatusOK, s.MapPressed(c.Request.Context(), req.Coordinate()))
}

// SearchInput handles POST /sessions/:id/search/:kind.
func (h *SessionHandler) SearchInput(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.SearchInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}

	err := s.Search.Input(c.Request.Context(), search.Kind(c.Param("kind")), req.Text)
	h.respond(c, s, http.StatusAccepted, err)
}

// SearchSelect handles POST /sessions/:id/search/:kind/select.
func (h *SessionHandler) SearchSelect(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}

	err := s.Search.Select(c.Request.Context(), search.Kind(c.Param("kind")), req.Reference)
	h.respond(c, s, http.StatusOK, err)
}

// ChoosePlace handles POST /sessions/:id/place.
func (h *SessionHandler) ChoosePlace(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}

	h.respond(c, s, http.StatusOK, s.ChoosePlace(c.Request.Context(), req.Reference))
}

// Confirm handles POST /sessions/:id/confirm.
func (h *SessionHandler) Confirm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	h.respond(c, s, http.StatusOK, s.Confirm(c.Request.Context()))
}

// FetchRoute handles POST /sessions/:id/route.
func (h *SessionHandler) FetchRoute(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, s, http.StatusOK, s.FetchRoute(c.Request.Context()))
}

// Recenter handles POST /sessions/:id/recenter.
func (h *SessionHandler) Recenter(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, s, http.StatusOK, s.Recenter(c.Request.Context()))
}

// Back handles POST /sessions/:id/back.
func (h *SessionHandler) Back(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	s.Navigator.Back()
	h.respond(c, s, http.StatusOK, nil)
}

// AckAlert handles POST /sessions/:id/alerts/ack.
func (h *SessionHandler) AckAlert(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if _, ok := s.Alerts.Ack(); !ok {
		writeError(c, http.StatusConflict, "no pending alert")
		return
	}
	h.respond(c, s, http.StatusOK, nil)
}
