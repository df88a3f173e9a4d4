package api

import (
	"net/http"

	"trip-route-planner/internal/api/handlers"
	"trip-route-planner/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete map adapters.
func NewRouter(store *session.Store, log *zap.Logger) http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware(log.Named("http")))

	r.GET("/health", handlers.Health)

	sessions := handlers.NewSessionHandler(store, log.Named("sessions"))
	sessions.RegisterRoutes(&r.RouterGroup)

	return r
}
