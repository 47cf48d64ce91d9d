package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/beat-marketplace/internal/handler"
	"github.com/iliyamo/beat-marketplace/internal/middleware"
)

// RegisterStats registers the dashboard endpoint under /v1.  Both roles
// may call it; the handler branches on the role claim.
func RegisterStats(e *echo.Echo, s *handler.StatsHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("producer", "artist"),
	)
	g.GET("/stats/dashboard", s.Dashboard)
}
