package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/beat-marketplace/internal/handler"
	"github.com/iliyamo/beat-marketplace/internal/middleware"
)

// RegisterArtist registers artist-scoped endpoints under /v1.  All routes
// require a valid JWT and the artist role.  Artists purchase beats and
// run projects on the beats they own.
func RegisterArtist(e *echo.Echo, pu *handler.PurchaseHandler, pr *handler.ProjectHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("artist"),
	)
	g.POST("/purchases", pu.Create)
	g.GET("/my-purchases", pu.MyPurchases)

	g.POST("/projects", pr.Create)
	g.GET("/my-projects", pr.List)
	g.GET("/projects/:id", pr.Get)
	g.PUT("/projects/:id", pr.Update)
	g.DELETE("/projects/:id", pr.Delete)
}
