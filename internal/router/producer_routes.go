package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/beat-marketplace/internal/handler"
	"github.com/iliyamo/beat-marketplace/internal/middleware"
)

// RegisterProducer registers producer-scoped endpoints under /v1.  All
// routes require a valid JWT and the producer role.  Producers upload and
// manage beats and review their sales.
func RegisterProducer(e *echo.Echo, b *handler.BeatHandler, p *handler.PurchaseHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("producer"),
	)
	// Multipart upload: metadata form fields plus audio (required) and
	// cover (optional) files.
	g.POST("/beats", b.Create)
	g.PUT("/beats/:id", b.Update)
	g.DELETE("/beats/:id", b.Delete)
	g.GET("/my-sales", p.MySales)
}
