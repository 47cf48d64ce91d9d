package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/beat-marketplace/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  Guests can browse the catalog, view beat and producer
// details and stream stored objects without a token.  The cache middleware
// wraps only the pure listing routes: the beat detail endpoint increments
// the play counter on every fetch and must always hit the handler.
func RegisterPublic(e *echo.Echo, b *handler.BeatHandler, u *handler.UserHandler, s *handler.StaticHandler, cache echo.MiddlewareFunc) {
	// Catalog browse with filters, search and sorting.
	e.GET("/v1/beats", b.List, cache)
	// Beat detail; every fetch counts as one play.
	e.GET("/v1/beats/:id", b.Get)
	// All beats of one producer, newest first.
	e.GET("/v1/beats/producer/:id", b.ListByProducer)
	// Producer directory; ?sort=sales ranks by sales.
	e.GET("/v1/producers", u.ListProducers, cache)
	// Public user profile.
	e.GET("/v1/users/:id", u.Get)
	// Stored audio/cover objects.
	e.GET("/static/*", s.Get)
}
