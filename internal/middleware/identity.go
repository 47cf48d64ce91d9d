package middleware

// identity.go defines helper functions shared across middleware and
// handlers. The JWT middleware stores raw claim values in the Echo
// context; these helpers coerce them back into usable types.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// CurrentUserID returns the authenticated user's numeric ID from the
// context. JWT number claims decode as float64, so both forms are
// accepted. The second return value is false for unauthenticated
// requests.
func CurrentUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	default:
		return 0, false
	}
}

// CurrentRole returns the authenticated user's role claim, or "" when
// missing.
func CurrentRole(c echo.Context) string {
	if r, ok := c.Get("role").(string); ok {
		return r
	}
	return ""
}

// identityKey builds a per-user key fragment for the rate limiter.
// Unauthenticated requests fall back to "guest" so they share a bucket
// with other anonymous traffic from the same address.
func identityKey(c echo.Context) string {
	if id, ok := CurrentUserID(c); ok {
		return fmt.Sprintf("%d", id)
	}
	return "guest"
}
