package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/beat-marketplace/internal/repository"
)

// UserHandler serves public user profiles and the producer listing.
type UserHandler struct {
	Users *repository.UserRepo
	Stats *repository.StatsRepo
}

func NewUserHandler(u *repository.UserRepo, s *repository.StatsRepo) *UserHandler {
	return &UserHandler{Users: u, Stats: s}
}

// Get returns a user's public profile.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, repository.Public(u))
}

// ListProducers serves the public producer directory. With ?sort=sales
// producers are ranked by sales via one grouped query; otherwise they
// come back newest first with counts filled in per producer.
func (h *UserHandler) ListProducers(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		producers []repository.ProducerRow
		err       error
	)
	if strings.EqualFold(c.QueryParam("sort"), "sales") {
		producers, err = h.Stats.ListProducersBySales(ctx, limit)
	} else {
		producers, err = h.Stats.ListProducersRecent(ctx, limit)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"producers": producers,
		"count":     len(producers),
	})
}
