package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/beat-marketplace/internal/middleware"
	"github.com/iliyamo/beat-marketplace/internal/model"
	"github.com/iliyamo/beat-marketplace/internal/repository"
)

// StatsHandler serves the role-dependent dashboard. All numbers are
// recomputed from the base tables on every call.
type StatsHandler struct {
	Stats     *repository.StatsRepo
	Beats     *repository.BeatRepo
	Purchases *repository.PurchaseRepo
	Projects  *repository.ProjectRepo
}

func NewStatsHandler(s *repository.StatsRepo, b *repository.BeatRepo, pu *repository.PurchaseRepo, pr *repository.ProjectRepo) *StatsHandler {
	return &StatsHandler{Stats: s, Beats: b, Purchases: pu, Projects: pr}
}

const recentLimit = 10

// Dashboard branches on the caller's role: producers get catalog and
// revenue aggregates with their most recent beats, artists get spend
// aggregates with recent purchases and projects.
func (h *StatsHandler) Dashboard(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role := middleware.CurrentRole(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch role {
	case model.UserTypeProducer:
		return h.producerDashboard(ctx, c, uid)
	case model.UserTypeArtist:
		return h.artistDashboard(ctx, c, uid)
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
}

func (h *StatsHandler) producerDashboard(ctx context.Context, c echo.Context, uid uint64) error {
	s, err := h.Stats.ProducerDashboard(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	beats, err := h.Beats.ListByProducer(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(beats) > recentLimit {
		beats = beats[:recentLimit]
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_type":           model.UserTypeProducer,
		"total_beats":         s.TotalBeats,
		"total_plays":         s.TotalPlays,
		"total_sales":         s.TotalSales,
		"total_revenue_cents": s.TotalRevenueCents,
		"total_revenue":       float64(s.TotalRevenueCents) / 100.0,
		"recent_beats":        beatViews(beats),
	})
}

func (h *StatsHandler) artistDashboard(ctx context.Context, c echo.Context, uid uint64) error {
	s, err := h.Stats.ArtistDashboard(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	purchases, err := h.Purchases.ListByBuyer(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(purchases) > recentLimit {
		purchases = purchases[:recentLimit]
	}
	projects, err := h.Projects.ListByArtist(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(projects) > recentLimit {
		projects = projects[:recentLimit]
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_type":         model.UserTypeArtist,
		"total_purchases":   s.TotalPurchases,
		"total_projects":    s.TotalProjects,
		"total_spent_cents": s.TotalSpentCents,
		"total_spent":       float64(s.TotalSpentCents) / 100.0,
		"recent_purchases":  purchaseViews(purchases),
		"recent_projects":   projectViews(projects),
	})
}
