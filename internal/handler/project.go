package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/beat-marketplace/internal/middleware"
	"github.com/iliyamo/beat-marketplace/internal/model"
	"github.com/iliyamo/beat-marketplace/internal/repository"
)

// ProjectHandler bundles dependencies for project endpoints.
type ProjectHandler struct {
	Projects  *repository.ProjectRepo
	Beats     *repository.BeatRepo
	Purchases *repository.PurchaseRepo
}

func NewProjectHandler(p *repository.ProjectRepo, b *repository.BeatRepo, pu *repository.PurchaseRepo) *ProjectHandler {
	return &ProjectHandler{Projects: p, Beats: b, Purchases: pu}
}

// projectResp is the wire shape of a project.
type projectResp struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	ArtistID    uint64    `json:"artist_id"`
	BeatID      uint64    `json:"beat_id"`
	BeatTitle   string    `json:"beat_title"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func projectView(p model.Project) projectResp {
	return projectResp{
		ID:          p.ID,
		Title:       p.Title,
		ArtistID:    p.ArtistID,
		BeatID:      p.BeatID,
		BeatTitle:   p.BeatTitle,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func projectViews(ps []model.Project) []projectResp {
	out := make([]projectResp, 0, len(ps))
	for _, p := range ps {
		out = append(out, projectView(p))
	}
	return out
}

type projectCreateReq struct {
	Title       string  `json:"title"`
	BeatID      uint64  `json:"beat_id"`
	Description *string `json:"description"`
}

type projectUpdateReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func validProjectStatus(s string) bool {
	switch s {
	case model.ProjectDraft, model.ProjectMixing, model.ProjectMastering, model.ProjectCompleted:
		return true
	}
	return false
}

// Create starts a project on a purchased beat. The artist must hold a
// completed purchase for it; a missing purchase is reported as 403,
// matching the entitlement rule rather than a lookup failure. A beat
// the producer has since deleted still counts: the purchase receipt
// carries the title snapshot, and only when neither the beat nor a
// receipt exists does the endpoint answer 404.
func (h *ProjectHandler) Create(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req projectCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.BeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/beat_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var beatTitle string
	b, err := h.Beats.GetByID(ctx, req.BeatID)
	switch err {
	case nil:
		owned, err := h.Purchases.ExistsCompleted(ctx, req.BeatID, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if !owned {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you must purchase this beat first"})
		}
		beatTitle = b.Title
	case repository.ErrBeatNotFound:
		pu, err := h.Purchases.GetCompleted(ctx, req.BeatID, uid)
		if err == repository.ErrPurchaseRequired {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beat not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		beatTitle = pu.BeatTitle
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	p := model.Project{
		Title:       req.Title,
		ArtistID:    uid,
		BeatID:      req.BeatID,
		BeatTitle:   beatTitle, // snapshot; survives beat deletion
		Description: req.Description,
		Status:      model.ProjectDraft,
	}
	if err := h.Projects.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create project failed"})
	}
	created, err := h.Projects.GetByID(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load project failed"})
	}
	return c.JSON(http.StatusCreated, projectView(created))
}

// List returns the authenticated artist's projects, most recently
// touched first.
func (h *ProjectHandler) List(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ps, err := h.Projects.ListByArtist(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"projects": projectViews(ps),
		"count":    len(ps),
	})
}

// Get returns a single project. Existence is checked before ownership.
func (h *ProjectHandler) Get(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if p.ArtistID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, projectView(p))
}

// Update patches title/description/status. updated_at is bumped even
// for a single-field change, which also moves the project to the top of
// the artist's list.
func (h *ProjectHandler) Update(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req projectUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if p.ArtistID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	fields := map[string]interface{}{}
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*req.Status))
		if !validProjectStatus(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be draft, mixing, mastering or completed"})
		}
		fields["status"] = status
	}

	if err := h.Projects.UpdateFields(ctx, id, fields); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load project failed"})
	}
	return c.JSON(http.StatusOK, projectView(updated))
}

// Delete removes a project owned by the caller.
func (h *ProjectHandler) Delete(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if p.ArtistID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Projects.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
