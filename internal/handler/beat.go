package handler

import (
	"context"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/beat-marketplace/internal/config"
	"github.com/iliyamo/beat-marketplace/internal/middleware"
	"github.com/iliyamo/beat-marketplace/internal/model"
	"github.com/iliyamo/beat-marketplace/internal/repository"
	"github.com/iliyamo/beat-marketplace/internal/storage"
)

// BeatHandler bundles dependencies for beat endpoints.
type BeatHandler struct {
	Cfg   config.Config
	Beats *repository.BeatRepo
	Users *repository.UserRepo
	Store *storage.MinioStore
}

func NewBeatHandler(cfg config.Config, b *repository.BeatRepo, u *repository.UserRepo, s *storage.MinioStore) *BeatHandler {
	return &BeatHandler{Cfg: cfg, Beats: b, Users: u, Store: s}
}

// beatResp is the wire shape of a beat. Price is serialized both as
// integer cents and as a float for display; tags come back as an array
// even though they are stored comma-joined.
type beatResp struct {
	ID           uint64    `json:"id"`
	ProducerID   uint64    `json:"producer_id"`
	ProducerName string    `json:"producer_name"`
	Title        string    `json:"title"`
	Genre        string    `json:"genre"`
	BPM          int       `json:"bpm"`
	Key          string    `json:"key"`
	Description  string    `json:"description"`
	PriceCents   uint32    `json:"price_cents"`
	Price        float64   `json:"price"`
	LicenseType  string    `json:"license_type"`
	AudioURL     string    `json:"audio_url"`
	CoverURL     *string   `json:"cover_url,omitempty"`
	Tags         []string  `json:"tags"`
	Plays        uint64    `json:"plays"`
	Purchases    uint64    `json:"purchases"`
	CreatedAt    time.Time `json:"created_at"`
}

func beatView(b model.Beat) beatResp {
	return beatResp{
		ID:           b.ID,
		ProducerID:   b.ProducerID,
		ProducerName: b.ProducerName,
		Title:        b.Title,
		Genre:        b.Genre,
		BPM:          b.BPM,
		Key:          b.MusicalKey,
		Description:  b.Description,
		PriceCents:   b.PriceCents,
		Price:        float64(b.PriceCents) / 100.0,
		LicenseType:  b.LicenseType,
		AudioURL:     b.AudioURL,
		CoverURL:     b.CoverURL,
		Tags:         splitTags(b.Tags),
		Plays:        b.Plays,
		Purchases:    b.Purchases,
		CreatedAt:    b.CreatedAt,
	}
}

func beatViews(beats []model.Beat) []beatResp {
	out := make([]beatResp, 0, len(beats))
	for _, b := range beats {
		out = append(out, beatView(b))
	}
	return out
}

func splitTags(s string) []string {
	out := []string{}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func joinTags(tags []string) string {
	clean := []string{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ",")
}

// priceToCents converts a non-negative dollar amount to integer cents.
func priceToCents(price float64) (uint32, bool) {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return uint32(math.Round(price * 100)), true
}

// List serves the public catalog with optional filters, free-text search
// and whitelisted sorting. count reflects the returned (capped) page.
func (h *BeatHandler) List(c echo.Context) error {
	q := repository.BeatSearchQuery{
		Genre:         strings.TrimSpace(c.QueryParam("genre")),
		Search:        strings.TrimSpace(c.QueryParam("search")),
		MinBPM:        -1,
		MaxBPM:        -1,
		MaxPriceCents: -1,
		SortBy:        strings.TrimSpace(c.QueryParam("sort_by")),
		Limit:         50,
	}
	if v := c.QueryParam("min_bpm"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			q.MinBPM = n
		}
	}
	if v := c.QueryParam("max_bpm"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			q.MaxBPM = n
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			if cents, ok := priceToCents(f); ok {
				q.MaxPriceCents = int64(cents)
			}
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	beats, err := h.Beats.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"beats": beatViews(beats),
		"count": len(beats),
	})
}

// Get serves the beat detail and bumps the play counter. Every fetch
// counts as one play, so this route must never sit behind the response
// cache.
func (h *BeatHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Beats.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBeatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Beats.IncrementPlays(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	b.Plays++ // reflect the play we just counted
	return c.JSON(http.StatusOK, beatView(b))
}

// ListByProducer serves a producer's public beat list, newest first.
func (h *BeatHandler) ListByProducer(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	beats, err := h.Beats.ListByProducer(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"beats": beatViews(beats),
		"count": len(beats),
	})
}

// Create handles the multipart beat upload (producer only). Metadata
// arrives as form fields; the audio file is required, the cover image
// optional. Objects land in MinIO and the returned /static paths are
// stored on the beat.
func (h *BeatHandler) Create(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	title := strings.TrimSpace(c.FormValue("title"))
	genre := strings.TrimSpace(c.FormValue("genre"))
	key := strings.TrimSpace(c.FormValue("key"))
	description := strings.TrimSpace(c.FormValue("description"))
	licenseType := strings.ToLower(strings.TrimSpace(c.FormValue("license_type")))
	if title == "" || genre == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/genre required"})
	}
	if licenseType != model.LicenseExclusive && licenseType != model.LicenseNonExclusive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "license_type must be exclusive or non_exclusive"})
	}
	bpm, err := strconv.Atoi(strings.TrimSpace(c.FormValue("bpm")))
	if err != nil || bpm <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bpm"})
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("price")), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price"})
	}
	priceCents, ok := priceToCents(price)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be non-negative"})
	}
	tags := joinTags(strings.Split(c.FormValue("tags"), ","))

	audioFile, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "audio file required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	src, err := audioFile.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read audio file"})
	}
	audioURL, err := h.Store.Put(ctx, "audio", audioFile.Filename, src, audioFile.Size,
		h.Cfg.MaxAudioBytes, audioFile.Header.Get("Content-Type"))
	src.Close()
	if err != nil {
		if err == storage.ErrObjectTooLarge {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "audio file too large"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "audio upload failed"})
	}

	var coverURL *string
	if coverFile, err := c.FormFile("cover"); err == nil {
		src, err := coverFile.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read cover file"})
		}
		url, err := h.Store.Put(ctx, "cover", coverFile.Filename, src, coverFile.Size,
			h.Cfg.MaxCoverBytes, coverFile.Header.Get("Content-Type"))
		src.Close()
		if err != nil {
			if err == storage.ErrObjectTooLarge {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "cover file too large"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cover upload failed"})
		}
		coverURL = &url
	}

	b := model.Beat{
		ProducerID:   uid,
		ProducerName: u.Name, // snapshot; later renames do not propagate
		Title:        title,
		Genre:        genre,
		BPM:          bpm,
		MusicalKey:   key,
		Description:  description,
		PriceCents:   priceCents,
		LicenseType:  licenseType,
		AudioURL:     audioURL,
		CoverURL:     coverURL,
		Tags:         tags,
	}
	if err := h.Beats.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create beat failed"})
	}

	created, err := h.Beats.GetByID(ctx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load beat failed"})
	}
	return c.JSON(http.StatusCreated, beatView(created))
}

type beatUpdateReq struct {
	Title       *string   `json:"title"`
	Genre       *string   `json:"genre"`
	BPM         *int      `json:"bpm"`
	Key         *string   `json:"key"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	LicenseType *string   `json:"license_type"`
	Tags        *[]string `json:"tags"`
}

// bindBeatUpdateForm fills req from multipart form fields. Absent or
// empty fields stay nil so only what the producer sent gets patched.
func bindBeatUpdateForm(c echo.Context, req *beatUpdateReq) error {
	if v := strings.TrimSpace(c.FormValue("title")); v != "" {
		req.Title = &v
	}
	if v := strings.TrimSpace(c.FormValue("genre")); v != "" {
		req.Genre = &v
	}
	if v := strings.TrimSpace(c.FormValue("key")); v != "" {
		req.Key = &v
	}
	if v := c.FormValue("description"); v != "" {
		req.Description = &v
	}
	if v := strings.TrimSpace(c.FormValue("license_type")); v != "" {
		req.LicenseType = &v
	}
	if v := strings.TrimSpace(c.FormValue("bpm")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		req.BPM = &n
	}
	if v := strings.TrimSpace(c.FormValue("price")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		req.Price = &f
	}
	if v := c.FormValue("tags"); v != "" {
		tags := strings.Split(v, ",")
		req.Tags = &tags
	}
	return nil
}

// Update patches a beat's metadata. Existence is checked before
// ownership so a missing beat reports 404 even to a non-owner.
// Metadata arrives as JSON or as multipart form fields; only the
// multipart form may carry a replacement cover image.
func (h *BeatHandler) Update(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var (
		req       beatUpdateReq
		coverFile *multipart.FileHeader
	)
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if err := bindBeatUpdateForm(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		if f, err := c.FormFile("cover"); err == nil {
			coverFile = f
		}
	} else if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	timeout := 5 * time.Second
	if coverFile != nil {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	b, err := h.Beats.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBeatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.ProducerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	fields := map[string]interface{}{}
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Genre != nil && strings.TrimSpace(*req.Genre) != "" {
		fields["genre"] = strings.TrimSpace(*req.Genre)
	}
	if req.BPM != nil {
		if *req.BPM <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bpm"})
		}
		fields["bpm"] = *req.BPM
	}
	if req.Key != nil {
		fields["musical_key"] = strings.TrimSpace(*req.Key)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		cents, ok := priceToCents(*req.Price)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be non-negative"})
		}
		fields["price_cents"] = cents
	}
	if req.LicenseType != nil {
		lt := strings.ToLower(strings.TrimSpace(*req.LicenseType))
		if lt != model.LicenseExclusive && lt != model.LicenseNonExclusive {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "license_type must be exclusive or non_exclusive"})
		}
		fields["license_type"] = lt
	}
	if req.Tags != nil {
		fields["tags"] = joinTags(*req.Tags)
	}

	if coverFile != nil {
		src, err := coverFile.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read cover file"})
		}
		url, err := h.Store.Put(ctx, "cover", coverFile.Filename, src, coverFile.Size,
			h.Cfg.MaxCoverBytes, coverFile.Header.Get("Content-Type"))
		src.Close()
		if err != nil {
			if err == storage.ErrObjectTooLarge {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "cover file too large"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cover upload failed"})
		}
		fields["cover_url"] = url
		// The replaced cover object is unreachable once the row points
		// at the new one; removal is best-effort like beat deletion.
		if b.CoverURL != nil {
			if obj := storage.ObjectFromStaticPath(*b.CoverURL); obj != "" {
				_ = h.Store.Remove(ctx, obj)
			}
		}
	}

	if err := h.Beats.UpdateFields(ctx, id, fields); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Beats.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load beat failed"})
	}
	return c.JSON(http.StatusOK, beatView(updated))
}

// Delete removes a beat. Purchases and projects referencing it survive
// with their denormalized copies; the stored objects are removed from
// MinIO best-effort.
func (h *BeatHandler) Delete(c echo.Context) error {
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

	b, err := h.Beats.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBeatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.ProducerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Beats.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if obj := storage.ObjectFromStaticPath(b.AudioURL); obj != "" {
		_ = h.Store.Remove(ctx, obj)
	}
	if b.CoverURL != nil {
		if obj := storage.ObjectFromStaticPath(*b.CoverURL); obj != "" {
			_ = h.Store.Remove(ctx, obj)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
