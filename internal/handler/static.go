package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/beat-marketplace/internal/storage"
)

// StaticHandler streams uploaded objects (beat audio, cover images)
// back out of MinIO. The /static/* paths stored on beats resolve here.
type StaticHandler struct {
	Store *storage.MinioStore
}

func NewStaticHandler(s *storage.MinioStore) *StaticHandler {
	return &StaticHandler{Store: s}
}

// Get serves /static/<kind>/<object>. Path traversal is rejected before
// the object name reaches the bucket.
func (h *StaticHandler) Get(c echo.Context) error {
	object := c.Param("*")
	if object == "" || strings.Contains(object, "..") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid path"})
	}

	rc, contentType, err := h.Store.Get(c.Request().Context(), object)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "object not found"})
	}
	defer rc.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.Stream(http.StatusOK, contentType, rc)
}
