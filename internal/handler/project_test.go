package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/beat-marketplace/internal/repository"
)

const beatSelectColumns = "id,producer_id,producer_name,title,genre,bpm,musical_key,description,price_cents,license_type,audio_url,cover_url,tags,plays,purchases,created_at,updated_at"

func beatRow() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(strings.Split(beatSelectColumns, ",")).
		AddRow(3, 10, "Prod One", "Night Drive", "trap", 140, "C#m",
			"dark trap beat", 2999, "non_exclusive",
			"/static/audio/a.mp3", nil, "dark,trap", 5, 2, now, now)
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asArtist(c echo.Context, id uint64) {
	// JWT number claims decode as float64.
	c.Set("user_id", float64(id))
	c.Set("role", "artist")
}

func newProjectHandler(t *testing.T) (*ProjectHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProjectHandler(
		repository.NewProjectRepo(db),
		repository.NewBeatRepo(db),
		repository.NewPurchaseRepo(db),
	), mock
}

func TestProjectCreateWithoutPurchaseIsForbidden(t *testing.T) {
	h, mock := newProjectHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM beats WHERE id=? LIMIT 1")).
		WithArgs(uint64(3)).
		WillReturnRows(beatRow())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM purchases")).
		WithArgs(uint64(3), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	e := echo.New()
	c, rec := jsonContext(e, http.MethodPost, "/v1/projects", `{"title":"My Track","beat_id":3}`)
	asArtist(c, 7)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "must purchase")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectCreateMissingBeatIs404(t *testing.T) {
	h, mock := newProjectHandler(t)

	// No beat row and no receipt either: nothing entitles the artist.
	mock.ExpectQuery(regexp.QuoteMeta("FROM beats WHERE id=? LIMIT 1")).
		WithArgs(uint64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM purchases WHERE beat_id=? AND buyer_id=? AND payment_status='completed' LIMIT 1")).
		WithArgs(uint64(999), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	e := echo.New()
	c, rec := jsonContext(e, http.MethodPost, "/v1/projects", `{"title":"My Track","beat_id":999}`)
	asArtist(c, 7)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectCreateOnDeletedBeatUsesReceiptTitle(t *testing.T) {
	h, mock := newProjectHandler(t)

	now := time.Now().UTC()
	// The beat row is gone but the completed purchase survives; its
	// beat_title snapshot seeds the project.
	mock.ExpectQuery(regexp.QuoteMeta("FROM beats WHERE id=? LIMIT 1")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM purchases WHERE beat_id=? AND buyer_id=? AND payment_status='completed' LIMIT 1")).
		WithArgs(uint64(3), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "beat_id", "beat_title", "buyer_id", "buyer_name",
			"producer_id", "amount_cents", "license_type",
			"payment_method", "payment_status", "created_at",
		}).AddRow(55, 3, "Night Drive", 7, "Artist A", 10, 2999,
			"non_exclusive", "stripe", "completed", now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).
		WithArgs("My Track", uint64(7), uint64(3), "Night Drive", nil, "draft").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id=? LIMIT 1")).
		WithArgs(uint64(21)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "artist_id", "beat_id", "beat_title",
			"description", "status", "created_at", "updated_at",
		}).AddRow(21, "My Track", 7, 3, "Night Drive", nil, "draft", now, now))

	e := echo.New()
	c, rec := jsonContext(e, http.MethodPost, "/v1/projects", `{"title":"My Track","beat_id":3}`)
	asArtist(c, 7)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"beat_title":"Night Drive"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectGetOtherArtistsProjectIsForbidden(t *testing.T) {
	h, mock := newProjectHandler(t)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id=? LIMIT 1")).
		WithArgs(uint64(21)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "artist_id", "beat_id", "beat_title",
			"description", "status", "created_at", "updated_at",
		}).AddRow(21, "My Track", 8, 3, "Night Drive", nil, "draft", now, now))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/projects/21", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/projects/:id")
	c.SetParamNames("id")
	c.SetParamValues("21")
	asArtist(c, 7) // project belongs to artist 8

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectUpdateRejectsUnknownStatus(t *testing.T) {
	h, mock := newProjectHandler(t)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id=? LIMIT 1")).
		WithArgs(uint64(21)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "artist_id", "beat_id", "beat_title",
			"description", "status", "created_at", "updated_at",
		}).AddRow(21, "My Track", 7, 3, "Night Drive", nil, "draft", now, now))

	e := echo.New()
	c, rec := jsonContext(e, http.MethodPut, "/v1/projects/21", `{"status":"shipped"}`)
	c.SetPath("/v1/projects/:id")
	c.SetParamNames("id")
	c.SetParamValues("21")
	asArtist(c, 7)

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
