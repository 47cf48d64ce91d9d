package handler

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/beat-marketplace/internal/config"
	"github.com/iliyamo/beat-marketplace/internal/repository"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 30,
		BcryptCost:     4,
	}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func TestRegisterRejectsUnknownUserType(t *testing.T) {
	h, _ := newAuthHandler(t)

	e := echo.New()
	c, rec := jsonContext(e, http.MethodPost, "/v1/auth/register",
		`{"email":"a@b.c","password":"pw","name":"N","user_type":"admin"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user_type")
}

func TestRegisterRequiresFields(t *testing.T) {
	h, _ := newAuthHandler(t)

	e := echo.New()
	c, rec := jsonContext(e, http.MethodPost, "/v1/auth/register",
		`{"email":"a@b.c","user_type":"artist"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(assertableDuplicateErr{})

	e := echo.New()
	c, rec := jsonContext(e, http.MethodPost, "/v1/auth/register",
		`{"email":"a@b.c","password":"pw","name":"N","user_type":"producer"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// assertableDuplicateErr mimics the driver's unique-violation message.
type assertableDuplicateErr struct{}

func (assertableDuplicateErr) Error() string {
	return "Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.email'"
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=? LIMIT 1")).
		WithArgs("a@b.c").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	e := echo.New()
	c, rec := jsonContext(e, http.MethodPost, "/v1/auth/login",
		`{"email":"a@b.c","password":"pw"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE users SET bio=?, updated_at=NOW() WHERE id=?")).
		WithArgs("new bio", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=? LIMIT 1")).
		WithArgs(uint64(7)).
		WillReturnRows(userRow(7, "Artist A", "artist"))

	e := echo.New()
	c, rec := jsonContext(e, http.MethodPut, "/v1/profile", `{"bio":"new bio"}`)
	asArtist(c, 7)

	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password") // hash never serialized
	assert.NoError(t, mock.ExpectationsWereMet())
}
