package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenRow(userID uint64, expires time.Time, revoked interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
		AddRow(userID, expires, revoked)
}

func TestValidateRefreshResolvesActiveToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1")).
		WithArgs("hash-a").
		WillReturnRows(tokenRow(7, time.Now().UTC().Add(time.Hour), nil))

	userID, err := repo.ValidateRefresh(context.Background(), "hash-a")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), userID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefreshRejectsRevokedAndExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTokenRepo(db)

	// A revoked session answers like a token that was never issued.
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=?")).
		WithArgs("hash-revoked").
		WillReturnRows(tokenRow(7, time.Now().UTC().Add(time.Hour), time.Now().UTC()))
	_, err = repo.ValidateRefresh(context.Background(), "hash-revoked")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// Same for one past its expiry.
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=?")).
		WithArgs("hash-expired").
		WillReturnRows(tokenRow(7, time.Now().UTC().Add(-time.Minute), nil))
	_, err = repo.ValidateRefresh(context.Background(), "hash-expired")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeAllForUserTouchesOnlyActiveRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTokenRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.RevokeAllForUser(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
