package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beatMockRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "producer_id", "producer_name", "title", "genre", "bpm",
		"musical_key", "description", "price_cents", "license_type",
		"audio_url", "cover_url", "tags", "plays", "purchases",
		"created_at", "updated_at",
	}).AddRow(
		1, 10, "Prod One", "Night Drive", "trap", 140,
		"C#m", "dark trap beat", 2999, "non_exclusive",
		"/static/audio/a.mp3", nil, "dark,trap", 5, 2,
		now, now,
	)
}

func TestSearchDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBeatRepo(db)

	query := "SELECT " + beatColumns + " FROM beats WHERE 1=1 ORDER BY created_at DESC LIMIT ?"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(50).
		WillReturnRows(beatMockRows())

	beats, err := repo.Search(context.Background(), BeatSearchQuery{
		MinBPM: -1, MaxBPM: -1, MaxPriceCents: -1,
	})
	require.NoError(t, err)
	require.Len(t, beats, 1)
	assert.Equal(t, "Night Drive", beats[0].Title)
	assert.Nil(t, beats[0].CoverURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchFiltersAndArgs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBeatRepo(db)

	query := "SELECT " + beatColumns + " FROM beats WHERE genre = ? AND bpm >= ? AND bpm <= ? AND price_cents <= ? " +
		"AND (LOWER(title) LIKE ? OR LOWER(producer_name) LIKE ? OR LOWER(tags) LIKE ?) " +
		"ORDER BY plays DESC LIMIT ?"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("trap", 120, 160, int64(5000), "%night%", "%night%", "%night%", 20).
		WillReturnRows(beatMockRows())

	beats, err := repo.Search(context.Background(), BeatSearchQuery{
		Genre:         "trap",
		Search:        "Night",
		MinBPM:        120,
		MaxBPM:        160,
		MaxPriceCents: 5000,
		SortBy:        "plays",
		Limit:         20,
	})
	require.NoError(t, err)
	assert.Len(t, beats, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchSortWhitelist(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBeatRepo(db)

	// Unknown sort keys fall back to created_at DESC rather than reaching
	// the ORDER BY clause.
	query := "SELECT " + beatColumns + " FROM beats WHERE 1=1 ORDER BY created_at DESC LIMIT ?"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(50).
		WillReturnRows(beatMockRows())

	_, err = repo.Search(context.Background(), BeatSearchQuery{
		MinBPM: -1, MaxBPM: -1, MaxPriceCents: -1,
		SortBy: "id; DROP TABLE beats",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPriceAliasSortsByCentsAscending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBeatRepo(db)

	// Clients sort by "price"; the stored column is price_cents and
	// cheap-first is the useful direction.
	query := "SELECT " + beatColumns + " FROM beats WHERE 1=1 ORDER BY price_cents ASC LIMIT ?"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(50).
		WillReturnRows(beatMockRows())

	_, err = repo.Search(context.Background(), BeatSearchQuery{
		MinBPM: -1, MaxBPM: -1, MaxPriceCents: -1,
		SortBy: "price",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAscendingForPrice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBeatRepo(db)

	query := "SELECT " + beatColumns + " FROM beats WHERE 1=1 ORDER BY price_cents ASC LIMIT ?"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(50).
		WillReturnRows(beatMockRows())

	_, err = repo.Search(context.Background(), BeatSearchQuery{
		MinBPM: -1, MaxBPM: -1, MaxPriceCents: -1,
		SortBy: "price_cents",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
