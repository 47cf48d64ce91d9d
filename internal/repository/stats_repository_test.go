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

func TestProducerDashboardAggregates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStatsRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*), COALESCE(SUM(plays),0) FROM beats WHERE producer_id=?")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "plays"}).AddRow(4, 250))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*), COALESCE(SUM(amount_cents),0) FROM purchases WHERE producer_id=?")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "revenue"}).AddRow(3, 8997))

	s, err := repo.ProducerDashboard(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), s.TotalBeats)
	assert.Equal(t, uint64(250), s.TotalPlays)
	assert.Equal(t, uint64(3), s.TotalSales)
	assert.Equal(t, uint64(8997), s.TotalRevenueCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProducerDashboardEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStatsRepo(db)

	// COALESCE keeps the sums at zero for a producer with no rows.
	mock.ExpectQuery(regexp.QuoteMeta("FROM beats WHERE producer_id=?")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "plays"}).AddRow(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM purchases WHERE producer_id=?")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "revenue"}).AddRow(0, 0))

	s, err := repo.ProducerDashboard(context.Background(), 99)
	require.NoError(t, err)
	assert.Zero(t, s.TotalBeats)
	assert.Zero(t, s.TotalRevenueCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtistDashboardAggregates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStatsRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*), COALESCE(SUM(amount_cents),0) FROM purchases WHERE buyer_id=?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "spent"}).AddRow(2, 4498))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM projects WHERE artist_id=?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	s, err := repo.ArtistDashboard(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.TotalPurchases)
	assert.Equal(t, uint64(1), s.TotalProjects)
	assert.Equal(t, uint64(4498), s.TotalSpentCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProducersBySales(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStatsRepo(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "name", "bio", "avatar_url", "created_at", "total_beats", "total_sales",
	}).
		AddRow(10, "Top Prod", nil, nil, now, 5, 12).
		AddRow(11, "Other Prod", "bio", nil, now, 2, 3)

	mock.ExpectQuery("ORDER BY total_sales DESC").
		WithArgs(2).
		WillReturnRows(rows)

	producers, err := repo.ListProducersBySales(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, producers, 2)
	assert.Equal(t, uint64(12), producers[0].TotalSales)
	assert.Equal(t, "Top Prod", producers[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProducersRecentFillsCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStatsRepo(db)

	now := time.Now().UTC()
	mock.ExpectQuery("ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "avatar_url", "created_at"}).
			AddRow(11, "New Prod", nil, nil, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM beats WHERE producer_id=?")).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM purchases WHERE producer_id=?")).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	producers, err := repo.ListProducersRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, producers, 1)
	assert.Equal(t, uint64(2), producers[0].TotalBeats)
	assert.Equal(t, uint64(1), producers[0].TotalSales)
	assert.NoError(t, mock.ExpectationsWereMet())
}
