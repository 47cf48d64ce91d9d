package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/beat-marketplace/internal/model"
)

func TestCreateTxDuplicateMapsToConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPurchaseRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO purchases")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '3-7' for key 'uq_beat_buyer'"))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	p := model.Purchase{BeatID: 3, BuyerID: 7, PaymentStatus: model.PaymentCompleted}
	err = repo.CreateTx(context.Background(), tx, &p)
	assert.ErrorIs(t, err, ErrAlreadyPurchased)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTxSuccessSetsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPurchaseRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO purchases")).
		WithArgs(uint64(3), "Night Drive", uint64(7), "Artist A", uint64(10),
			uint32(2999), "non_exclusive", "stripe", "completed").
		WillReturnResult(sqlmock.NewResult(55, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	p := model.Purchase{
		BeatID:        3,
		BeatTitle:     "Night Drive",
		BuyerID:       7,
		BuyerName:     "Artist A",
		ProducerID:    10,
		AmountCents:   2999,
		LicenseType:   "non_exclusive",
		PaymentMethod: "stripe",
		PaymentStatus: "completed",
	}
	require.NoError(t, repo.CreateTx(context.Background(), tx, &p))
	assert.Equal(t, uint64(55), p.ID)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsCompleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPurchaseRepo(db)

	q := regexp.QuoteMeta("SELECT 1 FROM purchases WHERE beat_id=? AND buyer_id=? AND payment_status='completed' LIMIT 1")

	mock.ExpectQuery(q).WithArgs(uint64(3), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	ok, err := repo.ExistsCompleted(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(q).WithArgs(uint64(3), uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	ok, err = repo.ExistsCompleted(context.Background(), 3, 8)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByBuyer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPurchaseRepo(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "beat_id", "beat_title", "buyer_id", "buyer_name",
		"producer_id", "amount_cents", "license_type",
		"payment_method", "payment_status", "created_at",
	}).
		AddRow(2, 4, "Sunset", 7, "Artist A", 10, 1500, "exclusive", "pix", "completed", now).
		AddRow(1, 3, "Night Drive", 7, "Artist A", 10, 2999, "non_exclusive", "stripe", "completed", now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+purchaseColumns+" FROM purchases WHERE buyer_id=? ORDER BY created_at DESC")).
		WithArgs(uint64(7)).
		WillReturnRows(rows)

	ps, err := repo.ListByBuyer(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "Sunset", ps[0].BeatTitle)
	assert.Equal(t, uint32(2999), ps[1].AmountCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}
