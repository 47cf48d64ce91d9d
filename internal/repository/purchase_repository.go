package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/beat-marketplace/internal/model"
)

// PurchaseRepo provides access to the purchases table. Purchase rows are
// immutable receipts: beat_title, buyer_name, amount and license_type are
// copied from the beat at purchase time and never updated afterwards.
type PurchaseRepo struct{ DB *sql.DB }

func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{DB: db} }

const purchaseColumns = "id,beat_id,beat_title,buyer_id,buyer_name,producer_id,amount_cents,license_type,payment_method,payment_status,created_at"

// CreateTx inserts a purchase inside the caller's transaction. The
// UNIQUE KEY over (beat_id, buyer_id) is the authoritative duplicate
// guard: MySQL error 1062 maps to ErrAlreadyPurchased, so two racing
// attempts for the same (beat, buyer) pair can never both succeed.
func (r *PurchaseRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Purchase) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO purchases
			(beat_id, beat_title, buyer_id, buyer_name, producer_id,
			 amount_cents, license_type, payment_method, payment_status)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		p.BeatID, p.BeatTitle, p.BuyerID, p.BuyerName, p.ProducerID,
		p.AmountCents, p.LicenseType, p.PaymentMethod, p.PaymentStatus)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAlreadyPurchased
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// ListByBuyer returns an artist's purchases, newest first.
func (r *PurchaseRepo) ListByBuyer(ctx context.Context, buyerID uint64) ([]model.Purchase, error) {
	return r.list(ctx,
		"SELECT "+purchaseColumns+" FROM purchases WHERE buyer_id=? ORDER BY created_at DESC",
		buyerID)
}

// ListByProducer returns sales of a producer's beats, newest first.
func (r *PurchaseRepo) ListByProducer(ctx context.Context, producerID uint64) ([]model.Purchase, error) {
	return r.list(ctx,
		"SELECT "+purchaseColumns+" FROM purchases WHERE producer_id=? ORDER BY created_at DESC",
		producerID)
}

// ExistsCompleted reports whether the buyer holds a completed purchase
// for the beat. Project creation is gated on this.
func (r *PurchaseRepo) ExistsCompleted(ctx context.Context, beatID, buyerID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM purchases WHERE beat_id=? AND buyer_id=? AND payment_status='completed' LIMIT 1",
		beatID, buyerID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetCompleted fetches the buyer's completed purchase of a beat. The
// receipt outlives the beat row, so its snapshot fields (beat_title in
// particular) stay usable after the producer deletes the beat. Missing
// rows map to ErrPurchaseRequired.
func (r *PurchaseRepo) GetCompleted(ctx context.Context, beatID, buyerID uint64) (model.Purchase, error) {
	var p model.Purchase
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+purchaseColumns+" FROM purchases WHERE beat_id=? AND buyer_id=? AND payment_status='completed' LIMIT 1",
		beatID, buyerID).Scan(
		&p.ID, &p.BeatID, &p.BeatTitle, &p.BuyerID, &p.BuyerName,
		&p.ProducerID, &p.AmountCents, &p.LicenseType,
		&p.PaymentMethod, &p.PaymentStatus, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return p, ErrPurchaseRequired
	}
	return p, err
}

func (r *PurchaseRepo) list(ctx context.Context, query string, arg interface{}) ([]model.Purchase, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Purchase{}
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(
			&p.ID, &p.BeatID, &p.BeatTitle, &p.BuyerID, &p.BuyerName,
			&p.ProducerID, &p.AmountCents, &p.LicenseType,
			&p.PaymentMethod, &p.PaymentStatus, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
