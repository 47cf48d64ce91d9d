package model

import "time"

// Purchase records an artist buying a beat.  Rows are immutable
// once written: the amount and license type are copied from the
// beat at purchase time and are NOT live-linked to later price or
// license edits, and the beat/buyer names are denormalized for the
// same receipt-accuracy reason.
//
// The `purchases` table carries a UNIQUE KEY over (beat_id,
// buyer_id).  That constraint, not the application-level existence
// check, is the authoritative guard against duplicate purchases:
// two concurrent attempts for the same pair both race past the
// check, but only one insert can succeed and the loser surfaces a
// conflict.
//
// Fields:
//
//	ID            – primary key identifier.
//	BeatID        – beat that was purchased.
//	BeatTitle     – denormalized copy of the beat title.
//	BuyerID       – artist who bought the beat.
//	BuyerName     – denormalized copy of the buyer's name.
//	ProducerID    – producer credited with the sale.
//	AmountCents   – price in cents copied from the beat at purchase time.
//	LicenseType   – license copied from the beat at purchase time.
//	PaymentMethod – "stripe", "paypal" or "pix".
//	PaymentStatus – "pending", "completed" or "failed".
//	CreatedAt     – creation timestamp.
type Purchase struct {
	ID            uint64    // purchases.id
	BeatID        uint64    // purchases.beat_id
	BeatTitle     string    // purchases.beat_title (denormalized)
	BuyerID       uint64    // purchases.buyer_id
	BuyerName     string    // purchases.buyer_name (denormalized)
	ProducerID    uint64    // purchases.producer_id
	AmountCents   uint32    // purchases.amount_cents
	LicenseType   string    // purchases.license_type
	PaymentMethod string    // purchases.payment_method
	PaymentStatus string    // purchases.payment_status
	CreatedAt     time.Time // purchases.created_at
}

// Payment method enumeration values accepted on purchase creation.
const (
	PaymentStripe = "stripe"
	PaymentPaypal = "paypal"
	PaymentPix    = "pix"
)

// Payment status enumeration values.  There is no payment gateway in this
// system; purchases are written as "completed" immediately.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)
