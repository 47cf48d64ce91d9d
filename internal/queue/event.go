// Package queue defines message payloads exchanged over the message broker.
package queue

// PurchaseCompletedEvent is published when a beat purchase completes.
// It carries enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type PurchaseCompletedEvent struct {
	PurchaseID    uint64 `json:"purchase_id"`
	BeatID        uint64 `json:"beat_id"`
	BeatTitle     string `json:"beat_title"`
	BuyerID       uint64 `json:"buyer_id"`
	BuyerName     string `json:"buyer_name"`
	ProducerID    uint64 `json:"producer_id"`
	AmountCents   uint32 `json:"amount_cents"`
	LicenseType   string `json:"license_type"`
	PaymentMethod string `json:"payment_method"`
	CompletedAt   string `json:"completed_at"`
}
