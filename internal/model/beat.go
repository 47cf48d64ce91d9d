package model

import "time"

// Beat represents a beat listing as stored in the `beats` table.
// A beat is owned by the producer who uploaded it; only that
// producer may edit or delete it.  The producer's display name is
// copied onto the row at creation time and intentionally never
// re-synced when the producer later renames themselves, so receipts
// and catalog snapshots keep their historical values.
//
// Prices are stored as integer cents to avoid floating point
// drift; handlers expose both the cent value and a derived float.
//
// Fields:
//
//	ID           – primary key identifier.
//	ProducerID   – user that uploaded the beat.
//	ProducerName – denormalized copy of the producer's name.
//	Title        – beat title.
//	Genre        – genre label used for exact-match filtering.
//	BPM          – tempo in beats per minute.
//	MusicalKey   – musical key (e.g. "C#m").
//	Description  – free-text description.
//	PriceCents   – listing price in cents (non-negative).
//	LicenseType  – "exclusive" or "non_exclusive".
//	AudioURL     – serveable path of the uploaded audio preview.
//	CoverURL     – serveable path of the cover image (nullable).
//	Tags         – comma-joined tag set (unordered).
//	Plays        – monotonic play counter, bumped on every detail fetch.
//	Purchases    – monotonic purchase counter, bumped on every sale.
//	CreatedAt    – creation timestamp.
//	UpdatedAt    – last update timestamp.
type Beat struct {
	ID           uint64    // beats.id
	ProducerID   uint64    // beats.producer_id
	ProducerName string    // beats.producer_name (denormalized)
	Title        string    // beats.title
	Genre        string    // beats.genre
	BPM          int       // beats.bpm
	MusicalKey   string    // beats.musical_key
	Description  string    // beats.description
	PriceCents   uint32    // beats.price_cents
	LicenseType  string    // beats.license_type
	AudioURL     string    // beats.audio_url
	CoverURL     *string   // beats.cover_url (nullable)
	Tags         string    // beats.tags (comma-joined)
	Plays        uint64    // beats.plays
	Purchases    uint64    // beats.purchases
	CreatedAt    time.Time // beats.created_at
	UpdatedAt    time.Time // beats.updated_at
}

// License type enumeration values stored in beats.license_type and copied
// onto purchases at sale time.
const (
	LicenseExclusive    = "exclusive"
	LicenseNonExclusive = "non_exclusive"
)
