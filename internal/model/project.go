package model

import "time"

// Project tracks an artist's post-purchase work on a beat.  A
// project may only be created when a completed purchase exists for
// the (artist, beat) pair, and it is only ever visible to the
// artist who created it.  The beat title is copied at creation
// time and survives later edits or even deletion of the beat.
//
// Status forms a forward-leaning progression (draft → mixing →
// mastering → completed) but transitions are not strictly
// enforced; artists can move back and forth freely.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – project title.
//	ArtistID    – artist who owns the project.
//	BeatID      – beat the project is built on.
//	BeatTitle   – denormalized copy of the beat title.
//	Description – optional free-text description (nullable).
//	Status      – "draft", "mixing", "mastering" or "completed".
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – bumped on every title/description/status update.
type Project struct {
	ID          uint64    // projects.id
	Title       string    // projects.title
	ArtistID    uint64    // projects.artist_id
	BeatID      uint64    // projects.beat_id
	BeatTitle   string    // projects.beat_title (denormalized)
	Description *string   // projects.description (nullable)
	Status      string    // projects.status
	CreatedAt   time.Time // projects.created_at
	UpdatedAt   time.Time // projects.updated_at
}

// Project status enumeration values.
const (
	ProjectDraft     = "draft"
	ProjectMixing    = "mixing"
	ProjectMastering = "mastering"
	ProjectCompleted = "completed"
)
