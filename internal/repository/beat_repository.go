package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/beat-marketplace/internal/model"
)

// BeatRepo provides access to the beats table.
type BeatRepo struct{ DB *sql.DB }

func NewBeatRepo(db *sql.DB) *BeatRepo { return &BeatRepo{DB: db} }

const beatColumns = "id,producer_id,producer_name,title,genre,bpm,musical_key,description,price_cents,license_type,audio_url,cover_url,tags,plays,purchases,created_at,updated_at"

// Create inserts a beat and fills in its generated ID. producer_name is a
// denormalized copy taken at upload time and never re-synced afterwards.
func (r *BeatRepo) Create(ctx context.Context, b *model.Beat) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO beats
			(producer_id, producer_name, title, genre, bpm, musical_key, description,
			 price_cents, license_type, audio_url, cover_url, tags)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.ProducerID, b.ProducerName, b.Title, b.Genre, b.BPM, b.MusicalKey,
		b.Description, b.PriceCents, b.LicenseType, b.AudioURL, b.CoverURL, b.Tags)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches a single beat. Missing rows map to ErrBeatNotFound so
// handlers can report 404 before any ownership check.
func (r *BeatRepo) GetByID(ctx context.Context, id uint64) (model.Beat, error) {
	var (
		b     model.Beat
		cover sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+beatColumns+" FROM beats WHERE id=? LIMIT 1", id).Scan(
		&b.ID, &b.ProducerID, &b.ProducerName, &b.Title, &b.Genre, &b.BPM,
		&b.MusicalKey, &b.Description, &b.PriceCents, &b.LicenseType,
		&b.AudioURL, &cover, &b.Tags, &b.Plays, &b.Purchases,
		&b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return b, ErrBeatNotFound
	}
	if err != nil {
		return b, err
	}
	if cover.Valid {
		c := cover.String
		b.CoverURL = &c
	}
	return b, nil
}

// IncrementPlays bumps the play counter by one. The counter update is a
// single atomic statement so concurrent detail fetches never lose a play.
func (r *BeatRepo) IncrementPlays(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE beats SET plays = plays + 1 WHERE id=?", id)
	return err
}

// IncrementPurchasesTx bumps the purchase counter inside the caller's
// transaction so the counter and the purchase row commit or roll back
// together.
func (r *BeatRepo) IncrementPurchasesTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, "UPDATE beats SET purchases = purchases + 1 WHERE id=?", id)
	return err
}

// ListByProducer returns all beats uploaded by a producer, newest first.
func (r *BeatRepo) ListByProducer(ctx context.Context, producerID uint64) ([]model.Beat, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+beatColumns+" FROM beats WHERE producer_id=? ORDER BY created_at DESC",
		producerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBeats(rows)
}

// UpdateFields applies a partial update to a beat. Keys are the column
// names the handler whitelists; sorting keeps the generated SQL stable.
func (r *BeatRepo) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	cols := make([]string, 0, len(fields))
	for k := range fields {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	sets := make([]string, 0, len(cols)+1)
	args := make([]interface{}, 0, len(cols)+1)
	for _, k := range cols {
		sets = append(sets, fmt.Sprintf("%s=?", k))
		args = append(args, fields[k])
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE beats SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	return err
}

// Delete removes a beat row. Purchases and projects that reference the
// beat keep their denormalized copies; nothing cascades.
func (r *BeatRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM beats WHERE id=?", id)
	return err
}

func scanBeats(rows *sql.Rows) ([]model.Beat, error) {
	out := []model.Beat{}
	for rows.Next() {
		var (
			b     model.Beat
			cover sql.NullString
		)
		if err := rows.Scan(
			&b.ID, &b.ProducerID, &b.ProducerName, &b.Title, &b.Genre, &b.BPM,
			&b.MusicalKey, &b.Description, &b.PriceCents, &b.LicenseType,
			&b.AudioURL, &cover, &b.Tags, &b.Plays, &b.Purchases,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if cover.Valid {
			c := cover.String
			b.CoverURL = &c
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
