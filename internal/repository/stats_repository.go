package repository

import (
	"context"
	"database/sql"
	"time"
)

// StatsRepo computes dashboard aggregates. Numbers are recomputed from
// the base tables on every call; nothing here is cached or denormalized.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// ProducerStats holds the producer dashboard aggregates.
type ProducerStats struct {
	TotalBeats        uint64
	TotalPlays        uint64
	TotalSales        uint64
	TotalRevenueCents uint64
}

// ArtistStats holds the artist dashboard aggregates.
type ArtistStats struct {
	TotalPurchases  uint64
	TotalProjects   uint64
	TotalSpentCents uint64
}

// ProducerRow is one entry in the public producer listing, carrying the
// per-producer catalog and sales counts alongside the profile fields.
type ProducerRow struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Bio        *string   `json:"bio,omitempty"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	TotalBeats uint64    `json:"total_beats"`
	TotalSales uint64    `json:"total_sales"`
}

// ProducerDashboard aggregates over the producer's beats and sales.
func (r *StatsRepo) ProducerDashboard(ctx context.Context, producerID uint64) (ProducerStats, error) {
	var s ProducerStats
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(plays),0) FROM beats WHERE producer_id=?",
		producerID).Scan(&s.TotalBeats, &s.TotalPlays)
	if err != nil {
		return s, err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(amount_cents),0) FROM purchases WHERE producer_id=?",
		producerID).Scan(&s.TotalSales, &s.TotalRevenueCents)
	return s, err
}

// ArtistDashboard aggregates over the artist's purchases and projects.
func (r *StatsRepo) ArtistDashboard(ctx context.Context, artistID uint64) (ArtistStats, error) {
	var s ArtistStats
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(amount_cents),0) FROM purchases WHERE buyer_id=?",
		artistID).Scan(&s.TotalPurchases, &s.TotalSpentCents)
	if err != nil {
		return s, err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM projects WHERE artist_id=?",
		artistID).Scan(&s.TotalProjects)
	return s, err
}

// ListProducersBySales returns producers ranked by number of sales.
// A single grouped query computes both counts; DISTINCT keeps the two
// LEFT JOINs from inflating each other.
func (r *StatsRepo) ListProducersBySales(ctx context.Context, limit int) ([]ProducerRow, error) {
	query := `SELECT
			u.id, u.name, u.bio, u.avatar_url, u.created_at,
			COUNT(DISTINCT b.id) AS total_beats,
			COUNT(DISTINCT p.id) AS total_sales
		FROM users u
		LEFT JOIN beats b     ON b.producer_id = u.id
		LEFT JOIN purchases p ON p.producer_id = u.id
		WHERE u.user_type = 'producer'
		GROUP BY u.id, u.name, u.bio, u.avatar_url, u.created_at
		ORDER BY total_sales DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducerRows(rows)
}

// ListProducersRecent returns producers newest first with their counts
// filled in by per-producer queries.
func (r *StatsRepo) ListProducersRecent(ctx context.Context, limit int) ([]ProducerRow, error) {
	query := `SELECT id, name, bio, avatar_url, created_at
		FROM users WHERE user_type = 'producer'
		ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := []ProducerRow{}
	for rows.Next() {
		var (
			p      ProducerRow
			bio    sql.NullString
			avatar sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &bio, &avatar, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		if bio.Valid {
			b := bio.String
			p.Bio = &b
		}
		if avatar.Valid {
			a := avatar.String
			p.AvatarURL = &a
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	for i := range out {
		if err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM beats WHERE producer_id=?", out[i].ID).Scan(&out[i].TotalBeats); err != nil {
			return nil, err
		}
		if err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM purchases WHERE producer_id=?", out[i].ID).Scan(&out[i].TotalSales); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func scanProducerRows(rows *sql.Rows) ([]ProducerRow, error) {
	out := []ProducerRow{}
	for rows.Next() {
		var (
			p      ProducerRow
			bio    sql.NullString
			avatar sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &bio, &avatar, &p.CreatedAt,
			&p.TotalBeats, &p.TotalSales); err != nil {
			return nil, err
		}
		if bio.Valid {
			b := bio.String
			p.Bio = &b
		}
		if avatar.Valid {
			a := avatar.String
			p.AvatarURL = &a
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
