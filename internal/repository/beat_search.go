package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/beat-marketplace/internal/model"
)

// BeatSearchQuery defines filters & ordering for browsing the catalog.
// Zero values mean "no filter"; MinBPM/MaxBPM/MaxPriceCents use -1 as
// their unset marker because 0 is a legal bound.
type BeatSearchQuery struct {
	Genre         string
	Search        string
	MinBPM        int
	MaxBPM        int
	MaxPriceCents int64
	SortBy        string
	Limit         int
}

// descendingSorts lists the sort keys that order newest/biggest first.
// Every other whitelisted key sorts ascending.
var descendingSorts = map[string]bool{
	"created_at": true,
	"plays":      true,
	"purchases":  true,
}

// sortColumns maps wire-level sort keys onto catalog columns so client
// input never reaches the ORDER BY clause directly. "price" is the
// public name of the price_cents column.
var sortColumns = map[string]string{
	"created_at":  "created_at",
	"plays":       "plays",
	"purchases":   "purchases",
	"price":       "price_cents",
	"price_cents": "price_cents",
	"bpm":         "bpm",
	"title":       "title",
}

// Search runs the catalog query. Filters are conjunctive; the free-text
// search is a case-insensitive LIKE over title, producer_name and tags.
func (r *BeatRepo) Search(ctx context.Context, q BeatSearchQuery) ([]model.Beat, error) {
	where := []string{}
	args := []any{}

	if q.Genre != "" {
		where = append(where, "genre = ?")
		args = append(args, q.Genre)
	}
	if q.MinBPM >= 0 {
		where = append(where, "bpm >= ?")
		args = append(args, q.MinBPM)
	}
	if q.MaxBPM >= 0 {
		where = append(where, "bpm <= ?")
		args = append(args, q.MaxBPM)
	}
	if q.MaxPriceCents >= 0 {
		where = append(where, "price_cents <= ?")
		args = append(args, q.MaxPriceCents)
	}
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(producer_name) LIKE ? OR LOWER(tags) LIKE ?)")
		args = append(args, needle, needle, needle)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	sortBy, known := sortColumns[q.SortBy]
	if !known {
		sortBy = "created_at"
	}
	dir := "ASC"
	if descendingSorts[sortBy] {
		dir = "DESC"
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	dataSQL := "SELECT " + beatColumns + " FROM beats WHERE " + cond +
		" ORDER BY " + sortBy + " " + dir + " LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBeats(rows)
}
