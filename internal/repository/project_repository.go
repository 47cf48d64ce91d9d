package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/beat-marketplace/internal/model"
)

// ProjectRepo provides access to the projects table.
type ProjectRepo struct{ DB *sql.DB }

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{DB: db} }

const projectColumns = "id,title,artist_id,beat_id,beat_title,description,status,created_at,updated_at"

// Create inserts a project and fills in its generated ID. beat_title is
// copied from the beat at creation time (snapshot semantics).
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO projects (title, artist_id, beat_id, beat_title, description, status)
		 VALUES (?,?,?,?,?,?)`,
		p.Title, p.ArtistID, p.BeatID, p.BeatTitle, p.Description, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a single project, mapping missing rows to
// ErrProjectNotFound.
func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (model.Project, error) {
	var (
		p    model.Project
		desc sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id=? LIMIT 1", id).Scan(
		&p.ID, &p.Title, &p.ArtistID, &p.BeatID, &p.BeatTitle,
		&desc, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, ErrProjectNotFound
	}
	if err != nil {
		return p, err
	}
	if desc.Valid {
		d := desc.String
		p.Description = &d
	}
	return p, nil
}

// ListByArtist returns an artist's projects ordered by most recently
// touched first.
func (r *ProjectRepo) ListByArtist(ctx context.Context, artistID uint64) ([]model.Project, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE artist_id=? ORDER BY updated_at DESC",
		artistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

// UpdateFields applies a partial update to a project. updated_at is
// always written, even for an empty patch, so any save moves the
// project to the top of the artist's list.
func (r *ProjectRepo) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
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
		"UPDATE projects SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	return err
}

// Delete removes a project row.
func (r *ProjectRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM projects WHERE id=?", id)
	return err
}

func scanProjects(rows *sql.Rows) ([]model.Project, error) {
	out := []model.Project{}
	for rows.Next() {
		var (
			p    model.Project
			desc sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Title, &p.ArtistID, &p.BeatID, &p.BeatTitle,
			&desc, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			p.Description = &d
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
