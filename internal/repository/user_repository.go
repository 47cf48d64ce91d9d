package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/beat-marketplace/internal/model"
	"github.com/iliyamo/beat-marketplace/internal/utils"
)

// UserRepo provides access to the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// PublicUser is the sanitized projection of a user returned by public
// endpoints and embedded in auth responses.  The password hash is never
// part of this shape.
type PublicUser struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	UserType  string    `json:"user_type"`
	Bio       *string   `json:"bio,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Public converts a model.User into its sanitized projection.
func Public(u model.User) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		UserType:  u.UserType,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// Create inserts a user and returns its ID.  The unique index on
// users.email is the duplicate guard; MySQL error 1062 is mapped to
// ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, name, userType string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, user_type) VALUES (?,?,?,?)",
		email, hash, name, userType)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx, "SELECT id,email,password_hash,name,user_type,bio,avatar_url,created_at,updated_at FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx, "SELECT id,email,password_hash,name,user_type,bio,avatar_url,created_at,updated_at FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var (
		u      model.User
		bio    sql.NullString
		avatar sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.UserType,
		&bio, &avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	if bio.Valid {
		b := bio.String
		u.Bio = &b
	}
	if avatar.Valid {
		a := avatar.String
		u.AvatarURL = &a
	}
	return u, nil
}

// UpdateProfile applies a partial update to a user.  The fields map
// carries only the columns being changed (name, bio, avatar_url), which
// keeps "unset" distinct from "explicitly cleared": a key that is absent
// is left untouched, a key present with an empty value overwrites.
// Column names are whitelisted by the handler; keys are sorted so the
// generated SQL is deterministic.  An empty map is a no-op.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fields map[string]interface{}) error {
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
	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id=?"
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}
