// Package admin implements the Admin account repository using PostgreSQL.
package admin

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ezbjus/bariwikiemerg/internal/adapter/postgres"
	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// Repo provides admin account persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new admin repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByUsername returns the admin account for a username.
// Returns domain.ErrNotFound when no such account exists.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM admins
		WHERE username = $1`, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "admin", username)
	}
	return &a, nil
}

// Create inserts a new admin account.
// Returns domain.ErrAlreadyExists when the username is taken.
func (r *Repo) Create(ctx context.Context, a *domain.Admin) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admins (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		a.ID, a.Username, a.PasswordHash, a.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "admin", a.Username)
	}
	return nil
}
