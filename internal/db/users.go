package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trailhead/internal/models"
)

// UpsertUser creates or updates a user based on their OIDC subject.
// The request-scoped Role is left untouched.
func (d *DB) UpsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (sub, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (sub) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	return d.q.QueryRow(ctx, query,
		user.Sub,
		user.Email,
		user.Name,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// GetUserBySub retrieves a user by their OIDC subject identifier.
func (d *DB) GetUserBySub(ctx context.Context, sub string) (*models.User, error) {
	return d.getUser(ctx, `SELECT id, sub, email, name, created_at, updated_at FROM users WHERE sub = $1`, sub)
}

// GetUserByID retrieves a user by ID.
func (d *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return d.getUser(ctx, `SELECT id, sub, email, name, created_at, updated_at FROM users WHERE id = $1`, id)
}

func (d *DB) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := d.q.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Sub,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CountUsers returns the number of known users.
func (d *DB) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := d.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
