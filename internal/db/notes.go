package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trailhead/internal/models"
)

// CreateNote inserts a note.
func (d *DB) CreateNote(ctx context.Context, n *models.Note) error {
	query := `
		INSERT INTO notes (user_id, hike_id, camping_site_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := d.q.QueryRow(ctx, query, n.UserID, n.HikeID, n.CampingSiteID, n.Content).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	return translate(err)
}

// GetNote retrieves a note by ID.
func (d *DB) GetNote(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	var n models.Note
	err := d.q.QueryRow(ctx, `
		SELECT id, user_id, hike_id, camping_site_id, content, created_at, updated_at
		FROM notes WHERE id = $1
	`, id).Scan(&n.ID, &n.UserID, &n.HikeID, &n.CampingSiteID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotes returns a user's notes, optionally narrowed to one hike or camping site.
func (d *DB) ListNotes(ctx context.Context, userID uuid.UUID, hikeID, campingSiteID *uuid.UUID) ([]models.Note, error) {
	rows, err := d.q.Query(ctx, `
		SELECT id, user_id, hike_id, camping_site_id, content, created_at, updated_at
		FROM notes
		WHERE user_id = $1
			AND ($2::uuid IS NULL OR hike_id = $2::uuid)
			AND ($3::uuid IS NULL OR camping_site_id = $3::uuid)
		ORDER BY updated_at DESC
	`, userID, hikeID, campingSiteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.HikeID, &n.CampingSiteID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// UpdateNote replaces the note content.
func (d *DB) UpdateNote(ctx context.Context, n *models.Note) error {
	err := d.q.QueryRow(ctx, `
		UPDATE notes SET content = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`, n.Content, n.ID).Scan(&n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoteNotFound
	}
	return translate(err)
}

// DeleteNote removes a note.
func (d *DB) DeleteNote(ctx context.Context, id uuid.UUID) error {
	tag, err := d.q.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}
