package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trailhead/internal/models"
)

const alterationSelect = `
	SELECT a.id, a.hike_id, a.camping_site_id, a.field_name, a.old_value, a.new_value, a.reason,
		a.status, a.submitted_by, a.reviewed_by, a.reviewed_at, a.created_at,
		COALESCE(h.name, c.name, ''), COALESCE(u.name, ''), COALESCE(u.email, '')
	FROM alterations a
	LEFT JOIN hikes h ON h.id = a.hike_id
	LEFT JOIN camping_sites c ON c.id = a.camping_site_id
	LEFT JOIN users u ON u.id = a.submitted_by
`

func scanAlteration(row pgx.Row) (*models.Alteration, error) {
	var a models.Alteration
	err := row.Scan(
		&a.ID, &a.HikeID, &a.CampingSiteID, &a.FieldName, &a.OldValue, &a.NewValue, &a.Reason,
		&a.Status, &a.SubmittedBy, &a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt,
		&a.EntityName, &a.AuthorName, &a.AuthorEmail,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAlteration inserts a pending alteration.
func (d *DB) CreateAlteration(ctx context.Context, a *models.Alteration) error {
	query := `
		INSERT INTO alterations (hike_id, camping_site_id, field_name, old_value, new_value, reason, status, submitted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, status, created_at
	`
	err := d.q.QueryRow(ctx, query,
		a.HikeID, a.CampingSiteID, a.FieldName, a.OldValue, a.NewValue, a.Reason, models.StatusPending, a.SubmittedBy,
	).Scan(&a.ID, &a.Status, &a.CreatedAt)
	return translate(err)
}

// GetAlteration retrieves an alteration with target name and author info.
func (d *DB) GetAlteration(ctx context.Context, id uuid.UUID) (*models.Alteration, error) {
	a, err := scanAlteration(d.q.QueryRow(ctx, alterationSelect+` WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAlterationNotFound
	}
	return a, err
}

// ListAlterations returns alterations matching the filter, oldest first.
func (d *DB) ListAlterations(ctx context.Context, f models.AlterationFilter) ([]models.Alteration, error) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if f.HikeID != nil {
		args = append(args, *f.HikeID)
		conds = append(conds, fmt.Sprintf("a.hike_id = $%d", len(args)))
	}
	if f.CampingSiteID != nil {
		args = append(args, *f.CampingSiteID)
		conds = append(conds, fmt.Sprintf("a.camping_site_id = $%d", len(args)))
	}
	if f.SubmittedBy != nil {
		args = append(args, *f.SubmittedBy)
		conds = append(conds, fmt.Sprintf("a.submitted_by = $%d", len(args)))
	}

	query := alterationSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY a.created_at ASC"

	rows, err := d.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alterations := []models.Alteration{}
	for rows.Next() {
		a, err := scanAlteration(rows)
		if err != nil {
			return nil, err
		}
		alterations = append(alterations, *a)
	}
	return alterations, rows.Err()
}

// DecideAlteration records a review decision on an alteration.
func (d *DB) DecideAlteration(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID) error {
	tag, err := d.q.Exec(ctx, `
		UPDATE alterations
		SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE id = $4
	`, status, reviewerID, time.Now(), id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlterationNotFound
	}
	return nil
}

// DeleteAlteration removes an alteration record.
func (d *DB) DeleteAlteration(ctx context.Context, id uuid.UUID) error {
	tag, err := d.q.Exec(ctx, `DELETE FROM alterations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlterationNotFound
	}
	return nil
}

// CountPendingAlterationsByUser counts a user's pending alterations.
func (d *DB) CountPendingAlterationsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := d.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM alterations WHERE submitted_by = $1 AND status = $2
	`, userID, models.StatusPending).Scan(&n)
	return n, err
}
