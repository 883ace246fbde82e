package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trailhead/internal/models"
)

// CreateQueueEntry adds an entity to the moderation queue.
func (d *DB) CreateQueueEntry(ctx context.Context, e *models.ModerationEntry) error {
	query := `
		INSERT INTO moderation_queue (entity_type, entity_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if e.Status == "" {
		e.Status = models.StatusPending
	}
	err := d.q.QueryRow(ctx, query, e.EntityType, e.EntityID, e.Status).Scan(&e.ID, &e.CreatedAt)
	if pgCode(err) == pgUniqueViolation {
		return ErrDuplicateQueueEntry
	}
	return translate(err)
}

// GetQueueEntry retrieves the queue entry for an entity.
func (d *DB) GetQueueEntry(ctx context.Context, kind string, entityID uuid.UUID) (*models.ModerationEntry, error) {
	query := `
		SELECT id, entity_type, entity_id, status, reviewed_by, reviewed_at, created_at
		FROM moderation_queue WHERE entity_type = $1 AND entity_id = $2
	`
	var e models.ModerationEntry
	err := d.q.QueryRow(ctx, query, kind, entityID).Scan(
		&e.ID, &e.EntityType, &e.EntityID, &e.Status, &e.ReviewedBy, &e.ReviewedAt, &e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQueueEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DecideQueueEntry records a review decision. Re-deciding overwrites the
// reviewer and timestamp.
func (d *DB) DecideQueueEntry(ctx context.Context, kind string, entityID uuid.UUID, status string, reviewerID uuid.UUID) (*models.ModerationEntry, error) {
	query := `
		UPDATE moderation_queue
		SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE entity_type = $4 AND entity_id = $5
		RETURNING id, entity_type, entity_id, status, reviewed_by, reviewed_at, created_at
	`
	var e models.ModerationEntry
	err := d.q.QueryRow(ctx, query, status, reviewerID, time.Now(), kind, entityID).Scan(
		&e.ID, &e.EntityType, &e.EntityID, &e.Status, &e.ReviewedBy, &e.ReviewedAt, &e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQueueEntryNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// ListQueue returns queue entries with entity and submitter details, oldest
// first. An empty status lists every entry.
func (d *DB) ListQueue(ctx context.Context, status string) ([]models.ModerationEntry, error) {
	query := `
		SELECT q.id, q.entity_type, q.entity_id, q.status, q.reviewed_by, q.reviewed_at, q.created_at,
			COALESCE(h.name, c.name, ''), COALESCE(h.created_by, c.created_by),
			COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM moderation_queue q
		LEFT JOIN hikes h ON q.entity_type = 'hike' AND h.id = q.entity_id
		LEFT JOIN camping_sites c ON q.entity_type = 'camping_site' AND c.id = q.entity_id
		LEFT JOIN users u ON u.id = COALESCE(h.created_by, c.created_by)
		WHERE ($1::text = '' OR q.status = $1::text)
		ORDER BY q.created_at ASC
	`
	rows, err := d.q.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.ModerationEntry{}
	for rows.Next() {
		var e models.ModerationEntry
		if err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Status, &e.ReviewedBy, &e.ReviewedAt, &e.CreatedAt,
			&e.EntityName, &e.SubmittedBy, &e.AuthorName, &e.AuthorEmail,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountQueueByStatus returns the number of queue entries per kind for a status.
func (d *DB) CountQueueByStatus(ctx context.Context, status string) (map[string]int64, error) {
	rows, err := d.q.Query(ctx, `
		SELECT entity_type, COUNT(*) FROM moderation_queue
		WHERE status = $1 GROUP BY entity_type
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{models.KindHike: 0, models.KindCampingSite: 0}
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
