package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trailhead/internal/models"
)

const ratingColumns = `id, user_id, hike_id, camping_site_id, rating, review_text, created_at, updated_at`

func scanRating(row pgx.Row) (*models.Rating, error) {
	var r models.Rating
	if err := row.Scan(&r.ID, &r.UserID, &r.HikeID, &r.CampingSiteID, &r.Rating, &r.ReviewText, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpsertRating stores the user's rating of one entity, replacing any earlier
// one. It reports whether a new row was created.
func (d *DB) UpsertRating(ctx context.Context, r *models.Rating) (bool, error) {
	conflict := "(user_id, hike_id)"
	if r.HikeID == nil {
		conflict = "(user_id, camping_site_id)"
	}
	var created bool
	err := d.q.QueryRow(ctx, `
		INSERT INTO ratings (user_id, hike_id, camping_site_id, rating, review_text)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT `+conflict+` DO UPDATE
		SET rating = EXCLUDED.rating, review_text = EXCLUDED.review_text, updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0)
	`, r.UserID, r.HikeID, r.CampingSiteID, r.Rating, r.ReviewText).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &created)
	return created, translate(err)
}

// ListRatings returns an entity's ratings, newest first.
func (d *DB) ListRatings(ctx context.Context, f models.RatingFilter) ([]models.Rating, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.q.Query(ctx, `
		SELECT `+ratingColumns+`
		FROM ratings
		WHERE ($1::uuid IS NULL OR hike_id = $1::uuid)
			AND ($2::uuid IS NULL OR camping_site_id = $2::uuid)
			AND (NOT $3 OR review_text IS NOT NULL)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, f.HikeID, f.CampingSiteID, f.ReviewsOnly, limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, *r)
	}
	return ratings, rows.Err()
}

// DeleteRating removes the user's rating of one entity.
func (d *DB) DeleteRating(ctx context.Context, userID uuid.UUID, kind string, entityID uuid.UUID) error {
	var query string
	switch kind {
	case models.KindHike:
		query = `DELETE FROM ratings WHERE user_id = $1 AND hike_id = $2`
	case models.KindCampingSite:
		query = `DELETE FROM ratings WHERE user_id = $1 AND camping_site_id = $2`
	default:
		return ErrUnknownKind
	}
	tag, err := d.q.Exec(ctx, query, userID, entityID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRatingNotFound
	}
	return nil
}

