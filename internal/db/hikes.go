package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trailhead/internal/models"
)

const hikeColumns = `id, name, description, address_id, difficulty, distance, distance_unit,
	duration, duration_unit, elevation, elevation_unit, trail_type, features, dog_friendly,
	permits_required, best_season, water_sources, parking_info, status, featured, created_by,
	created_at, updated_at`

func scanHike(row pgx.Row) (*models.Hike, error) {
	var h models.Hike
	err := row.Scan(
		&h.ID, &h.Name, &h.Description, &h.AddressID, &h.Difficulty, &h.Distance, &h.DistanceUnit,
		&h.Duration, &h.DurationUnit, &h.Elevation, &h.ElevationUnit, &h.TrailType, &h.Features, &h.DogFriendly,
		&h.PermitsRequired, &h.BestSeason, &h.WaterSources, &h.ParkingInfo, &h.Status, &h.Featured, &h.CreatedBy,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// CreateHike inserts a new hike. The status column is always written as pending.
func (d *DB) CreateHike(ctx context.Context, h *models.Hike) error {
	query := `
		INSERT INTO hikes (name, description, address_id, difficulty, distance, distance_unit,
			duration, duration_unit, elevation, elevation_unit, trail_type, features, dog_friendly,
			permits_required, best_season, water_sources, parking_info, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, status, featured, created_at, updated_at
	`
	err := d.q.QueryRow(ctx, query,
		h.Name, h.Description, h.AddressID, h.Difficulty, h.Distance, h.DistanceUnit,
		h.Duration, h.DurationUnit, h.Elevation, h.ElevationUnit, h.TrailType, jsonList(h.Features), h.DogFriendly,
		h.PermitsRequired, jsonList(h.BestSeason), h.WaterSources, h.ParkingInfo, models.StatusPending, h.CreatedBy,
	).Scan(&h.ID, &h.Status, &h.Featured, &h.CreatedAt, &h.UpdatedAt)
	return translate(err)
}

// GetHike retrieves a hike by ID.
func (d *DB) GetHike(ctx context.Context, id uuid.UUID) (*models.Hike, error) {
	h, err := scanHike(d.q.QueryRow(ctx, `SELECT `+hikeColumns+` FROM hikes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrHikeNotFound
	}
	return h, err
}

// ListHikes returns hikes matching the filter, newest first.
func (d *DB) ListHikes(ctx context.Context, f models.EntityFilter) ([]models.Hike, error) {
	where, args := entityWhere(f)
	limit, offset := pagination(f)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM hikes %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		hikeColumns, where, len(args)-1, len(args))

	rows, err := d.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hikes := []models.Hike{}
	for rows.Next() {
		h, err := scanHike(rows)
		if err != nil {
			return nil, err
		}
		hikes = append(hikes, *h)
	}
	return hikes, rows.Err()
}
