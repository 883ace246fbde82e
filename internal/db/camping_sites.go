package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trailhead/internal/models"
)

const campingSiteColumns = `id, name, description, address_id, capacity, amenities, facilities,
	reservation_info, cost_per_night, base_fee, operating_season_start, operating_season_end,
	pet_policy, reservation_required, site_type, fire_policy, status, featured, created_by,
	created_at, updated_at`

func scanCampingSite(row pgx.Row) (*models.CampingSite, error) {
	var s models.CampingSite
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.AddressID, &s.Capacity, &s.Amenities, &s.Facilities,
		&s.ReservationInfo, &s.CostPerNight, &s.BaseFee, &s.OperatingSeasonStart, &s.OperatingSeasonEnd,
		&s.PetPolicy, &s.ReservationRequired, &s.SiteType, &s.FirePolicy, &s.Status, &s.Featured, &s.CreatedBy,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateCampingSite inserts a new camping site. The status column is always written as pending.
func (d *DB) CreateCampingSite(ctx context.Context, s *models.CampingSite) error {
	query := `
		INSERT INTO camping_sites (name, description, address_id, capacity, amenities, facilities,
			reservation_info, cost_per_night, base_fee, operating_season_start, operating_season_end,
			pet_policy, reservation_required, site_type, fire_policy, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, status, featured, created_at, updated_at
	`
	err := d.q.QueryRow(ctx, query,
		s.Name, s.Description, s.AddressID, s.Capacity, jsonList(s.Amenities), jsonList(s.Facilities),
		s.ReservationInfo, s.CostPerNight, s.BaseFee, s.OperatingSeasonStart, s.OperatingSeasonEnd,
		s.PetPolicy, s.ReservationRequired, s.SiteType, s.FirePolicy, models.StatusPending, s.CreatedBy,
	).Scan(&s.ID, &s.Status, &s.Featured, &s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

// GetCampingSite retrieves a camping site by ID.
func (d *DB) GetCampingSite(ctx context.Context, id uuid.UUID) (*models.CampingSite, error) {
	s, err := scanCampingSite(d.q.QueryRow(ctx, `SELECT `+campingSiteColumns+` FROM camping_sites WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCampingSiteNotFound
	}
	return s, err
}

// ListCampingSites returns camping sites matching the filter, newest first.
func (d *DB) ListCampingSites(ctx context.Context, f models.EntityFilter) ([]models.CampingSite, error) {
	where, args := entityWhere(f)
	limit, offset := pagination(f)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM camping_sites %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		campingSiteColumns, where, len(args)-1, len(args))

	rows, err := d.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := []models.CampingSite{}
	for rows.Next() {
		s, err := scanCampingSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, *s)
	}
	return sites, rows.Err()
}
