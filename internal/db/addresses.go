package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trailhead/internal/models"
)

// CreateAddress inserts a new address.
func (d *DB) CreateAddress(ctx context.Context, a *models.Address) error {
	query := `
		INSERT INTO addresses (address, city, state, country, postal_code, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return d.q.QueryRow(ctx, query,
		a.Address, a.City, a.State, a.Country, a.PostalCode, a.Latitude, a.Longitude,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// GetAddress retrieves an address by ID.
func (d *DB) GetAddress(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	query := `
		SELECT id, address, city, state, country, postal_code, latitude, longitude, created_at, updated_at
		FROM addresses WHERE id = $1
	`
	var a models.Address
	err := d.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Address, &a.City, &a.State, &a.Country, &a.PostalCode,
		&a.Latitude, &a.Longitude, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAddress overwrites every part of an existing address.
func (d *DB) UpdateAddress(ctx context.Context, a *models.Address) error {
	query := `
		UPDATE addresses
		SET address = $1, city = $2, state = $3, country = $4, postal_code = $5,
			latitude = $6, longitude = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`
	err := d.q.QueryRow(ctx, query,
		a.Address, a.City, a.State, a.Country, a.PostalCode, a.Latitude, a.Longitude, a.ID,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAddressNotFound
	}
	return err
}
