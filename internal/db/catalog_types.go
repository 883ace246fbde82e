package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trailhead/internal/models"
)

const catalogTypeColumns = `id, category, name, key, description, icon, display_order, active, created_at, updated_at`

func scanCatalogType(row pgx.Row) (*models.CatalogType, error) {
	var t models.CatalogType
	err := row.Scan(&t.ID, &t.Category, &t.Name, &t.Key, &t.Description, &t.Icon,
		&t.DisplayOrder, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// catalogError maps unique violations onto ErrDuplicateCatalogType.
func catalogError(err error) error {
	if pgCode(err) == pgUniqueViolation {
		return ErrDuplicateCatalogType
	}
	return translate(err)
}

// CreateCatalogType inserts a catalog type.
func (d *DB) CreateCatalogType(ctx context.Context, t *models.CatalogType) error {
	err := d.q.QueryRow(ctx, `
		INSERT INTO catalog_types (category, name, key, description, icon, display_order, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, t.Category, t.Name, t.Key, t.Description, t.Icon, t.DisplayOrder, t.Active).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return catalogError(err)
}

// GetCatalogType retrieves a catalog type by ID within category.
func (d *DB) GetCatalogType(ctx context.Context, category string, id uuid.UUID) (*models.CatalogType, error) {
	t, err := scanCatalogType(d.q.QueryRow(ctx,
		`SELECT `+catalogTypeColumns+` FROM catalog_types WHERE category = $1 AND id = $2`, category, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCatalogTypeNotFound
	}
	return t, err
}

// ListCatalogTypes returns a category's types by display order, then name.
func (d *DB) ListCatalogTypes(ctx context.Context, category string, activeOnly bool) ([]models.CatalogType, error) {
	rows, err := d.q.Query(ctx, `
		SELECT `+catalogTypeColumns+`
		FROM catalog_types
		WHERE category = $1 AND (NOT $2 OR active)
		ORDER BY display_order, name
	`, category, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := []models.CatalogType{}
	for rows.Next() {
		t, err := scanCatalogType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, *t)
	}
	return types, rows.Err()
}

// UpdateCatalogType writes every editable column of t.
func (d *DB) UpdateCatalogType(ctx context.Context, t *models.CatalogType) error {
	err := d.q.QueryRow(ctx, `
		UPDATE catalog_types
		SET name = $1, key = $2, description = $3, icon = $4, display_order = $5, active = $6, updated_at = NOW()
		WHERE category = $7 AND id = $8
		RETURNING updated_at
	`, t.Name, t.Key, t.Description, t.Icon, t.DisplayOrder, t.Active, t.Category, t.ID).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCatalogTypeNotFound
	}
	return catalogError(err)
}

// DeleteCatalogType removes a catalog type. Entities keep the values they
// were saved with.
func (d *DB) DeleteCatalogType(ctx context.Context, category string, id uuid.UUID) error {
	tag, err := d.q.Exec(ctx, `DELETE FROM catalog_types WHERE category = $1 AND id = $2`, category, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCatalogTypeNotFound
	}
	return nil
}

// SeedCatalogTypes inserts names into an empty category in the given order.
// A category that already holds types is left alone.
func (d *DB) SeedCatalogTypes(ctx context.Context, category string, names []string) (int, error) {
	var existing int
	if err := d.q.QueryRow(ctx, `SELECT COUNT(*) FROM catalog_types WHERE category = $1`, category).Scan(&existing); err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	seeded := 0
	for i, name := range names {
		key := name
		tag, err := d.q.Exec(ctx, `
			INSERT INTO catalog_types (category, name, key, display_order)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING
		`, category, name, &key, i)
		if err != nil {
			return seeded, err
		}
		seeded += int(tag.RowsAffected())
	}
	return seeded, nil
}
