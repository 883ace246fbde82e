package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trailhead/internal/models"
)

const fileColumns = `id, entity_type, entity_id, file_type, file_url, file_name, file_size, mime_type, uploaded_by, created_at`

func scanFile(row pgx.Row) (*models.File, error) {
	var f models.File
	err := row.Scan(&f.ID, &f.EntityType, &f.EntityID, &f.FileType, &f.FileURL, &f.FileName,
		&f.FileSize, &f.MimeType, &f.UploadedBy, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFile records metadata for an uploaded blob.
func (d *DB) CreateFile(ctx context.Context, f *models.File) error {
	query := `
		INSERT INTO files (entity_type, entity_id, file_type, file_url, file_name, file_size, mime_type, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := d.q.QueryRow(ctx, query,
		f.EntityType, f.EntityID, f.FileType, f.FileURL, f.FileName, f.FileSize, f.MimeType, f.UploadedBy,
	).Scan(&f.ID, &f.CreatedAt)
	return translate(err)
}

// GetFile retrieves file metadata by ID.
func (d *DB) GetFile(ctx context.Context, id uuid.UUID) (*models.File, error) {
	f, err := scanFile(d.q.QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	return f, err
}

// ListFiles returns the files attached to an entity.
func (d *DB) ListFiles(ctx context.Context, kind string, entityID uuid.UUID) ([]models.File, error) {
	rows, err := d.q.Query(ctx, `SELECT `+fileColumns+` FROM files WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at ASC`, kind, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}

// DeleteFile removes a file row.
func (d *DB) DeleteFile(ctx context.Context, id uuid.UUID) error {
	tag, err := d.q.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (d *DB) deleteFilesForEntity(ctx context.Context, kind string, entityID uuid.UUID) ([]models.File, error) {
	rows, err := d.q.Query(ctx, `DELETE FROM files WHERE entity_type = $1 AND entity_id = $2 RETURNING `+fileColumns, kind, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}
