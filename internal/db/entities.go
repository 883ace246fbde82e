package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"trailhead/internal/models"
)

func tableFor(kind string) (string, error) {
	switch kind {
	case models.KindHike:
		return "hikes", nil
	case models.KindCampingSite:
		return "camping_sites", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func notFoundFor(kind string) error {
	if kind == models.KindCampingSite {
		return ErrCampingSiteNotFound
	}
	return ErrHikeNotFound
}

// GetEntity loads a hike or camping site by kind.
func (d *DB) GetEntity(ctx context.Context, kind string, id uuid.UUID) (models.Entity, error) {
	switch kind {
	case models.KindHike:
		h, err := d.GetHike(ctx, id)
		if err != nil {
			return nil, err
		}
		return h, nil
	case models.KindCampingSite:
		s, err := d.GetCampingSite(ctx, id)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// SetEntityStatus sets the review status of an entity.
func (d *DB) SetEntityStatus(ctx context.Context, kind string, id uuid.UUID, status string) error {
	return d.execEntity(ctx, kind, id, `UPDATE %s SET status = $1 WHERE id = $2`, status)
}

// SetEntityFeatured toggles the featured flag of an entity.
func (d *DB) SetEntityFeatured(ctx context.Context, kind string, id uuid.UUID, featured bool) error {
	return d.execEntity(ctx, kind, id, `UPDATE %s SET featured = $1, updated_at = NOW() WHERE id = $2`, featured)
}

// SetEntityAddress points an entity at an address.
func (d *DB) SetEntityAddress(ctx context.Context, kind string, id uuid.UUID, addressID uuid.UUID) error {
	return d.execEntity(ctx, kind, id, `UPDATE %s SET address_id = $1, updated_at = NOW() WHERE id = $2`, addressID)
}

// TouchEntity bumps updated_at.
func (d *DB) TouchEntity(ctx context.Context, kind string, id uuid.UUID) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	tag, err := d.q.Exec(ctx, fmt.Sprintf(`UPDATE %s SET updated_at = NOW() WHERE id = $1`, table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFoundFor(kind)
	}
	return nil
}

func (d *DB) execEntity(ctx context.Context, kind string, id uuid.UUID, format string, value any) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	tag, err := d.q.Exec(ctx, fmt.Sprintf(format, table), value, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundFor(kind)
	}
	return nil
}

// PatchEntity applies validated field patches and bumps updated_at. Column
// names come from the per-kind allow-list only.
func (d *DB) PatchEntity(ctx context.Context, kind string, id uuid.UUID, patches []models.Patch) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	if len(patches) == 0 {
		return d.TouchEntity(ctx, kind, id)
	}

	sets := make([]string, 0, len(patches)+1)
	args := make([]any, 0, len(patches)+1)
	for _, p := range patches {
		spec, err := models.LookupField(kind, p.Field.Name)
		if err != nil {
			return err
		}
		value := p.Value
		if spec.Type == models.FieldList {
			list, _ := value.([]string)
			value = jsonList(list)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", spec.Name, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`, table, strings.Join(sets, ", "), len(args))
	tag, err := d.q.Exec(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundFor(kind)
	}
	return nil
}

// DeleteEntity removes an entity together with its queue entry and file rows.
// Alterations and notes cascade. The deleted file rows are returned so the
// caller can remove the blobs.
func (d *DB) DeleteEntity(ctx context.Context, kind string, id uuid.UUID) ([]models.File, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var files []models.File
	err = d.RunInTx(ctx, func(tx *DB) error {
		tag, err := tx.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return notFoundFor(kind)
		}
		if _, err := tx.q.Exec(ctx, `DELETE FROM moderation_queue WHERE entity_type = $1 AND entity_id = $2`, kind, id); err != nil {
			return err
		}
		files, err = tx.deleteFilesForEntity(ctx, kind, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func pagination(f models.EntityFilter) (limit, offset int) {
	limit, offset = f.Limit, f.Offset
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// entityWhere builds the WHERE clause shared by the list queries.
func entityWhere(f models.EntityFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		conds = append(conds, fmt.Sprintf("featured = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
