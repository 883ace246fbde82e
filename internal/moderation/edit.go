package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"trailhead/internal/models"
)

// FieldEdit is a single-field edit request. Location edits may pass the
// aggregate in Location instead of JSON in Value.
type FieldEdit struct {
	Field    string           `json:"field"`
	Value    string           `json:"value"`
	Location *models.Location `json:"location,omitempty"`
	Reason   string           `json:"reason"`
}

// EditResult reports which branch an edit took.
type EditResult struct {
	Applied    bool               `json:"applied"`
	Entity     models.Entity      `json:"entity,omitempty"`
	Alteration *models.Alteration `json:"alteration,omitempty"`
}

// canEditDirectly reports whether actor bypasses review for entity.
func (s *Service) canEditDirectly(actor *models.User, entity models.Entity) bool {
	if actor.IsAdmin() {
		return true
	}
	return s.policy == PolicyOwner && actor.Owns(entity.Owner())
}

// EditField applies the edit directly for privileged callers and files an
// alteration for everyone else.
func (s *Service) EditField(ctx context.Context, actor *models.User, kind string, id uuid.UUID, edit FieldEdit) (*EditResult, error) {
	actor, err := Require(actor, models.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := validKind(kind); err != nil {
		return nil, err
	}
	entity, err := s.store.GetEntity(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	raw := edit.Value
	if edit.Field == models.FieldLocation && edit.Location != nil {
		raw = edit.Location.Encode()
	}
	c, err := s.prepareChange(ctx, s.store, entity, edit.Field, raw)
	if err != nil {
		return nil, err
	}

	if !s.canEditDirectly(actor, entity) {
		alt, err := s.propose(ctx, actor, entity, c, edit.Reason)
		if err != nil {
			return nil, err
		}
		return &EditResult{Applied: false, Alteration: alt}, nil
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		return applyChanges(ctx, tx, entity, []*change{c})
	})
	if err != nil {
		return nil, err
	}
	updated, err := s.store.GetEntity(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("direct edit", "entity_type", kind, "entity_id", id, "field", c.field, "user_id", actor.ID)
	return &EditResult{Applied: true, Entity: updated}, nil
}

// UpdateHike applies a partial update to a hike. Only its creator or an admin may.
func (s *Service) UpdateHike(ctx context.Context, actor *models.User, id uuid.UUID, fields map[string]any) (*models.Hike, error) {
	e, err := s.updateEntity(ctx, actor, models.KindHike, id, fields)
	if err != nil {
		return nil, err
	}
	return e.(*models.Hike), nil
}

// UpdateCampingSite applies a partial update to a camping site. Only its creator or an admin may.
func (s *Service) UpdateCampingSite(ctx context.Context, actor *models.User, id uuid.UUID, fields map[string]any) (*models.CampingSite, error) {
	e, err := s.updateEntity(ctx, actor, models.KindCampingSite, id, fields)
	if err != nil {
		return nil, err
	}
	return e.(*models.CampingSite), nil
}

func (s *Service) updateEntity(ctx context.Context, actor *models.User, kind string, id uuid.UUID, fields map[string]any) (models.Entity, error) {
	actor, err := Require(actor, models.RoleUser)
	if err != nil {
		return nil, err
	}
	entity, err := s.store.GetEntity(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(entity.Owner()) {
		return nil, ErrForbidden
	}

	// Sorted for deterministic validation errors.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	changes := make([]*change, 0, len(names))
	for _, name := range names {
		raw, err := rawValue(fields[name])
		if err != nil {
			return nil, invalid(name, err.Error())
		}
		c, err := s.prepareChange(ctx, s.store, entity, name, raw)
		if err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		return applyChanges(ctx, tx, entity, changes)
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetEntity(ctx, kind, id)
}

func applyChanges(ctx context.Context, tx Store, entity models.Entity, changes []*change) error {
	var patches []models.Patch
	for _, c := range changes {
		if c.location != nil {
			if err := applyLocation(ctx, tx, entity, *c.location); err != nil {
				return err
			}
			continue
		}
		patches = append(patches, *c.patch)
	}
	if len(patches) == 0 {
		return nil
	}
	return tx.PatchEntity(ctx, entity.Kind(), entity.EntityID(), patches)
}

// rawValue converts a decoded JSON value into the string form fields parse.
func rawValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case float64, bool:
		return models.FormatValue(val), nil
	case []any, map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported value %T", v)
	}
}

// DeleteEntity removes an entity and its attached files. Only its creator or
// an admin may delete it.
func (s *Service) DeleteEntity(ctx context.Context, actor *models.User, kind string, id uuid.UUID) error {
	actor, err := Require(actor, models.RoleUser)
	if err != nil {
		return err
	}
	if err := validKind(kind); err != nil {
		return err
	}
	entity, err := s.store.GetEntity(ctx, kind, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && !actor.Owns(entity.Owner()) {
		return ErrForbidden
	}

	files, err := s.store.DeleteEntity(ctx, kind, id)
	if err != nil {
		return err
	}
	s.log.Info("entity deleted", "entity_type", kind, "entity_id", id, "user_id", actor.ID, "files", len(files))

	if s.blobs == nil {
		return nil
	}
	for _, f := range files {
		if err := s.blobs.Delete(ctx, f.FileURL); err != nil {
			s.log.Warn("failed to delete blob", "file_id", f.ID, "error", err)
		}
	}
	return nil
}

// SetFeatured toggles the featured flag. Admin only, and only approved
// entities can be featured.
func (s *Service) SetFeatured(ctx context.Context, actor *models.User, kind string, id uuid.UUID, featured bool) error {
	if _, err := Require(actor, models.RoleAdmin); err != nil {
		return err
	}
	if err := validKind(kind); err != nil {
		return err
	}
	entity, err := s.store.GetEntity(ctx, kind, id)
	if err != nil {
		return err
	}
	if featured && entity.CurrentStatus() != models.StatusApproved {
		return ErrNotApproved
	}
	return s.store.SetEntityFeatured(ctx, kind, id, featured)
}
