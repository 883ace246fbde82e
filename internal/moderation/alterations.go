package moderation

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"trailhead/internal/models"
	"trailhead/internal/validation"
)

// AlterationInput proposes a change to one field of one entity. For the
// location field NewValue is the JSON-encoded location.
type AlterationInput struct {
	HikeID        *uuid.UUID `json:"hike_id"`
	CampingSiteID *uuid.UUID `json:"camping_site_id"`
	FieldName     string     `json:"field_name"`
	NewValue      string     `json:"new_value"`
	Reason        string     `json:"reason"`
}

// target resolves the single entity an input or filter points at.
func target(hikeID, campingSiteID *uuid.UUID) (string, uuid.UUID, error) {
	switch {
	case hikeID != nil && campingSiteID != nil:
		return "", uuid.Nil, ErrTargetAmbiguous
	case hikeID != nil:
		return models.KindHike, *hikeID, nil
	case campingSiteID != nil:
		return models.KindCampingSite, *campingSiteID, nil
	default:
		return "", uuid.Nil, ErrTargetRequired
	}
}

// ProposeAlteration records a pending alteration against an existing entity.
func (s *Service) ProposeAlteration(ctx context.Context, actor *models.User, in AlterationInput) (*models.Alteration, error) {
	actor, err := Require(actor, models.RoleUser)
	if err != nil {
		return nil, err
	}
	kind, id, err := target(in.HikeID, in.CampingSiteID)
	if err != nil {
		return nil, err
	}
	entity, err := s.store.GetEntity(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	change, err := s.prepareChange(ctx, s.store, entity, in.FieldName, in.NewValue)
	if err != nil {
		return nil, err
	}
	return s.propose(ctx, actor, entity, change, in.Reason)
}

func (s *Service) propose(ctx context.Context, actor *models.User, entity models.Entity, c *change, reason string) (*models.Alteration, error) {
	if s.maxPending > 0 {
		n, err := s.store.CountPendingAlterationsByUser(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if n >= s.maxPending {
			return nil, ErrPendingAlterationLimit
		}
	}

	alt := &models.Alteration{
		FieldName:   c.field,
		OldValue:    c.oldValue,
		NewValue:    c.newValue,
		SubmittedBy: actor.ID,
	}
	if r := validation.SanitizeText(reason); r != nil {
		alt.Reason = *r
	}
	id := entity.EntityID()
	if entity.Kind() == models.KindHike {
		alt.HikeID = &id
	} else {
		alt.CampingSiteID = &id
	}

	if err := s.store.CreateAlteration(ctx, alt); err != nil {
		return nil, err
	}
	alt.EntityName = entity.DisplayName()

	s.log.Info("alteration proposed", "alteration_id", alt.ID, "field", alt.FieldName, "user_id", actor.ID)
	s.notify.AlterationProposed(ctx, alt)
	return alt, nil
}

// change is a validated single-field edit ready to persist or apply.
type change struct {
	field    string
	oldValue string
	newValue string
	patch    *models.Patch    // nil for location
	location *models.Location // set for location
}

func (s *Service) prepareChange(ctx context.Context, store Store, entity models.Entity, field, raw string) (*change, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, invalid("field_name", "field name is required")
	}

	if field == models.FieldLocation {
		loc, err := parseLocation(raw)
		if err != nil {
			return nil, err
		}
		old := ""
		if addrID := entity.AddressRef(); addrID != nil {
			addr, err := store.GetAddress(ctx, *addrID)
			if err != nil {
				return nil, err
			}
			old = addr.Location().Encode()
		}
		return &change{field: field, oldValue: old, newValue: loc.Encode(), location: &loc}, nil
	}

	spec, err := models.LookupField(entity.Kind(), field)
	if err != nil {
		return nil, invalid("field_name", err.Error())
	}
	patch, err := spec.Parse(raw)
	if err != nil {
		return nil, invalid(field, err.Error())
	}
	return &change{
		field:    field,
		oldValue: models.CurrentValue(entity, field),
		newValue: patch.String(),
		patch:    &patch,
	}, nil
}

// parseLocation decodes and validates a location edit. City and state are required.
func parseLocation(raw string) (models.Location, error) {
	loc, err := models.ParseLocation(raw)
	if err != nil {
		return models.Location{}, invalid(models.FieldLocation, "location must be a JSON object")
	}
	return validateLocation(loc)
}

func validateLocation(loc models.Location) (models.Location, error) {
	loc = sanitizeLocation(loc)
	if loc.City == nil || loc.State == nil {
		return models.Location{}, invalid(models.FieldLocation, "city and state are required")
	}
	if ok, msg := validation.ValidateCoordinates(loc.Latitude, loc.Longitude); !ok {
		return models.Location{}, invalid(models.FieldLocation, msg)
	}
	return loc, nil
}

// DecideAlteration records a decision. When approved with apply set, the new
// value is written to the target in the same transaction. Entity status is
// never touched.
func (s *Service) DecideAlteration(ctx context.Context, actor *models.User, id uuid.UUID, decision string, apply bool) (*models.Alteration, error) {
	actor, err := Require(actor, models.RoleModerator)
	if err != nil {
		return nil, err
	}
	if !models.IsDecision(decision) {
		return nil, ErrInvalidDecision
	}

	applied := decision == models.StatusApproved && apply
	var alt *models.Alteration
	err = s.store.WithTx(ctx, func(tx Store) error {
		var err error
		if alt, err = tx.GetAlteration(ctx, id); err != nil {
			return err
		}
		if err := tx.DecideAlteration(ctx, id, decision, actor.ID); err != nil {
			return err
		}
		if applied {
			return s.applyAlteration(ctx, tx, alt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	alt, err = s.store.GetAlteration(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("alteration decision", "alteration_id", id, "status", decision, "applied", applied, "reviewer_id", actor.ID)
	s.notify.AlterationDecided(ctx, alt, applied)
	return alt, nil
}

func (s *Service) applyAlteration(ctx context.Context, tx Store, alt *models.Alteration) error {
	kind, id := alt.Target()
	entity, err := tx.GetEntity(ctx, kind, id)
	if err != nil {
		return err
	}

	if alt.FieldName == models.FieldLocation {
		loc, err := parseLocation(alt.NewValue)
		if err != nil {
			return err
		}
		return applyLocation(ctx, tx, entity, loc)
	}

	spec, err := models.LookupField(kind, alt.FieldName)
	if err != nil {
		return invalid("field_name", err.Error())
	}
	patch, err := spec.Parse(alt.NewValue)
	if err != nil {
		return invalid(alt.FieldName, err.Error())
	}
	return tx.PatchEntity(ctx, kind, id, []models.Patch{patch})
}

// applyLocation updates the entity's address or creates one and links it.
func applyLocation(ctx context.Context, tx Store, entity models.Entity, loc models.Location) error {
	kind, id := entity.Kind(), entity.EntityID()
	if addrID := entity.AddressRef(); addrID != nil {
		addr, err := tx.GetAddress(ctx, *addrID)
		if err != nil {
			return err
		}
		addr.ApplyLocation(loc)
		if err := tx.UpdateAddress(ctx, addr); err != nil {
			return err
		}
		return tx.TouchEntity(ctx, kind, id)
	}

	addr := &models.Address{}
	addr.ApplyLocation(loc)
	if err := tx.CreateAddress(ctx, addr); err != nil {
		return err
	}
	return tx.SetEntityAddress(ctx, kind, id, addr.ID)
}

// GetAlteration returns an alteration to moderators or its submitter.
func (s *Service) GetAlteration(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Alteration, error) {
	actor, err := Require(actor, models.RoleUser)
	if err != nil {
		return nil, err
	}
	alt, err := s.store.GetAlteration(ctx, id)
	if err != nil {
		return nil, err
	}
	if alt.SubmittedBy != actor.ID && !actor.IsModerator() {
		return nil, ErrForbidden
	}
	return alt, nil
}

// ListAlterations lists alterations. Non-moderators only see their own.
func (s *Service) ListAlterations(ctx context.Context, actor *models.User, f models.AlterationFilter) ([]models.Alteration, error) {
	actor, err := Require(actor, models.RoleUser)
	if err != nil {
		return nil, err
	}
	if f.Status != "" && !models.IsValidStatus(f.Status) {
		return nil, invalid("status", "must be pending, approved or rejected")
	}
	if !actor.IsModerator() {
		f.SubmittedBy = &actor.ID
	}
	return s.store.ListAlterations(ctx, f)
}

// DeleteAlteration removes an alteration. Only its submitter or an admin may
// delete it. An applied change stays applied.
func (s *Service) DeleteAlteration(ctx context.Context, actor *models.User, id uuid.UUID) error {
	actor, err := Require(actor, models.RoleUser)
	if err != nil {
		return err
	}
	alt, err := s.store.GetAlteration(ctx, id)
	if err != nil {
		return err
	}
	if alt.SubmittedBy != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.store.DeleteAlteration(ctx, id)
}
