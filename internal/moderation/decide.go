package moderation

import (
	"context"

	"github.com/google/uuid"

	"trailhead/internal/models"
)

// DecideModeration records a moderator's decision on a submitted entity and
// mirrors it onto the entity's status in the same transaction.
func (s *Service) DecideModeration(ctx context.Context, actor *models.User, kind string, entityID uuid.UUID, decision string) (*models.ModerationEntry, error) {
	actor, err := Require(actor, models.RoleModerator)
	if err != nil {
		return nil, err
	}
	if !models.IsDecision(decision) {
		return nil, ErrInvalidDecision
	}
	if err := validKind(kind); err != nil {
		return nil, err
	}

	var entity models.Entity
	var entry *models.ModerationEntry
	err = s.store.WithTx(ctx, func(tx Store) error {
		var err error
		if entity, err = tx.GetEntity(ctx, kind, entityID); err != nil {
			return err
		}
		if entry, err = tx.DecideQueueEntry(ctx, kind, entityID, decision, actor.ID); err != nil {
			return err
		}
		return tx.SetEntityStatus(ctx, kind, entityID, decision)
	})
	if err != nil {
		return nil, err
	}

	entry.EntityName = entity.DisplayName()
	owner := entity.Owner()
	entry.SubmittedBy = &owner

	s.log.Info("moderation decision", "entity_type", kind, "entity_id", entityID, "status", decision, "reviewer_id", actor.ID)
	s.notify.EntityDecided(ctx, entity, entry)
	return entry, nil
}

// ListQueue returns queue entries for moderators. An empty status lists all.
func (s *Service) ListQueue(ctx context.Context, actor *models.User, status string) ([]models.ModerationEntry, error) {
	if _, err := Require(actor, models.RoleModerator); err != nil {
		return nil, err
	}
	if status != "" && !models.IsValidStatus(status) {
		return nil, invalid("status", "must be pending, approved or rejected")
	}
	return s.store.ListQueue(ctx, status)
}
