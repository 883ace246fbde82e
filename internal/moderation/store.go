package moderation

import (
	"context"

	"github.com/google/uuid"

	"trailhead/internal/db"
	"trailhead/internal/models"
)

// Store is the persistence surface the workflow needs.
type Store interface {
	// WithTx runs fn against a transaction-scoped Store.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	CreateAddress(ctx context.Context, a *models.Address) error
	GetAddress(ctx context.Context, id uuid.UUID) (*models.Address, error)
	UpdateAddress(ctx context.Context, a *models.Address) error

	CreateHike(ctx context.Context, h *models.Hike) error
	CreateCampingSite(ctx context.Context, s *models.CampingSite) error
	GetEntity(ctx context.Context, kind string, id uuid.UUID) (models.Entity, error)
	SetEntityStatus(ctx context.Context, kind string, id uuid.UUID, status string) error
	SetEntityFeatured(ctx context.Context, kind string, id uuid.UUID, featured bool) error
	SetEntityAddress(ctx context.Context, kind string, id uuid.UUID, addressID uuid.UUID) error
	TouchEntity(ctx context.Context, kind string, id uuid.UUID) error
	PatchEntity(ctx context.Context, kind string, id uuid.UUID, patches []models.Patch) error
	DeleteEntity(ctx context.Context, kind string, id uuid.UUID) ([]models.File, error)

	CreateQueueEntry(ctx context.Context, e *models.ModerationEntry) error
	DecideQueueEntry(ctx context.Context, kind string, entityID uuid.UUID, status string, reviewerID uuid.UUID) (*models.ModerationEntry, error)
	ListQueue(ctx context.Context, status string) ([]models.ModerationEntry, error)

	CreateAlteration(ctx context.Context, a *models.Alteration) error
	GetAlteration(ctx context.Context, id uuid.UUID) (*models.Alteration, error)
	ListAlterations(ctx context.Context, f models.AlterationFilter) ([]models.Alteration, error)
	DecideAlteration(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID) error
	DeleteAlteration(ctx context.Context, id uuid.UUID) error
	CountPendingAlterationsByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// PGStore adapts *db.DB to Store.
type PGStore struct {
	*db.DB
}

// NewPGStore wraps a database handle.
func NewPGStore(database *db.DB) PGStore {
	return PGStore{DB: database}
}

// WithTx implements Store.
func (s PGStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.DB.RunInTx(ctx, func(tx *db.DB) error {
		return fn(PGStore{DB: tx})
	})
}

var _ Store = PGStore{}
