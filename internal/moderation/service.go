// Package moderation implements the submission, review and alteration
// workflow for hikes and camping sites.
package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"trailhead/internal/models"
)

// EditPolicy decides who may edit an entity without review.
type EditPolicy string

const (
	// PolicyAdmin lets only admins edit directly.
	PolicyAdmin EditPolicy = "admin"
	// PolicyOwner also lets creators edit their own entries directly.
	PolicyOwner EditPolicy = "owner"
)

// ParseEditPolicy validates a configured policy name. Empty means PolicyAdmin.
func ParseEditPolicy(s string) (EditPolicy, error) {
	switch EditPolicy(s) {
	case "", PolicyAdmin:
		return PolicyAdmin, nil
	case PolicyOwner:
		return PolicyOwner, nil
	default:
		return "", fmt.Errorf("unknown edit policy %q", s)
	}
}

// Notifier receives workflow events after the owning transaction commits.
// Implementations must not block.
type Notifier interface {
	EntitySubmitted(ctx context.Context, e models.Entity)
	EntityDecided(ctx context.Context, e models.Entity, entry *models.ModerationEntry)
	AlterationProposed(ctx context.Context, a *models.Alteration)
	AlterationDecided(ctx context.Context, a *models.Alteration, applied bool)
}

// Notifiers fans events out to several notifiers.
type Notifiers []Notifier

func (ns Notifiers) EntitySubmitted(ctx context.Context, e models.Entity) {
	for _, n := range ns {
		n.EntitySubmitted(ctx, e)
	}
}

func (ns Notifiers) EntityDecided(ctx context.Context, e models.Entity, entry *models.ModerationEntry) {
	for _, n := range ns {
		n.EntityDecided(ctx, e, entry)
	}
}

func (ns Notifiers) AlterationProposed(ctx context.Context, a *models.Alteration) {
	for _, n := range ns {
		n.AlterationProposed(ctx, a)
	}
}

func (ns Notifiers) AlterationDecided(ctx context.Context, a *models.Alteration, applied bool) {
	for _, n := range ns {
		n.AlterationDecided(ctx, a, applied)
	}
}

// BlobDeleter removes stored files.
type BlobDeleter interface {
	Delete(ctx context.Context, fileURL string) error
}

// Config tunes a Service.
type Config struct {
	EditPolicy EditPolicy
	// MaxPendingAlterations caps open proposals per user. Zero disables the cap.
	MaxPendingAlterations int
	Notifier              Notifier
	Blobs                 BlobDeleter
	Logger                *slog.Logger
}

// Service runs the moderation workflow. The caller is passed explicitly to
// every operation.
type Service struct {
	store      Store
	policy     EditPolicy
	maxPending int
	notify     Notifier
	blobs      BlobDeleter
	log        *slog.Logger
}

// New creates a Service.
func New(store Store, cfg Config) *Service {
	s := &Service{
		store:      store,
		policy:     cfg.EditPolicy,
		maxPending: cfg.MaxPendingAlterations,
		notify:     cfg.Notifier,
		blobs:      cfg.Blobs,
		log:        cfg.Logger,
	}
	if s.policy == "" {
		s.policy = PolicyAdmin
	}
	if s.notify == nil {
		s.notify = Notifiers(nil)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Require checks that actor is authenticated and holds at least level.
func Require(actor *models.User, level string) (*models.User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if !actor.HasRole(level) {
		return nil, ErrForbidden
	}
	return actor, nil
}

func validKind(kind string) error {
	if !models.IsValidKind(kind) {
		return ErrInvalidKind
	}
	return nil
}
