package email

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"trailhead/internal/config"
	"trailhead/internal/models"
	"trailhead/internal/moderation"
)

// UserGetter looks up submitters for notification addresses.
type UserGetter interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type sender interface {
	IsEnabled() bool
	Send(to []string, subject, htmlBody, textBody string) error
}

// Notifier sends email notifications for moderation events.
type Notifier struct {
	service   sender
	templates *Templates
	cfg       *config.Config
	users     UserGetter
	dispatch  func(func())
}

var _ moderation.Notifier = (*Notifier)(nil)

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, users UserGetter) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		users:     users,
		dispatch:  func(f func()) { go f() },
	}
}

// lookup returns the user or nil, logging failures.
func (n *Notifier) lookup(ctx context.Context, id uuid.UUID) *models.User {
	if n.users == nil || id == uuid.Nil {
		return nil
	}
	u, err := n.users.GetUserByID(ctx, id)
	if err != nil {
		slog.Warn("email: failed to look up user", "user_id", id, "error", err)
		return nil
	}
	return u
}

func (n *Notifier) send(to []string, subject, htmlBody, textBody string) {
	if err := n.service.Send(to, subject, htmlBody, textBody); err != nil {
		slog.Error("failed to send email", "to", to, "subject", subject, "error", err)
	}
}

// EntitySubmitted alerts the configured moderators about a new submission.
func (n *Notifier) EntitySubmitted(ctx context.Context, e models.Entity) {
	if !n.service.IsEnabled() || len(n.cfg.ModeratorEmails) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	n.dispatch(func() {
		submitter := n.lookup(ctx, e.Owner())
		subject, htmlBody, textBody := n.templates.EntitySubmitted(e, submitter)
		n.send(n.cfg.ModeratorEmails, subject, htmlBody, textBody)
	})
}

// EntityDecided tells the submitter how their entry was reviewed.
func (n *Notifier) EntityDecided(ctx context.Context, e models.Entity, entry *models.ModerationEntry) {
	if !n.service.IsEnabled() || !n.cfg.EmailNotifyUserOnDecision || entry == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	n.dispatch(func() {
		owner := n.lookup(ctx, e.Owner())
		if owner == nil || owner.Email == "" {
			return
		}
		subject, htmlBody, textBody := n.templates.EntityDecided(e, entry.Status)
		n.send([]string{owner.Email}, subject, htmlBody, textBody)
	})
}

// AlterationProposed is not mailed; proposals are reviewed from the queue.
func (n *Notifier) AlterationProposed(context.Context, *models.Alteration) {}

// AlterationDecided tells the proposer how their suggested change was reviewed.
func (n *Notifier) AlterationDecided(ctx context.Context, a *models.Alteration, applied bool) {
	if !n.service.IsEnabled() || !n.cfg.EmailNotifyUserOnDecision || a == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	n.dispatch(func() {
		to := a.AuthorEmail
		if to == "" {
			if u := n.lookup(ctx, a.SubmittedBy); u != nil {
				to = u.Email
			}
		}
		if to == "" {
			return
		}
		subject, htmlBody, textBody := n.templates.AlterationDecided(a, applied)
		n.send([]string{to}, subject, htmlBody, textBody)
	})
}
