// Package events publishes moderation workflow events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"trailhead/internal/models"
	"trailhead/internal/moderation"
)

// Event types.
const (
	TypeEntitySubmitted    = "entity.submitted"
	TypeEntityDecided      = "entity.decided"
	TypeAlterationProposed = "alteration.proposed"
	TypeAlterationDecided  = "alteration.decided"
)

// Event is the JSON payload written to the topic. The key is the entity ID so
// events for one entity stay ordered within a partition.
type Event struct {
	Type         string     `json:"type"`
	EntityType   string     `json:"entity_type"`
	EntityID     uuid.UUID  `json:"entity_id"`
	Status       string     `json:"status"`
	ActorID      *uuid.UUID `json:"actor_id,omitempty"`
	AlterationID *uuid.UUID `json:"alteration_id,omitempty"`
	Field        string     `json:"field,omitempty"`
	Applied      *bool      `json:"applied,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes events without blocking the caller.
type Publisher struct {
	writer  messageWriter
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewPublisher creates a publisher for topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	})
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w, timeout: 5 * time.Second}
}

// Publish sends ev in the background. A nil publisher drops events.
func (p *Publisher) Publish(ev Event) {
	if p == nil || p.writer == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to encode event", "type", ev.Type, "error", err)
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		err := p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(ev.EntityID.String()),
			Value: value,
			Time:  ev.OccurredAt,
		})
		if err != nil {
			slog.Error("failed to publish event", "type", ev.Type, "entity_id", ev.EntityID, "error", err)
		}
	}()
}

// Close waits for in-flight events and closes the writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.wg.Wait()
	return p.writer.Close()
}

// EntitySubmitted publishes a submission event attributed to the entity owner.
func (p *Publisher) EntitySubmitted(ctx context.Context, e models.Entity) {
	owner := e.Owner()
	p.Publish(Event{
		Type:       TypeEntitySubmitted,
		EntityType: e.Kind(),
		EntityID:   e.EntityID(),
		Status:     e.CurrentStatus(),
		ActorID:    &owner,
	})
}

// EntityDecided publishes the reviewer's decision on an entity.
func (p *Publisher) EntityDecided(ctx context.Context, e models.Entity, entry *models.ModerationEntry) {
	p.Publish(Event{
		Type:       TypeEntityDecided,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Status:     entry.Status,
		ActorID:    entry.ReviewedBy,
	})
}

// AlterationProposed publishes a new proposal attributed to its submitter.
func (p *Publisher) AlterationProposed(ctx context.Context, a *models.Alteration) {
	p.Publish(alterationEvent(TypeAlterationProposed, a, &a.SubmittedBy, nil))
}

// AlterationDecided publishes an alteration decision and whether it was applied.
func (p *Publisher) AlterationDecided(ctx context.Context, a *models.Alteration, applied bool) {
	p.Publish(alterationEvent(TypeAlterationDecided, a, a.ReviewedBy, &applied))
}

func alterationEvent(typ string, a *models.Alteration, actor *uuid.UUID, applied *bool) Event {
	kind, id := a.Target()
	altID := a.ID
	return Event{
		Type:         typ,
		EntityType:   kind,
		EntityID:     id,
		Status:       a.Status,
		ActorID:      actor,
		AlterationID: &altID,
		Field:        a.FieldName,
		Applied:      applied,
	}
}

var _ moderation.Notifier = (*Publisher)(nil)
