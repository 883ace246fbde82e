package models

import (
	"time"

	"github.com/google/uuid"
)

// ModerationEntry is the review record for a submitted entity.
type ModerationEntry struct {
	ID         uuid.UUID  `json:"id"`
	EntityType string     `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	Status     string     `json:"status"`
	ReviewedBy *uuid.UUID `json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at"`

	// Non-DB fields, populated via JOIN for display
	EntityName  string     `json:"entity_name,omitempty"`
	SubmittedBy *uuid.UUID `json:"submitted_by,omitempty"`
	AuthorName  string     `json:"author_name,omitempty"`
	AuthorEmail string     `json:"author_email,omitempty"`
}

// EntityFilter narrows hike and camping site listings.
type EntityFilter struct {
	Status   string
	Featured *bool
	Limit    int
	Offset   int
}
