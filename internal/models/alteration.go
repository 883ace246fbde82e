package models

import (
	"time"

	"github.com/google/uuid"
)

// Alteration is a proposed single-field edit to a hike or camping site.
type Alteration struct {
	ID            uuid.UUID  `json:"id"`
	HikeID        *uuid.UUID `json:"hike_id"`
	CampingSiteID *uuid.UUID `json:"camping_site_id"`
	FieldName     string     `json:"field_name"`
	OldValue      string     `json:"old_value"`
	NewValue      string     `json:"new_value"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"` // pending, approved, rejected
	SubmittedBy   uuid.UUID  `json:"submitted_by"`
	ReviewedBy    *uuid.UUID `json:"reviewed_by"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	CreatedAt     time.Time  `json:"created_at"`

	// Non-DB fields, populated via JOIN for display
	EntityName  string `json:"entity_name,omitempty"`
	AuthorName  string `json:"author_name,omitempty"`
	AuthorEmail string `json:"author_email,omitempty"`
}

// Target returns the kind and id of the altered entity.
func (a *Alteration) Target() (string, uuid.UUID) {
	if a.HikeID != nil {
		return KindHike, *a.HikeID
	}
	if a.CampingSiteID != nil {
		return KindCampingSite, *a.CampingSiteID
	}
	return "", uuid.Nil
}

// AlterationFilter narrows alteration listings. Zero values match everything.
type AlterationFilter struct {
	Status        string
	HikeID        *uuid.UUID
	CampingSiteID *uuid.UUID
	SubmittedBy   *uuid.UUID
}
