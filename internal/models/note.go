package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxNoteLength caps note content in characters.
const MaxNoteLength = 10000

// Note is a private user note attached to exactly one hike or camping site.
type Note struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	HikeID        *uuid.UUID `json:"hike_id"`
	CampingSiteID *uuid.UUID `json:"camping_site_id"`
	Content       string     `json:"content"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
