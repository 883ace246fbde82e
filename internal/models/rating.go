package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxReviewLength caps review text in characters.
const MaxReviewLength = 5000

// Rating is one user's star rating, with an optional review, of exactly one
// hike or camping site. A user holds at most one rating per entity.
type Rating struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	HikeID        *uuid.UUID `json:"hike_id"`
	CampingSiteID *uuid.UUID `json:"camping_site_id"`
	Rating        float64    `json:"rating"`
	ReviewText    *string    `json:"review_text"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Target returns the rated entity's kind and ID.
func (r *Rating) Target() (string, uuid.UUID) {
	if r.HikeID != nil {
		return KindHike, *r.HikeID
	}
	return KindCampingSite, *r.CampingSiteID
}

// RatingFilter narrows a rating listing to one entity.
type RatingFilter struct {
	HikeID        *uuid.UUID
	CampingSiteID *uuid.UUID
	ReviewsOnly   bool
	Limit         int
	Offset        int
}
