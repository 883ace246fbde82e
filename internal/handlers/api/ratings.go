package api

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"trailhead/internal/models"
	"trailhead/internal/validation"
)

// RatingHandler serves star ratings and reviews. Aggregate scores are not
// computed here.
type RatingHandler struct {
	store Store
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(store Store) *RatingHandler {
	return &RatingHandler{store: store}
}

// ratingTarget resolves exactly one of a hike or camping site ID.
func ratingTarget(hikeID, campingSiteID *uuid.UUID) (string, uuid.UUID, bool) {
	switch {
	case hikeID != nil && campingSiteID == nil:
		return models.KindHike, *hikeID, true
	case campingSiteID != nil && hikeID == nil:
		return models.KindCampingSite, *campingSiteID, true
	}
	return "", uuid.Nil, false
}

// queryTarget reads ?hike_id= or ?camping_site_id=. A non-empty message
// describes a bad query.
func queryTarget(c fiber.Ctx) (string, uuid.UUID, string) {
	hikeID, err := queryID(c, "hike_id")
	if err != nil {
		return "", uuid.Nil, "invalid hike_id"
	}
	siteID, err := queryID(c, "camping_site_id")
	if err != nil {
		return "", uuid.Nil, "invalid camping_site_id"
	}
	kind, id, ok := ratingTarget(hikeID, siteID)
	if !ok {
		return "", uuid.Nil, "exactly one of hike_id or camping_site_id is required"
	}
	return kind, id, ""
}

// List returns an entity's ratings, newest first.
func (h *RatingHandler) List(c fiber.Ctx) error {
	kind, id, msg := queryTarget(c)
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if err := visibleEntity(c, h.store, kind, id); err != nil {
		return serviceError(c, err, "failed to fetch ratings")
	}

	f := models.RatingFilter{
		ReviewsOnly: c.Query("reviews_only", "") == "true",
		Limit:       queryInt(c, "limit", 50),
		Offset:      queryInt(c, "offset", 0),
	}
	if kind == models.KindHike {
		f.HikeID = &id
	} else {
		f.CampingSiteID = &id
	}
	ratings, err := h.store.ListRatings(c.Context(), f)
	if err != nil {
		return serviceError(c, err, "failed to fetch ratings")
	}
	return jsonSuccess(c, ratings)
}

// Upsert creates or replaces the caller's rating of an entity. It answers
// 201 for a new rating and 200 for a replaced one.
func (h *RatingHandler) Upsert(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var body struct {
		HikeID        *uuid.UUID `json:"hike_id"`
		CampingSiteID *uuid.UUID `json:"camping_site_id"`
		Rating        *float64   `json:"rating"`
		ReviewText    *string    `json:"review_text"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	kind, id, ok := ratingTarget(body.HikeID, body.CampingSiteID)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "exactly one of hike_id or camping_site_id is required")
	}
	if body.Rating == nil {
		return jsonError(c, fiber.StatusBadRequest, "rating is required")
	}
	if valid, msg := validation.ValidateRating(*body.Rating); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	var review *string
	if body.ReviewText != nil {
		if valid, msg := validation.ValidateReviewText(*body.ReviewText); !valid {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
		if text := strings.TrimSpace(*body.ReviewText); text != "" {
			review = &text
		}
	}
	if err := visibleEntity(c, h.store, kind, id); err != nil {
		return serviceError(c, err, "failed to save rating")
	}

	rating := &models.Rating{
		UserID:        user.ID,
		HikeID:        body.HikeID,
		CampingSiteID: body.CampingSiteID,
		Rating:        *body.Rating,
		ReviewText:    review,
	}
	created, err := h.store.UpsertRating(c.Context(), rating)
	if err != nil {
		return serviceError(c, err, "failed to save rating")
	}
	if created {
		return jsonCreated(c, rating)
	}
	return jsonSuccess(c, rating)
}

// Delete removes the caller's rating of the entity named in the query.
func (h *RatingHandler) Delete(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	kind, id, msg := queryTarget(c)
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if err := h.store.DeleteRating(c.Context(), user.ID, kind, id); err != nil {
		return serviceError(c, err, "failed to delete rating")
	}
	return jsonSuccess(c, fiber.Map{"deleted": true})
}
