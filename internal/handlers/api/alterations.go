package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"trailhead/internal/models"
	"trailhead/internal/moderation"
)

// AlterationHandler handles proposed edits via JSON API.
type AlterationHandler struct {
	svc *moderation.Service
}

// NewAlterationHandler creates a new API alteration handler.
func NewAlterationHandler(svc *moderation.Service) *AlterationHandler {
	return &AlterationHandler{svc: svc}
}

// Create proposes a change to one field of a hike or camping site.
func (h *AlterationHandler) Create(c fiber.Ctx) error {
	var body moderation.AlterationInput
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	alt, err := h.svc.ProposeAlteration(c.Context(), currentUser(c), body)
	if err != nil {
		return serviceError(c, err, "failed to propose alteration")
	}
	return jsonCreated(c, alt)
}

// List returns alterations. Non-moderators only see their own.
func (h *AlterationHandler) List(c fiber.Ctx) error {
	hikeID, err := queryID(c, "hike_id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid hike_id")
	}
	siteID, err := queryID(c, "camping_site_id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid camping_site_id")
	}

	alts, err := h.svc.ListAlterations(c.Context(), currentUser(c), models.AlterationFilter{
		Status:        c.Query("status", ""),
		HikeID:        hikeID,
		CampingSiteID: siteID,
	})
	if err != nil {
		return serviceError(c, err, "failed to fetch alterations")
	}
	if alts == nil {
		alts = []models.Alteration{}
	}
	return jsonSuccess(c, alts)
}

// Get returns one alteration to its submitter or a moderator.
func (h *AlterationHandler) Get(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid alteration id")
	}
	alt, err := h.svc.GetAlteration(c.Context(), currentUser(c), id)
	if err != nil {
		return serviceError(c, err, "failed to fetch alteration")
	}
	return jsonSuccess(c, alt)
}

// Decide approves or rejects an alteration, optionally applying it.
func (h *AlterationHandler) Decide(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid alteration id")
	}
	var body struct {
		Status string `json:"status"`
		Apply  bool   `json:"apply"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	alt, err := h.svc.DecideAlteration(c.Context(), currentUser(c), id, body.Status, body.Apply)
	if err != nil {
		return serviceError(c, err, "failed to record decision")
	}
	return jsonSuccess(c, alt)
}

// Delete removes an alteration. Only its submitter or an admin may.
func (h *AlterationHandler) Delete(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid alteration id")
	}
	if err := h.svc.DeleteAlteration(c.Context(), currentUser(c), id); err != nil {
		return serviceError(c, err, "failed to delete alteration")
	}
	return jsonSuccess(c, fiber.Map{"deleted": id})
}
