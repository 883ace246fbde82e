package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"trailhead/internal/models"
	"trailhead/internal/moderation"
)

// ModerationHandler handles the review queue via JSON API.
type ModerationHandler struct {
	svc *moderation.Service
}

// NewModerationHandler creates a new API moderation handler.
func NewModerationHandler(svc *moderation.Service) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

// List returns queue entries, filtered by the status query parameter.
func (h *ModerationHandler) List(c fiber.Ctx) error {
	entries, err := h.svc.ListQueue(c.Context(), currentUser(c), c.Query("status", models.StatusPending))
	if err != nil {
		return serviceError(c, err, "failed to fetch moderation queue")
	}
	if entries == nil {
		entries = []models.ModerationEntry{}
	}
	return jsonSuccess(c, entries)
}

// Decide approves or rejects the entity at /:type/:id.
func (h *ModerationHandler) Decide(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid entity id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := h.svc.DecideModeration(c.Context(), currentUser(c), c.Params("type"), id, body.Status)
	if err != nil {
		return serviceError(c, err, "failed to record decision")
	}
	return jsonSuccess(c, entry)
}
