package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"trailhead/internal/db"
	"trailhead/internal/models"
	"trailhead/internal/validation"
)

// NoteHandler serves private per-user notes.
type NoteHandler struct {
	store Store
}

// NewNoteHandler creates a new API note handler.
func NewNoteHandler(store Store) *NoteHandler {
	return &NoteHandler{store: store}
}

// ownNote loads a note owned by the caller. Other users' notes read as missing.
func (h *NoteHandler) ownNote(c fiber.Ctx, user *models.User, id uuid.UUID) (*models.Note, error) {
	note, err := h.store.GetNote(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if note.UserID != user.ID {
		return nil, db.ErrNoteNotFound
	}
	return note, nil
}

// List returns the caller's notes, optionally for one hike or camping site.
func (h *NoteHandler) List(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	hikeID, err := queryID(c, "hike_id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid hike_id")
	}
	siteID, err := queryID(c, "camping_site_id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid camping_site_id")
	}

	notes, err := h.store.ListNotes(c.Context(), user.ID, hikeID, siteID)
	if err != nil {
		return serviceError(c, err, "failed to fetch notes")
	}
	return jsonSuccess(c, notes)
}

// Create adds a note to exactly one hike or camping site.
func (h *NoteHandler) Create(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var body struct {
		HikeID        *uuid.UUID `json:"hike_id"`
		CampingSiteID *uuid.UUID `json:"camping_site_id"`
		Content       string     `json:"content"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if (body.HikeID == nil) == (body.CampingSiteID == nil) {
		return jsonError(c, fiber.StatusBadRequest, "exactly one of hike_id or camping_site_id is required")
	}
	if valid, msg := validation.ValidateNoteContent(body.Content); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	note := &models.Note{
		UserID:        user.ID,
		HikeID:        body.HikeID,
		CampingSiteID: body.CampingSiteID,
		Content:       body.Content,
	}
	if err := h.store.CreateNote(c.Context(), note); err != nil {
		return serviceError(c, err, "failed to create note")
	}
	return jsonCreated(c, note)
}

// Get returns one of the caller's notes.
func (h *NoteHandler) Get(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid note id")
	}
	note, err := h.ownNote(c, user, id)
	if err != nil {
		return serviceError(c, err, "failed to fetch note")
	}
	return jsonSuccess(c, note)
}

// Update replaces the content of one of the caller's notes.
func (h *NoteHandler) Update(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := validation.ValidateNoteContent(body.Content); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid note id")
	}
	note, err := h.ownNote(c, user, id)
	if err != nil {
		return serviceError(c, err, "failed to fetch note")
	}
	note.Content = body.Content
	if err := h.store.UpdateNote(c.Context(), note); err != nil {
		return serviceError(c, err, "failed to update note")
	}
	return jsonSuccess(c, note)
}

// Delete removes one of the caller's notes.
func (h *NoteHandler) Delete(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid note id")
	}
	note, err := h.ownNote(c, user, id)
	if err != nil {
		return serviceError(c, err, "failed to fetch note")
	}
	if err := h.store.DeleteNote(c.Context(), note.ID); err != nil {
		return serviceError(c, err, "failed to delete note")
	}
	return jsonSuccess(c, fiber.Map{"deleted": note.ID})
}
