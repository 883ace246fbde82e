package api

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"trailhead/internal/models"
	"trailhead/internal/moderation"
)

// EntityHandler serves hikes and camping sites.
type EntityHandler struct {
	svc   *moderation.Service
	store Store
}

// NewEntityHandler creates a new API entity handler.
func NewEntityHandler(svc *moderation.Service, store Store) *EntityHandler {
	return &EntityHandler{svc: svc, store: store}
}

// canView reports whether user may see e. Unapproved entries are visible to
// their creator and to moderators.
func canView(user *models.User, e models.Entity) bool {
	if e.CurrentStatus() == models.StatusApproved {
		return true
	}
	if user == nil {
		return false
	}
	return user.IsModerator() || user.Owns(e.Owner())
}

// listFilter reads status, featured, limit and offset. Only moderators may
// list entries that are not approved.
func listFilter(c fiber.Ctx) (models.EntityFilter, error) {
	user := currentUser(c)
	f := models.EntityFilter{
		Status: c.Query("status", ""),
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}

	if f.Status != "" && !models.IsValidStatus(f.Status) {
		return f, &moderation.ValidationError{Field: "status", Message: "must be pending, approved or rejected"}
	}
	if user == nil || !user.IsModerator() {
		if f.Status != "" && f.Status != models.StatusApproved {
			return f, moderation.ErrForbidden
		}
		f.Status = models.StatusApproved
	}
	if c.Query("featured", "") == "true" {
		featured := true
		f.Featured = &featured
		f.Status = models.StatusApproved
	}
	return f, nil
}

// loadAddress fetches the referenced address for display. Failures are logged
// and leave the address empty.
func (h *EntityHandler) loadAddress(c fiber.Ctx, id *uuid.UUID) *models.Address {
	if id == nil {
		return nil
	}
	addr, err := h.store.GetAddress(c.Context(), *id)
	if err != nil {
		slog.Warn("failed to load address", "address_id", *id, "error", err)
		return nil
	}
	return addr
}

// ListHikes returns hikes visible to the caller.
func (h *EntityHandler) ListHikes(c fiber.Ctx) error {
	f, err := listFilter(c)
	if err != nil {
		return serviceError(c, err, "failed to fetch hikes")
	}
	hikes, err := h.store.ListHikes(c.Context(), f)
	if err != nil {
		return serviceError(c, err, "failed to fetch hikes")
	}
	return jsonSuccess(c, hikes)
}

// GetHike returns a single hike with its address.
func (h *EntityHandler) GetHike(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid hike id")
	}
	hike, err := h.store.GetHike(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "failed to fetch hike")
	}
	if !canView(currentUser(c), hike) {
		return jsonError(c, fiber.StatusNotFound, "hike not found")
	}
	hike.Address = h.loadAddress(c, hike.AddressID)
	return jsonSuccess(c, hike)
}

// SubmitHike creates a pending hike and queues it for review.
func (h *EntityHandler) SubmitHike(c fiber.Ctx) error {
	var body moderation.HikeInput
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	hike, err := h.svc.SubmitHike(c.Context(), currentUser(c), body)
	if err != nil {
		return serviceError(c, err, "failed to submit hike")
	}
	return jsonCreated(c, hike)
}

// UpdateHike applies a partial update. Only the creator or an admin may.
func (h *EntityHandler) UpdateHike(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid hike id")
	}
	var fields map[string]any
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	hike, err := h.svc.UpdateHike(c.Context(), currentUser(c), id, fields)
	if err != nil {
		return serviceError(c, err, "failed to update hike")
	}
	return jsonSuccess(c, hike)
}

// ListCampingSites returns camping sites visible to the caller.
func (h *EntityHandler) ListCampingSites(c fiber.Ctx) error {
	f, err := listFilter(c)
	if err != nil {
		return serviceError(c, err, "failed to fetch camping sites")
	}
	sites, err := h.store.ListCampingSites(c.Context(), f)
	if err != nil {
		return serviceError(c, err, "failed to fetch camping sites")
	}
	return jsonSuccess(c, sites)
}

// GetCampingSite returns a single camping site with its address.
func (h *EntityHandler) GetCampingSite(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid camping site id")
	}
	site, err := h.store.GetCampingSite(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "failed to fetch camping site")
	}
	if !canView(currentUser(c), site) {
		return jsonError(c, fiber.StatusNotFound, "camping site not found")
	}
	site.Address = h.loadAddress(c, site.AddressID)
	return jsonSuccess(c, site)
}

// SubmitCampingSite creates a pending camping site and queues it for review.
func (h *EntityHandler) SubmitCampingSite(c fiber.Ctx) error {
	var body moderation.CampingSiteInput
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	site, err := h.svc.SubmitCampingSite(c.Context(), currentUser(c), body)
	if err != nil {
		return serviceError(c, err, "failed to submit camping site")
	}
	return jsonCreated(c, site)
}

// UpdateCampingSite applies a partial update. Only the creator or an admin may.
func (h *EntityHandler) UpdateCampingSite(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid camping site id")
	}
	var fields map[string]any
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	site, err := h.svc.UpdateCampingSite(c.Context(), currentUser(c), id, fields)
	if err != nil {
		return serviceError(c, err, "failed to update camping site")
	}
	return jsonSuccess(c, site)
}

// EditField edits one field. Privileged callers edit directly and get 200,
// everyone else files an alteration and gets 202.
func (h *EntityHandler) EditField(kind string) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid id")
		}
		var body moderation.FieldEdit
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
		res, err := h.svc.EditField(c.Context(), currentUser(c), kind, id, body)
		if err != nil {
			return serviceError(c, err, "failed to edit field")
		}
		if !res.Applied {
			c.Status(fiber.StatusAccepted)
		}
		return jsonSuccess(c, res)
	}
}

// Delete removes an entity and its files. Only the creator or an admin may.
func (h *EntityHandler) Delete(kind string) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid id")
		}
		if err := h.svc.DeleteEntity(c.Context(), currentUser(c), kind, id); err != nil {
			return serviceError(c, err, "failed to delete")
		}
		return jsonSuccess(c, fiber.Map{"deleted": id})
	}
}

// SetFeatured toggles the featured flag. Admin only.
func (h *EntityHandler) SetFeatured(kind string) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid id")
		}
		var body struct {
			Featured bool `json:"featured"`
		}
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
		if err := h.svc.SetFeatured(c.Context(), currentUser(c), kind, id, body.Featured); err != nil {
			return serviceError(c, err, "failed to update featured flag")
		}
		return jsonSuccess(c, fiber.Map{"id": id, "featured": body.Featured})
	}
}
