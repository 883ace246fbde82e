package api

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"trailhead/internal/models"
	"trailhead/internal/moderation"
	"trailhead/internal/validation"
)

// FileHandler serves metadata for uploaded files.
type FileHandler struct {
	store Store
	blobs moderation.BlobDeleter
}

// NewFileHandler creates a new API file handler. blobs may be nil when no
// object store is configured.
func NewFileHandler(store Store, blobs moderation.BlobDeleter) *FileHandler {
	return &FileHandler{store: store, blobs: blobs}
}

// visibleEntity loads an entity and hides it from callers who may not see it.
func visibleEntity(c fiber.Ctx, store Store, kind string, id uuid.UUID) error {
	if !models.IsValidKind(kind) {
		return moderation.ErrInvalidKind
	}
	e, err := store.GetEntity(c.Context(), kind, id)
	if err != nil {
		return err
	}
	if !canView(currentUser(c), e) {
		return moderation.ErrNotFound
	}
	return nil
}

// Create records an uploaded file against a hike or camping site.
func (h *FileHandler) Create(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var body struct {
		EntityType string    `json:"entity_type"`
		EntityID   uuid.UUID `json:"entity_id"`
		FileType   string    `json:"file_type"`
		FileURL    string    `json:"file_url"`
		FileName   string    `json:"file_name"`
		FileSize   *int64    `json:"file_size"`
		MimeType   *string   `json:"mime_type"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if !models.IsValidFileType(body.FileType) {
		return jsonError(c, fiber.StatusBadRequest, `file_type must be "image" or "document"`)
	}
	if valid, msg := validation.ValidateURL(body.FileURL); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	name := validation.SanitizeText(body.FileName)
	if name == nil {
		return jsonError(c, fiber.StatusBadRequest, "file_name is required")
	}
	if body.FileSize != nil && *body.FileSize < 0 {
		return jsonError(c, fiber.StatusBadRequest, "file_size cannot be negative")
	}
	if err := visibleEntity(c, h.store, body.EntityType, body.EntityID); err != nil {
		return serviceError(c, err, "failed to fetch entity")
	}

	f := &models.File{
		EntityType: body.EntityType,
		EntityID:   body.EntityID,
		FileType:   body.FileType,
		FileURL:    body.FileURL,
		FileName:   *name,
		FileSize:   body.FileSize,
		MimeType:   body.MimeType,
		UploadedBy: user.ID,
	}
	if err := h.store.CreateFile(c.Context(), f); err != nil {
		return serviceError(c, err, "failed to record file")
	}
	return jsonCreated(c, f)
}

// Get returns one file's metadata.
func (h *FileHandler) Get(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid file id")
	}
	f, err := h.store.GetFile(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "failed to fetch file")
	}
	if err := visibleEntity(c, h.store, f.EntityType, f.EntityID); err != nil {
		return serviceError(c, err, "failed to fetch file")
	}
	return jsonSuccess(c, f)
}

// ListFor returns the files attached to the entity at /:id.
func (h *FileHandler) ListFor(kind string) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid id")
		}
		if err := visibleEntity(c, h.store, kind, id); err != nil {
			return serviceError(c, err, "failed to fetch files")
		}
		files, err := h.store.ListFiles(c.Context(), kind, id)
		if err != nil {
			return serviceError(c, err, "failed to fetch files")
		}
		return jsonSuccess(c, files)
	}
}

// Delete removes the stored blob and then the file row. Only the uploader or
// an admin may.
func (h *FileHandler) Delete(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid file id")
	}
	f, err := h.store.GetFile(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "failed to fetch file")
	}
	if f.UploadedBy != user.ID && !user.IsAdmin() {
		return jsonError(c, fiber.StatusForbidden, "you do not have permission to delete this file")
	}

	if h.blobs != nil {
		if err := h.blobs.Delete(c.Context(), f.FileURL); err != nil {
			slog.Error("failed to delete blob", "file_id", f.ID, "error", err)
			return jsonError(c, fiber.StatusBadGateway, "failed to delete stored file")
		}
	}
	if err := h.store.DeleteFile(c.Context(), id); err != nil {
		return serviceError(c, err, "failed to delete file")
	}
	return jsonSuccess(c, fiber.Map{"deleted": id})
}
