package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"trailhead/internal/models"
	"trailhead/internal/validation"
)

// CatalogTypeHandler serves the admin-managed trail, feature, amenity and
// facility types. Each route is bound to one category.
type CatalogTypeHandler struct {
	store Store
}

// NewCatalogTypeHandler creates a new catalog type handler.
func NewCatalogTypeHandler(store Store) *CatalogTypeHandler {
	return &CatalogTypeHandler{store: store}
}

type catalogTypeBody struct {
	Name         *string `json:"name"`
	Key          *string `json:"key"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
	DisplayOrder *int    `json:"display_order"`
	Active       *bool   `json:"active"`
}

// apply copies the fields present in the body onto t.
func (b catalogTypeBody) apply(t *models.CatalogType) string {
	if b.Name != nil {
		name := validation.SanitizeText(*b.Name)
		if name == nil {
			return "name is required"
		}
		t.Name = *name
	}
	if b.Key != nil {
		t.Key = validation.SanitizeText(*b.Key)
	}
	if b.Description != nil {
		t.Description = validation.SanitizeText(*b.Description)
	}
	if b.Icon != nil {
		t.Icon = validation.SanitizeText(*b.Icon)
	}
	if b.DisplayOrder != nil {
		t.DisplayOrder = *b.DisplayOrder
	}
	if b.Active != nil {
		t.Active = *b.Active
	}
	return ""
}

// requireAdmin writes the error response and returns false for non-admins.
func requireAdmin(c fiber.Ctx) (bool, error) {
	user := currentUser(c)
	if user == nil {
		return false, jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAdmin() {
		return false, jsonError(c, fiber.StatusForbidden, "admin access required")
	}
	return true, nil
}

// List returns the category's types. ?active=true hides inactive ones.
func (h *CatalogTypeHandler) List(category string) fiber.Handler {
	return func(c fiber.Ctx) error {
		types, err := h.store.ListCatalogTypes(c.Context(), category, c.Query("active", "") == "true")
		if err != nil {
			return serviceError(c, err, "failed to fetch types")
		}
		return jsonSuccess(c, types)
	}
}

// Get returns one type.
func (h *CatalogTypeHandler) Get(category string) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid id")
		}
		t, err := h.store.GetCatalogType(c.Context(), category, id)
		if err != nil {
			return serviceError(c, err, "failed to fetch type")
		}
		return jsonSuccess(c, t)
	}
}

// Create adds a type. Admin only.
func (h *CatalogTypeHandler) Create(category string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if ok, err := requireAdmin(c); !ok {
			return err
		}
		var body catalogTypeBody
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
		if body.Name == nil {
			return jsonError(c, fiber.StatusBadRequest, "name is required")
		}

		t := &models.CatalogType{Category: category, Active: true}
		if msg := body.apply(t); msg != "" {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
		if err := h.store.CreateCatalogType(c.Context(), t); err != nil {
			return serviceError(c, err, "failed to create type")
		}
		return jsonCreated(c, t)
	}
}

// Update changes the fields present in the body. Admin only.
func (h *CatalogTypeHandler) Update(category string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if ok, err := requireAdmin(c); !ok {
			return err
		}
		id, err := paramID(c, "id")
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid id")
		}
		var body catalogTypeBody
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}

		t, err := h.store.GetCatalogType(c.Context(), category, id)
		if err != nil {
			return serviceError(c, err, "failed to fetch type")
		}
		if msg := body.apply(t); msg != "" {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
		if err := h.store.UpdateCatalogType(c.Context(), t); err != nil {
			return serviceError(c, err, "failed to update type")
		}
		return jsonSuccess(c, t)
	}
}

// Delete removes a type. Admin only.
func (h *CatalogTypeHandler) Delete(category string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if ok, err := requireAdmin(c); !ok {
			return err
		}
		id, err := paramID(c, "id")
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid id")
		}
		if err := h.store.DeleteCatalogType(c.Context(), category, id); err != nil {
			return serviceError(c, err, "failed to delete type")
		}
		return jsonSuccess(c, fiber.Map{"deleted": id})
	}
}
