package api

import (
	"github.com/gofiber/fiber/v3"

	"trailhead/internal/config"
)

// UserHandler serves the caller's profile, site stats and type catalogs.
type UserHandler struct {
	store   Store
	catalog config.CatalogConfig
}

// NewUserHandler creates a new API user handler.
func NewUserHandler(store Store, yamlCfg *config.YAMLConfig) *UserHandler {
	h := &UserHandler{store: store}
	if yamlCfg != nil {
		h.catalog = yamlCfg.Catalogs
	}
	return h
}

// Me returns the authenticated user with the role resolved for this session.
func (h *UserHandler) Me(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return jsonSuccess(c, user)
}

// PublicStats returns headline counts.
func (h *UserHandler) PublicStats(c fiber.Ctx) error {
	stats, err := h.store.GetPublicStats(c.Context())
	if err != nil {
		return serviceError(c, err, "failed to fetch stats")
	}
	return jsonSuccess(c, stats)
}

// AdminStats returns the moderation workload. Admin only.
func (h *UserHandler) AdminStats(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAdmin() {
		return jsonError(c, fiber.StatusForbidden, "admin access required")
	}
	stats, err := h.store.GetAdminStats(c.Context())
	if err != nil {
		return serviceError(c, err, "failed to fetch stats")
	}
	return jsonSuccess(c, stats)
}

// Catalog returns the configured trail types, features, amenities, facilities and seasons.
func (h *UserHandler) Catalog(c fiber.Ctx) error {
	return jsonSuccess(c, h.catalog)
}
