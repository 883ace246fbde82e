package api

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"trailhead/internal/db"
	"trailhead/internal/models"
	"trailhead/internal/moderation"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonCreated returns a 201 response with data wrapped in the standard envelope.
func jsonCreated(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// serviceError maps workflow and storage errors onto HTTP responses.
func serviceError(c fiber.Ctx, err error, fallback string) error {
	var vErr *moderation.ValidationError
	switch {
	case errors.Is(err, moderation.ErrUnauthenticated):
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, moderation.ErrForbidden):
		return jsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, db.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, err.Error())
	case errors.As(err, &vErr):
		return jsonError(c, fiber.StatusBadRequest, vErr.Error())
	case errors.Is(err, db.ErrDuplicateQueueEntry), errors.Is(err, db.ErrDuplicateCatalogType):
		return jsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, db.ErrConstraint):
		return jsonError(c, fiber.StatusBadRequest, "request violates a data constraint")
	}
	slog.Error(fallback, "path", c.Path(), "error", err)
	return jsonError(c, fiber.StatusInternalServerError, fallback)
}

// currentUser returns the authenticated user or nil.
func currentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// paramID parses a UUID route parameter.
func paramID(c fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// queryID parses an optional UUID query parameter.
func queryID(c fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name, "")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// queryInt parses a non-negative integer query parameter.
func queryInt(c fiber.Ctx, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name, ""))
	if err != nil || n < 0 {
		return def
	}
	return n
}
