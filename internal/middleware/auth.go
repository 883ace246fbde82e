package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"trailhead/internal/identity"
	"trailhead/internal/models"
)

// Session keys holding the identity provider tokens.
const (
	SessionIDToken      = "id_token"
	SessionRefreshToken = "refresh_token"
)

// UserStore persists the profile of authenticated callers.
type UserStore interface {
	UpsertUser(ctx context.Context, user *models.User) error
}

// AuthMiddleware resolves the caller from the session tokens.
type AuthMiddleware struct {
	provider identity.Provider
	users    UserStore
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(provider identity.Provider, users UserStore) *AuthMiddleware {
	return &AuthMiddleware{provider: provider, users: users}
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	user, err := m.resolve(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	if user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}

// RequireAuth rejects requests without a valid session. A user already
// resolved by OptionalAuth is reused.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if CurrentUser(c) != nil {
		return c.Next()
	}
	user, err := m.resolve(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}
	c.Locals("user", user)
	return c.Next()
}

// RequireRole rejects callers below level. It must run after RequireAuth.
func RequireRole(level string) fiber.Handler {
	return func(c fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if !user.HasRole(level) {
			return jsonError(c, fiber.StatusForbidden, level+" access required")
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by the auth middleware, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// resolve verifies the session, refreshing it once when the ID token has
// expired. A session that cannot be verified or refreshed is cleared.
func (m *AuthMiddleware) resolve(c fiber.Ctx) (*models.User, error) {
	sess := session.FromContext(c)
	if sess == nil {
		return nil, nil
	}
	idToken, _ := sess.Get(SessionIDToken).(string)
	if idToken == "" {
		return nil, nil
	}

	ctx := c.Context()
	ident, err := m.provider.VerifySession(ctx, idToken)
	if errors.Is(err, identity.ErrNoSession) {
		ident, err = m.refresh(ctx, sess)
	}
	if err != nil {
		slog.Debug("session rejected", "error", err)
		sess.Delete(SessionIDToken)
		sess.Delete(SessionRefreshToken)
		return nil, nil
	}

	user := &models.User{Sub: ident.Sub, Email: ident.Email, Name: ident.Name}
	if err := m.users.UpsertUser(ctx, user); err != nil {
		slog.Error("failed to upsert user", "sub", ident.Sub, "error", err)
		return nil, err
	}
	user.Role = ident.Role
	return user, nil
}

func (m *AuthMiddleware) refresh(ctx context.Context, sess *session.Middleware) (*identity.Identity, error) {
	refreshToken, _ := sess.Get(SessionRefreshToken).(string)
	tokens, err := m.provider.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	ident, err := m.provider.VerifySession(ctx, tokens.IDToken)
	if err != nil {
		return nil, err
	}
	StoreTokens(sess, tokens)
	return ident, nil
}

// StoreTokens writes provider tokens into the session.
func StoreTokens(sess *session.Middleware, tokens *identity.Tokens) {
	sess.Set(SessionIDToken, tokens.IDToken)
	if tokens.RefreshToken != "" {
		sess.Set(SessionRefreshToken, tokens.RefreshToken)
	}
}

func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
