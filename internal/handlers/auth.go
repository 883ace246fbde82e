package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"trailhead/internal/identity"
	"trailhead/internal/middleware"
)

const (
	sessionState    = "oauth_state"
	sessionRedirect = "redirect_after_login"
)

// LoginProvider runs the authorization code flow.
type LoginProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*identity.Tokens, error)
}

// AuthHandler handles OIDC authentication flows.
type AuthHandler struct {
	provider LoginProvider
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(provider LoginProvider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// safeRedirect accepts only same-site relative paths.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

// Login initiates the OIDC login flow.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	state, err := generateState()
	if err != nil {
		return err
	}
	sess.Set(sessionState, state)
	if redirect := c.Query("redirect", ""); redirect != "" {
		sess.Set(sessionRedirect, safeRedirect(redirect))
	}

	return c.Redirect().To(h.provider.AuthCodeURL(state))
}

// Callback handles the OIDC callback after authentication and stores the
// tokens in the session. Users are upserted on their first authenticated request.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	savedState, _ := sess.Get(sessionState).(string)
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete(sessionState)

	if errParam := c.Query("error", ""); errParam != "" {
		slog.Warn("identity provider returned an error", "error", errParam, "description", c.Query("error_description"))
		return fiber.NewError(fiber.StatusUnauthorized, "login was not completed")
	}

	tokens, err := h.provider.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		slog.Warn("code exchange failed", "error", err)
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}
	middleware.StoreTokens(sess, tokens)

	redirectURL := "/"
	if saved, ok := sess.Get(sessionRedirect).(string); ok && saved != "" {
		redirectURL = safeRedirect(saved)
		sess.Delete(sessionRedirect)
	}

	return c.Redirect().To(redirectURL)
}

// Logout clears the user session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		if err := sess.Destroy(); err != nil {
			slog.Warn("failed to destroy session", "error", err)
		}
	}
	return c.Redirect().To("/")
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
