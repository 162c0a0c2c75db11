package middleware

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/mlsechub/modelhub/internal/config"
	"github.com/mlsechub/modelhub/internal/services"
	"github.com/mlsechub/modelhub/internal/types"
)

// AuthAdmin validates that the request has admin role authorization
func AuthAdmin(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg, []string{"admin"}, "hub.authorization.admin")
	}
}

// AuthUser validates that the request has user role authorization
func AuthUser(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg, []string{"user"}, "hub.authorization.user")
	}
}

// Username returns the authenticated user's name for attribution. The
// auth middleware must have run on the route.
func Username(c *fiber.Ctx) string {
	if name, ok := c.Locals("username").(string); ok && name != "" {
		return name
	}
	return "anonymous"
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, cfg *config.Config, roles []string, errorType string) error {
	if cfg.AuthDisabled {
		c.Locals("username", cfg.DevUser)
		return c.Next()
	}

	// Lazily initialize the authorizer client from the first request,
	// which carries the protocol and host for the redirect URL
	if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
		return &types.CustomError{
			Code:    fiber.StatusServiceUnavailable,
			Message: fmt.Sprintf("Authorizer unavailable: %v", err),
			Type:    errorType,
		}
	}

	// Get session cookie
	session := c.Cookies("cookie_session")
	if session == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    errorType,
		}
	}

	// Validate session
	data, err := services.ValidateSession(session, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	// Set user data in context
	if user, ok := data["user"]; ok {
		c.Locals("user", user)
		c.Locals("username", extractUsername(user))
	}

	return c.Next()
}

// extractUsername pulls a display name out of the authorizer user object
// without depending on its concrete type.
func extractUsername(user interface{}) string {
	raw, err := json.Marshal(user)
	if err != nil {
		return ""
	}
	var fields struct {
		PreferredUsername string `json:"preferred_username"`
		Nickname          string `json:"nickname"`
		Email             string `json:"email"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	for _, name := range []string{fields.PreferredUsername, fields.Nickname, fields.Email} {
		if name != "" {
			return name
		}
	}
	return ""
}
