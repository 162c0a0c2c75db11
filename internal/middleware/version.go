package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CurrentAPIVersion is served when the client does not ask for one.
const CurrentAPIVersion = "2.0.0"

// APIVersion resolves the X-Api-Version request header, expands
// major.minor aliases (e.g. "2.0" means "2.0.0") and echoes the resolved
// version on the response so clients can detect what they negotiated.
// Handlers read it from c.Locals("apiVersion").
func APIVersion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", CurrentAPIVersion)
		if strings.Count(version, ".") == 1 {
			version += ".0"
		}
		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", version)
		return c.Next()
	}
}
