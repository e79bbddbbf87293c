// middleware/auth.go
package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the GitHub identity the Gateway verified via
// OAuth and forwarded. Claim authorization compares this login against the
// bounty's recorded contributor, so a missing identity is a hard 401.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		login := c.Get("X-GitHub-Login")
		if login == "" {
			log.Printf("❌ [USER_CTX] X-GitHub-Login required but missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-GitHub-Login, request must come through gateway with auth context",
			})
		}

		c.Locals("github_login", login)
		return c.Next()
	}
}
