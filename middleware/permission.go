package middleware

import (
	"coderr/services/access"

	"github.com/gofiber/fiber/v2"
)

// RequireRoleMiddleware returns a middleware that lets only the given roles
// through. It must run after JWTMiddleware.
func RequireRoleMiddleware(roles ...access.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := access.RequireRole(CurrentPrincipal(c), roles...); err != nil {
			return ErrorResponse(c, err)
		}
		return c.Next()
	}
}
