// Package validators holds helpers shared by the per-area validator middlewares.
package validators

import (
	"strconv"
	"strings"

	"coderr/middleware"

	"github.com/gofiber/fiber/v2"
)

// IDParam validator middleware. It rejects a non-numeric path id with 404
// and stores the parsed id under the param name.
func IDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params(name), 10, 64)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found.", nil)
		}
		c.Locals(name, uint(id))
		return c.Next()
	}
}

// ParamID returns the id stored by IDParam
func ParamID(c *fiber.Ctx, name string) uint {
	id, _ := c.Locals(name).(uint)
	return id
}

// QueryUint parses an optional positive integer query parameter. Errors are
// recorded in errors under key.
func QueryUint(c *fiber.Ctx, key string, errors map[string]string) *uint {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		errors[key] = "Enter a valid positive integer."
		return nil
	}
	u := uint(v)
	return &u
}

// QueryInt parses an optional integer query parameter that must be at least min
func QueryInt(c *fiber.Ctx, key string, min int, errors map[string]string) *int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errors[key] = "Enter a whole number."
		return nil
	}
	if v < min {
		errors[key] = "Ensure this value is greater than or equal to " + strconv.Itoa(min) + "."
		return nil
	}
	return &v
}
