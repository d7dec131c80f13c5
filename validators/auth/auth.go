package authValidator

import (
	"strings"

	"coderr/middleware"
	"coderr/services/accounts"

	"github.com/gofiber/fiber/v2"
)

// LoginRequest accepts either the username or the email as identifier
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identifier is the username, or the email when no username was sent
func (r *LoginRequest) Identifier() string {
	if strings.TrimSpace(r.Username) != "" {
		return r.Username
	}
	return r.Email
}

// Registration validator middleware. Field rules are checked by the accounts service.
func Registration() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(accounts.RegisterInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate credentials
		if strings.TrimSpace(reqData.Identifier()) == "" {
			errors["username"] = "Either username or email is required!"
		}

		// Validate Password
		if reqData.Password == "" {
			errors["password"] = "This field is required."
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		// Pass validated login request to the next middleware
		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
