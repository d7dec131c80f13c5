package userValidator

import (
	"coderr/middleware"
	"coderr/services/accounts"
	"coderr/utils"

	"github.com/gofiber/fiber/v2"
)

// Largest accepted profile picture
const maxFileSize = 5 << 20

// UpdateProfile validator middleware
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(accounts.ProfilePatch)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

// UploadFile validator middleware for the profile picture
func UploadFile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("file")
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"file": "No file was submitted."})
		}

		errors := make(map[string]string)
		if !utils.IsAllowedImage(file.Filename) {
			errors["file"] = "Upload a valid image. Allowed types are jpg, jpeg, png, gif and webp."
		} else if file.Size > maxFileSize {
			errors["file"] = "Image must not be larger than 5 MB."
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFile", file)
		return c.Next()
	}
}
