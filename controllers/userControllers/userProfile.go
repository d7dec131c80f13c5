package userControllers

import (
	"mime/multipart"
	"os"
	"path/filepath"

	"coderr/config"
	"coderr/database"
	"coderr/middleware"
	"coderr/models"
	"coderr/services/accounts"
	"coderr/utils"
	"coderr/validators"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func service() *accounts.Service {
	return accounts.NewService(database.Database.Db)
}

// GetProfile handles GET /api/profile/:id/
func GetProfile(c *fiber.Ctx) error {
	profile, err := service().GetProfile(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched!", profile)
}

// UpdateProfile handles PATCH /api/profile/:id/
func UpdateProfile(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProfile").(*accounts.ProfilePatch)

	profile, err := service().UpdateProfile(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "id"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", profile)
}

// UploadProfileFile handles POST /api/profile/:id/file/
func UploadProfileFile(c *fiber.Ctx) error {
	file := c.Locals("validatedFile").(*multipart.FileHeader)
	users := service()
	principal := middleware.CurrentPrincipal(c)
	id := validators.ParamID(c, "id")

	if err := users.AuthorizeProfileEdit(c.UserContext(), principal, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	path, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir, "profiles")
	if err != nil {
		utils.GetLogger().Error("Failed to store profile picture", zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload file!", nil)
	}

	profile, err := users.SetProfileFile(c.UserContext(), principal, id, utils.GetFileURL(path))
	if err != nil {
		_ = os.Remove(filepath.Join(config.AppConfig.UploadDir, filepath.FromSlash(path)))
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "File uploaded successfully.", profile)
}

// ListBusinessProfiles handles GET /api/profiles/business/
func ListBusinessProfiles(c *fiber.Ctx) error {
	return listProfiles(c, models.UserTypeBusiness)
}

// ListCustomerProfiles handles GET /api/profiles/customer/
func ListCustomerProfiles(c *fiber.Ctx) error {
	return listProfiles(c, models.UserTypeCustomer)
}

func listProfiles(c *fiber.Ctx, userType string) error {
	profiles, err := service().ListProfiles(c.UserContext(), middleware.CurrentPrincipal(c), userType)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profiles fetched!", profiles)
}
