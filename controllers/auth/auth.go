package authController

import (
	"coderr/database"
	"coderr/middleware"
	"coderr/models"
	"coderr/services/access"
	"coderr/services/accounts"
	"coderr/utils"
	authValidator "coderr/validators/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// session is returned by registration and login
func session(c *fiber.Ctx, status int, message string, user *models.User) error {
	token, err := middleware.GenerateJWT(user.ID, string(access.RoleOf(*user)))
	if err != nil {
		utils.GetLogger().Error("Error generating token", zap.Uint("user_id", user.ID), zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return middleware.JsonResponse(c, status, true, message, fiber.Map{
		"token":    token,
		"username": user.Username,
		"email":    user.Email,
		"user_id":  user.ID,
	})
}

// Registration handles POST /api/registration/
func Registration(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*accounts.RegisterInput)

	user, err := accounts.NewService(database.Database.Db).Register(c.UserContext(), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return session(c, fiber.StatusCreated, "User registered successfully.", user)
}

// Login handles POST /api/login/
func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	user, err := accounts.NewService(database.Database.Db).Login(c.UserContext(), reqData.Identifier(), reqData.Password)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return session(c, fiber.StatusOK, "Login successful.", user)
}
