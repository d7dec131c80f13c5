package userRoutes

import (
	userControllers "coderr/controllers/userControllers"
	"coderr/middleware"
	"coderr/validators"
	userValidators "coderr/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/api")

	userGroup.Get("/profile/:id", middleware.JWTMiddleware, validators.IDParam("id"), userControllers.GetProfile)
	userGroup.Patch("/profile/:id", middleware.JWTMiddleware, validators.IDParam("id"), userValidators.UpdateProfile(), userControllers.UpdateProfile)
	userGroup.Post("/profile/:id/file", middleware.JWTMiddleware, validators.IDParam("id"), userValidators.UploadFile(), userControllers.UploadProfileFile)
	userGroup.Get("/profiles/business", middleware.JWTMiddleware, userControllers.ListBusinessProfiles)
	userGroup.Get("/profiles/customer", middleware.JWTMiddleware, userControllers.ListCustomerProfiles)
}
