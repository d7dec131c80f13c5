package authRoutes

import (
	authControllers "coderr/controllers/auth"
	authValidators "coderr/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api")

	authGroup.Post("/registration", authValidators.Registration(), authControllers.Registration)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
}
