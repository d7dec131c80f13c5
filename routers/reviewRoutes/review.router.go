package reviewRoutes

import (
	reviewControllers "coderr/controllers/review"
	"coderr/middleware"
	"coderr/validators"
	reviewValidators "coderr/validators/review"

	"github.com/gofiber/fiber/v2"
)

func SetupReviewRoutes(app *fiber.App) {
	reviewGroup := app.Group("/api")

	reviewGroup.Get("/reviews", reviewValidators.ListReviews(), reviewControllers.ListReviews)
	reviewGroup.Post("/reviews", middleware.JWTMiddleware, reviewValidators.CreateReview(), reviewControllers.CreateReview)
	reviewGroup.Patch("/reviews/:id", middleware.JWTMiddleware, validators.IDParam("id"), reviewValidators.UpdateReview(), reviewControllers.UpdateReview)
	reviewGroup.Delete("/reviews/:id", middleware.JWTMiddleware, validators.IDParam("id"), reviewControllers.DeleteReview)
}
