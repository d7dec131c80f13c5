package reviewController

import (
	"coderr/database"
	"coderr/middleware"
	"coderr/services/reviews"
	"coderr/validators"
	reviewValidator "coderr/validators/review"

	"github.com/gofiber/fiber/v2"
)

func service() *reviews.Service {
	return reviews.NewService(database.Database.Db)
}

// ListReviews handles GET /api/reviews/
func ListReviews(c *fiber.Ctx) error {
	query := c.Locals("reviewQuery").(*reviewValidator.ListQuery)

	list, err := service().ListReviews(c.UserContext(), query.Filter, query.Ordering)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", list)
}

// CreateReview handles POST /api/reviews/
func CreateReview(c *fiber.Ctx) error {
	reqData := c.Locals("validatedReview").(*reviews.CreateInput)

	review, err := service().CreateReview(c.UserContext(), middleware.CurrentPrincipal(c), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully.", review)
}

// UpdateReview handles PATCH /api/reviews/:id/
func UpdateReview(c *fiber.Ctx) error {
	reqData := c.Locals("validatedReviewPatch").(*reviews.Patch)

	review, err := service().UpdateReview(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "id"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully.", review)
}

// DeleteReview handles DELETE /api/reviews/:id/
func DeleteReview(c *fiber.Ctx) error {
	if err := service().DeleteReview(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully.", nil)
}
