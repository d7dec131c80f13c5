package reviewValidator

import (
	"strings"

	"coderr/middleware"
	"coderr/services/reviews"
	"coderr/validators"

	"github.com/gofiber/fiber/v2"
)

// ListQuery is a parsed review listing request
type ListQuery struct {
	Filter   reviews.Filter
	Ordering string
}

// ListReviews validator middleware
func ListReviews() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)
		query := &ListQuery{Ordering: strings.TrimSpace(c.Query("ordering"))}

		if id := validators.QueryUint(c, "business_user_id", errors); id != nil {
			query.Filter.BusinessUserID = *id
		}
		if id := validators.QueryUint(c, "reviewer_id", errors); id != nil {
			query.Filter.ReviewerID = *id
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("reviewQuery", query)
		return c.Next()
	}
}

// CreateReview validator middleware
func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(reviews.CreateInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// UpdateReview validator middleware
func UpdateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(reviews.Patch)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedReviewPatch", reqData)
		return c.Next()
	}
}
