package orderValidator

import (
	"coderr/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateOrderRequest is the body of a new order
type CreateOrderRequest struct {
	OfferDetailID *uint `json:"offer_detail_id"`
}

// UpdateOrderRequest is the body of a status change
type UpdateOrderRequest struct {
	Status *string `json:"status"`
}

// CreateOrder validator middleware
func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateOrderRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"offer_detail_id": "A valid integer is required."})
		}

		if reqData.OfferDetailID == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"offer_detail_id": "This field is required."})
		}

		c.Locals("validatedOrder", reqData)
		return c.Next()
	}
}

// UpdateOrder validator middleware. Only the status can change.
func UpdateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateOrderRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Status == nil || *reqData.Status == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"status": "This field is required."})
		}

		c.Locals("validatedStatus", *reqData.Status)
		return c.Next()
	}
}
