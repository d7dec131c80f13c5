package orderController

import (
	"coderr/database"
	"coderr/middleware"
	"coderr/models"
	"coderr/services/orders"
	"coderr/validators"
	orderValidator "coderr/validators/order"

	"github.com/gofiber/fiber/v2"
)

func service() *orders.Service {
	return orders.NewService(database.Database.Db)
}

// ListOrders handles GET /api/orders/
func ListOrders(c *fiber.Ctx) error {
	list, err := service().ListOrders(c.UserContext(), middleware.CurrentPrincipal(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched!", list)
}

// CreateOrder handles POST /api/orders/
func CreateOrder(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOrder").(*orderValidator.CreateOrderRequest)

	order, err := service().CreateOrder(c.UserContext(), middleware.CurrentPrincipal(c), *reqData.OfferDetailID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Order placed successfully.", order)
}

// GetOrder handles GET /api/orders/:id/
func GetOrder(c *fiber.Ctx) error {
	order, err := service().GetOrder(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order fetched!", order)
}

// UpdateOrder handles PATCH /api/orders/:id/
func UpdateOrder(c *fiber.Ctx) error {
	status := c.Locals("validatedStatus").(string)

	order, err := service().UpdateOrderStatus(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "id"), status)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order updated successfully.", order)
}

// DeleteOrder handles DELETE /api/orders/:id/
func DeleteOrder(c *fiber.Ctx) error {
	if err := service().DeleteOrder(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order deleted successfully.", nil)
}

// OrderHistory handles GET /api/orders/:id/history/
func OrderHistory(c *fiber.Ctx) error {
	history, err := service().History(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order history fetched!", history)
}

// OrderCount handles GET /api/order-count/:business_user_id/
func OrderCount(c *fiber.Ctx) error {
	count, err := service().CountOrders(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "business_user_id"), models.OrderStatusInProgress)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order count fetched!", fiber.Map{"order_count": count})
}

// CompletedOrderCount handles GET /api/completed-order-count/:business_user_id/
func CompletedOrderCount(c *fiber.Ctx) error {
	count, err := service().CountOrders(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "business_user_id"), models.OrderStatusCompleted)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completed order count fetched!", fiber.Map{"completed_order_count": count})
}
