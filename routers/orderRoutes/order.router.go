package orderRoutes

import (
	orderControllers "coderr/controllers/order"
	"coderr/middleware"
	"coderr/services/access"
	"coderr/validators"
	orderValidators "coderr/validators/order"

	"github.com/gofiber/fiber/v2"
)

func SetupOrderRoutes(app *fiber.App) {
	orderGroup := app.Group("/api")

	orderGroup.Get("/orders", middleware.JWTMiddleware, orderControllers.ListOrders)
	orderGroup.Post("/orders", middleware.JWTMiddleware, middleware.RequireRoleMiddleware(access.RoleCustomer), orderValidators.CreateOrder(), orderControllers.CreateOrder)
	orderGroup.Get("/orders/:id", middleware.JWTMiddleware, validators.IDParam("id"), orderControllers.GetOrder)
	orderGroup.Patch("/orders/:id", middleware.JWTMiddleware, validators.IDParam("id"), orderValidators.UpdateOrder(), orderControllers.UpdateOrder)
	orderGroup.Delete("/orders/:id", middleware.JWTMiddleware, validators.IDParam("id"), orderControllers.DeleteOrder)
	orderGroup.Get("/orders/:id/history", middleware.JWTMiddleware, validators.IDParam("id"), orderControllers.OrderHistory)

	orderGroup.Get("/order-count/:business_user_id", middleware.JWTMiddleware, validators.IDParam("business_user_id"), orderControllers.OrderCount)
	orderGroup.Get("/completed-order-count/:business_user_id", middleware.JWTMiddleware, validators.IDParam("business_user_id"), orderControllers.CompletedOrderCount)
}
