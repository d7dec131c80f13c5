package statsController

import (
	"coderr/database"
	"coderr/middleware"
	"coderr/services/stats"

	"github.com/gofiber/fiber/v2"
)

// BaseInfo handles GET /api/base-info/
func BaseInfo(c *fiber.Ctx) error {
	info, err := stats.NewService(database.Database.Db).BaseInfo(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Platform statistics fetched!", info)
}
