package statsRoutes

import (
	statsControllers "coderr/controllers/stats"

	"github.com/gofiber/fiber/v2"
)

func SetupStatsRoutes(app *fiber.App) {
	app.Get("/api/base-info", statsControllers.BaseInfo)
}
