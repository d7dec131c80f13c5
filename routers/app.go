// Package routers assembles the HTTP application from the per-area route groups.
package routers

import (
	"errors"

	"coderr/config"
	"coderr/middleware"
	"coderr/routers/authRoutes"
	"coderr/routers/offerRoutes"
	"coderr/routers/orderRoutes"
	"coderr/routers/reviewRoutes"
	"coderr/routers/statsRoutes"
	"coderr/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// NewApp builds the fiber application with every route registered
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "coderr",
		BodyLimit:    10 << 20,
		ErrorHandler: errorHandler,
	})

	app.Use(middleware.RequestIDMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	if !config.IsProduction() {
		// Enable the built-in logger middleware to log all requests
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}
	app.Use(middleware.AccessLog())
	app.Use(middleware.RateLimit(cfg.MaxRequestsPerMin))

	// Serve uploaded images
	app.Static("/uploads", cfg.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	offerRoutes.SetupOfferRoutes(app)
	orderRoutes.SetupOrderRoutes(app)
	reviewRoutes.SetupReviewRoutes(app)
	statsRoutes.SetupStatsRoutes(app)

	return app
}

// errorHandler keeps the response envelope for errors fiber raises itself
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return middleware.JsonResponse(c, fe.Code, false, fe.Message, nil)
	}
	return middleware.ErrorResponse(c, err)
}
