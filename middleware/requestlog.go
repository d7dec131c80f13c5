package middleware

import (
	"time"

	"coderr/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the id of every request, incoming or generated
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags each request with a uuid unless the client sent one
func RequestIDMiddleware() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    RequestIDHeader,
		Generator: uuid.NewString,
	})
}

// RequestID returns the id assigned by RequestIDMiddleware
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// AccessLog writes one structured line per request
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		utils.GetLogger().Info("request",
			zap.String("request_id", RequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}
