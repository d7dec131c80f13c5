package middleware

import (
	"errors"

	"coderr/services/errs"
	"coderr/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse writes a service error with the status its kind maps to.
// Unclassified errors are logged and reported without detail.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var e *errs.Error
	if !errors.As(err, &e) {
		utils.GetLogger().Error("request failed",
			zap.String("request_id", RequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}

	switch e.Kind {
	case errs.KindValidation:
		if len(e.Fields) > 0 {
			return ValidationErrorResponse(c, e.Fields)
		}
		return JsonResponse(c, fiber.StatusUnprocessableEntity, false, e.Message, nil)
	case errs.KindUnauthorized:
		return JsonResponse(c, fiber.StatusUnauthorized, false, e.Message, nil)
	case errs.KindForbidden:
		return JsonResponse(c, fiber.StatusForbidden, false, e.Message, nil)
	case errs.KindNotFound:
		return JsonResponse(c, fiber.StatusNotFound, false, e.Message, nil)
	case errs.KindConflict:
		return JsonResponse(c, fiber.StatusConflict, false, e.Message, nil)
	default:
		utils.GetLogger().Error("request failed", zap.String("request_id", RequestID(c)), zap.Error(err))
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}
