package offerValidator

import (
	"strings"

	"coderr/middleware"
	"coderr/services/catalog"
	"coderr/utils"
	"coderr/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Largest accepted image upload
const maxImageSize = 5 << 20

// ListQuery is a parsed offer listing request
type ListQuery struct {
	Filter   catalog.OfferFilter
	Ordering string
	Page     catalog.PageRequest
}

// ListOffers validator middleware
func ListOffers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)
		query := &ListQuery{
			Ordering: strings.TrimSpace(c.Query("ordering")),
			Filter: catalog.OfferFilter{
				CreatorID:       validators.QueryUint(c, "creator_id", errors),
				MaxDeliveryTime: validators.QueryInt(c, "max_delivery_time", 0, errors),
				Search:          c.Query("search"),
			},
		}

		if raw := strings.TrimSpace(c.Query("min_price")); raw != "" {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				errors["min_price"] = "Enter a number."
			} else {
				query.Filter.MinPrice = &price
			}
		}

		if page := validators.QueryInt(c, "page", 1, errors); page != nil {
			query.Page.Page = *page
		}
		if size := validators.QueryInt(c, "page_size", 1, errors); size != nil {
			query.Page.PageSize = *size
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("offerQuery", query)
		return c.Next()
	}
}

// CreateOffer validator middleware. Field rules are checked by the catalog service.
func CreateOffer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(catalog.CreateOfferInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedOffer", reqData)
		return c.Next()
	}
}

// UpdateOffer validator middleware
func UpdateOffer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(catalog.OfferPatch)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedOfferPatch", reqData)
		return c.Next()
	}
}

// UploadImage validator middleware
func UploadImage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("image")
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"image": "No file was submitted."})
		}

		errors := make(map[string]string)
		if !utils.IsAllowedImage(file.Filename) {
			errors["image"] = "Upload a valid image. Allowed types are jpg, jpeg, png, gif and webp."
		} else if file.Size > maxImageSize {
			errors["image"] = "Image must not be larger than 5 MB."
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedImage", file)
		return c.Next()
	}
}
