package offerController

import (
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"coderr/config"
	"coderr/database"
	"coderr/middleware"
	"coderr/services/catalog"
	"coderr/utils"
	"coderr/validators"
	offerValidator "coderr/validators/offer"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func service() *catalog.Service {
	return catalog.NewService(database.Database.Db)
}

// ListOffers handles GET /api/offers/
func ListOffers(c *fiber.Ctx) error {
	query := c.Locals("offerQuery").(*offerValidator.ListQuery)

	page, err := service().ListOffers(c.UserContext(), query.Filter, query.Ordering, query.Page, middleware.CurrentPrincipal(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	base := c.BaseURL()
	for i := range page.Results {
		for j := range page.Results[i].Details {
			page.Results[i].Details[j].URL = base + page.Results[i].Details[j].URL
		}
	}

	var next, previous *string
	if page.HasNext {
		next = pageURL(c, page.Page+1)
	}
	if page.HasPrevious {
		previous = pageURL(c, page.Page-1)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offers fetched!", fiber.Map{
		"count":    page.Count,
		"next":     next,
		"previous": previous,
		"results":  page.Results,
	})
}

// GetOffer handles GET /api/offers/:id/
func GetOffer(c *fiber.Ctx) error {
	offer, err := service().GetOffer(c.UserContext(), validators.ParamID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offer fetched!", offer)
}

// CreateOffer handles POST /api/offers/
func CreateOffer(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOffer").(*catalog.CreateOfferInput)

	offer, err := service().CreateOffer(c.UserContext(), middleware.CurrentPrincipal(c), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Offer created successfully.", offer)
}

// UpdateOffer handles PATCH /api/offers/:id/
func UpdateOffer(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOfferPatch").(*catalog.OfferPatch)

	offer, err := service().UpdateOffer(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "id"), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offer updated successfully.", offer)
}

// DeleteOffer handles DELETE /api/offers/:id/
func DeleteOffer(c *fiber.Ctx) error {
	if err := service().DeleteOffer(c.UserContext(), middleware.CurrentPrincipal(c), validators.ParamID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offer deleted successfully.", nil)
}

// UploadOfferImage handles POST /api/offers/:id/image/
func UploadOfferImage(c *fiber.Ctx) error {
	file := c.Locals("validatedImage").(*multipart.FileHeader)
	offers := service()
	principal := middleware.CurrentPrincipal(c)
	id := validators.ParamID(c, "id")

	if err := offers.AuthorizeOfferEdit(c.UserContext(), principal, id); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	path, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir, "offers")
	if err != nil {
		utils.GetLogger().Error("Failed to store offer image", zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload image!", nil)
	}

	offer, err := offers.SetOfferImage(c.UserContext(), principal, id, utils.GetFileURL(path))
	if err != nil {
		_ = os.Remove(filepath.Join(config.AppConfig.UploadDir, filepath.FromSlash(path)))
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Image uploaded successfully.", offer)
}

// GetOfferDetail handles GET /api/offerdetails/:id/
func GetOfferDetail(c *fiber.Ctx) error {
	detail, err := service().GetDetail(c.UserContext(), validators.ParamID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offer detail fetched!", detail)
}

// pageURL is the current request URL pointing at another page. Page 1 drops the parameter.
func pageURL(c *fiber.Ctx, page int) *string {
	query, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := c.BaseURL() + c.Path()
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return &u
}
