package offerRoutes

import (
	offerControllers "coderr/controllers/offer"
	"coderr/middleware"
	"coderr/services/access"
	"coderr/validators"
	offerValidators "coderr/validators/offer"

	"github.com/gofiber/fiber/v2"
)

func SetupOfferRoutes(app *fiber.App) {
	offerGroup := app.Group("/api")

	offerGroup.Get("/offers", middleware.OptionalJWTMiddleware, offerValidators.ListOffers(), offerControllers.ListOffers)
	offerGroup.Post("/offers", middleware.JWTMiddleware, middleware.RequireRoleMiddleware(access.RoleBusiness), offerValidators.CreateOffer(), offerControllers.CreateOffer)
	offerGroup.Get("/offers/:id", validators.IDParam("id"), offerControllers.GetOffer)
	offerGroup.Patch("/offers/:id", middleware.JWTMiddleware, validators.IDParam("id"), offerValidators.UpdateOffer(), offerControllers.UpdateOffer)
	offerGroup.Delete("/offers/:id", middleware.JWTMiddleware, validators.IDParam("id"), offerControllers.DeleteOffer)
	offerGroup.Post("/offers/:id/image", middleware.JWTMiddleware, validators.IDParam("id"), offerValidators.UploadImage(), offerControllers.UploadOfferImage)

	offerGroup.Get("/offerdetails/:id", validators.IDParam("id"), offerControllers.GetOfferDetail)
}
