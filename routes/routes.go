package routes

import (
	"time"

	"parcel-logistics/constants"
	"parcel-logistics/controllers/parcel"
	"parcel-logistics/controllers/tag"
	"parcel-logistics/logger"
	"parcel-logistics/middleware"
	"parcel-logistics/services/cache"
	"parcel-logistics/services/image_store"
	"parcel-logistics/services/ledger"

	"github.com/gofiber/fiber/v2"
)

// Dependencies are the collaborators built by main.
type Dependencies struct {
	Ledger      *ledger.Ledger
	Images      image_store.Store
	AsyncLogger *logger.AsyncLogger
	Auth        *middleware.Auth
	Cache       *middleware.ResponseCache
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	parcelController := parcel.NewParcelController(deps.Ledger, deps.Images, deps.AsyncLogger)
	tagController := tag.NewTagController(deps.Ledger, deps.AsyncLogger)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api.Get("/parcel/track-parcel/:trackingID",
		deps.Cache.Cache(cache.GroupTrackParcel, func(c *fiber.Ctx) string { return c.Params("trackingID") },
			constants.TrackParcelCacheTTLSeconds*time.Second),
		parcelController.TrackParcel)

	/*=============================================================================
	| Parcel Routes
	===============================================================================*/
	parcelGroup := api.Group("/parcel")

	parcelGroup.Post("/:agencyID/create-parcel/:officeID",
		deps.Auth.RequireRoles(constants.ParcelWriters...),
		parcelController.CreateParcel)

	parcelGroup.Get("/:parcelID/get-single-parcels",
		deps.Auth.RequireRoles(constants.ParcelWriters...),
		deps.Cache.Cache(cache.GroupParcel, func(c *fiber.Ctx) string { return c.Params("parcelID") },
			constants.ParcelCacheTTLSeconds*time.Second),
		parcelController.GetSingleParcel)

	parcelGroup.Patch("/:agencyID/:officeID/:parcelID/:updatedBy/update-parcel-status",
		deps.Auth.RequireRoles(constants.ParcelWriters...),
		parcelController.UpdateParcelStatus)

	parcelGroup.Patch("/:agencyID/:officeID/:tagID/:updatedBy/bulk-update-parcel-status",
		deps.Auth.RequireRoles(constants.ParcelWriters...),
		parcelController.BulkUpdateParcelStatus)

	/*=============================================================================
	| Tag Routes
	===============================================================================*/
	tagGroup := api.Group("/tag")

	tagGroup.Post("/:agencyID/create-tag/:officeID",
		deps.Auth.RequireRoles(constants.TagWriters...),
		tagController.CreateTag)

	tagGroup.Get("/:agencyID/get-tags/:officeID",
		deps.Auth.RequireRoles(constants.ParcelWriters...),
		deps.Cache.Cache(cache.GroupTags, func(c *fiber.Ctx) string { return c.Params("agencyID") + ":" + c.Params("officeID") },
			constants.TagCacheTTLSeconds*time.Second),
		tagController.GetTags)

	tagGroup.Get("/get-single-tag/:tagID",
		deps.Auth.RequireRoles(constants.ParcelWriters...),
		deps.Cache.Cache(cache.GroupTags, func(c *fiber.Ctx) string { return c.Params("tagID") },
			constants.TagCacheTTLSeconds*time.Second),
		tagController.GetSingleTag)
}
