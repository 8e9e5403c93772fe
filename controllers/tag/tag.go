package tag

import (
	"parcel-logistics/apierr"
	"parcel-logistics/logger"
	"parcel-logistics/services/ledger"
	"parcel-logistics/types"
	tag_types "parcel-logistics/types/tag"
	"parcel-logistics/utils"

	"github.com/gofiber/fiber/v2"
)

type TagController struct {
	Ledger *ledger.Ledger
	Logger *logger.AsyncLogger
}

func NewTagController(l *ledger.Ledger, asyncLogger *logger.AsyncLogger) *TagController {
	return &TagController{Ledger: l, Logger: asyncLogger}
}

func (tc *TagController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	tc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func (tc *TagController) sendError(c *fiber.Ctx, err error) error {
	e := apierr.As(err)
	return tc.sendResponseWithLog(c, e.Status, types.ApiResponse{Status: e.Status, Message: apierr.PublicMessage(err)})
}

// CreateTag opens a new tag for an agency office
func (tc *TagController) CreateTag(c *fiber.Ctx) error {
	agencyID, err := utils.ParamUUID(c, "agencyID", "Agency not found")
	if err != nil {
		return tc.sendError(c, err)
	}
	officeID, err := utils.ParamUUID(c, "officeID", "Office not found")
	if err != nil {
		return tc.sendError(c, err)
	}

	var request tag_types.CreateTagRequest
	if err := c.BodyParser(&request); err != nil {
		return tc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
		})
	}
	if err := request.Validate(); err != nil {
		return tc.sendError(c, err)
	}

	created, err := tc.Ledger.CreateTag(c.UserContext(), ledger.CreateTagInput{
		AgencyID: agencyID,
		OfficeID: officeID,
		TagName:  request.TagName,
	})
	if err != nil {
		return tc.sendError(c, err)
	}

	return tc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Tag created successfully",
		Data:    created,
	})
}

// GetTags lists the tags of an agency office
func (tc *TagController) GetTags(c *fiber.Ctx) error {
	agencyID, err := utils.ParamUUID(c, "agencyID", "Agency not found")
	if err != nil {
		return tc.sendError(c, err)
	}
	officeID, err := utils.ParamUUID(c, "officeID", "Office not found")
	if err != nil {
		return tc.sendError(c, err)
	}

	tags, err := tc.Ledger.ListTags(c.UserContext(), agencyID, officeID)
	if err != nil {
		return tc.sendError(c, err)
	}
	return tc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Tags retrieved successfully",
		Data:    tags,
	})
}

func (tc *TagController) GetSingleTag(c *fiber.Ctx) error {
	tagID, err := utils.ParamUUID(c, "tagID", "Tag Not Found")
	if err != nil {
		return tc.sendError(c, err)
	}
	detail, err := tc.Ledger.GetTag(c.UserContext(), tagID)
	if err != nil {
		return tc.sendError(c, err)
	}
	return tc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Tag retrieved successfully",
		Data:    detail,
	})
}
