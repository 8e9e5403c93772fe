package parcel

import (
	"errors"
	"strings"

	"parcel-logistics/apierr"
	"parcel-logistics/constants"
	"parcel-logistics/logger"
	parcel_model "parcel-logistics/models/parcel"
	transaction_model "parcel-logistics/models/transaction"
	"parcel-logistics/services/image_store"
	"parcel-logistics/services/ledger"
	"parcel-logistics/types"
	parcel_types "parcel-logistics/types/parcel"
	"parcel-logistics/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ParcelController handles parcel related HTTP requests
type ParcelController struct {
	Ledger *ledger.Ledger
	Images image_store.Store
	Logger *logger.AsyncLogger
}

// NewParcelController creates a new parcel controller
func NewParcelController(l *ledger.Ledger, images image_store.Store, asyncLogger *logger.AsyncLogger) *ParcelController {
	utils.RegisterFormDecoders()
	return &ParcelController{
		Ledger: l,
		Images: images,
		Logger: asyncLogger,
	}
}

// Helper function to log API requests and responses
func (pc *ParcelController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	pc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (pc *ParcelController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c)
	return result
}

func (pc *ParcelController) sendError(c *fiber.Ctx, err error) error {
	e := apierr.As(err)
	return pc.sendResponseWithLog(c, e.Status, types.ApiResponse{
		Status:  e.Status,
		Message: apierr.PublicMessage(err),
	})
}

func parseUUIDField(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, apierr.Validation("%s must be a valid id", field)
	}
	return id, nil
}

// savePictures stores every packagePicture part. On failure the files already written are removed.
func (pc *ParcelController) savePictures(c *fiber.Ctx) ([]string, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apierr.Validation("Invalid multipart form")
	}
	files := form.File[constants.PackagePictureForm]
	if len(files) > constants.MaxPackagePictures {
		return nil, apierr.Validation("At most %d package pictures are allowed", constants.MaxPackagePictures)
	}

	saved := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			pc.removePictures(saved)
			return nil, apierr.Internal("Failed to read package picture", err)
		}
		rel, err := pc.Images.Save(c.UserContext(), fh.Filename, f)
		f.Close()
		if err != nil {
			pc.removePictures(saved)
			if errors.Is(err, image_store.ErrUnsupportedType) {
				return nil, apierr.Validation("Unsupported picture type %q", fh.Filename)
			}
			return nil, apierr.Internal("Failed to store package picture", err)
		}
		saved = append(saved, rel)
	}
	return saved, nil
}

func (pc *ParcelController) removePictures(paths []string) {
	for _, p := range paths {
		if err := pc.Images.Remove(p); err != nil {
			logger.Warning("Failed to remove package picture " + p + ": " + err.Error())
		}
	}
}

// CreateParcel registers a parcel and its transaction for an agency office
func (pc *ParcelController) CreateParcel(c *fiber.Ctx) error {
	agencyID, err := utils.ParamUUID(c, "agencyID", "Agency not found")
	if err != nil {
		return pc.sendError(c, err)
	}
	officeID, err := utils.ParamUUID(c, "officeID", "Office not found")
	if err != nil {
		return pc.sendError(c, err)
	}

	var request parcel_types.CreateParcelRequest
	if err := c.BodyParser(&request); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
		})
	}
	if err := request.Validate(); err != nil {
		return pc.sendError(c, err)
	}

	in, err := createInput(agencyID, officeID, request)
	if err != nil {
		return pc.sendError(c, err)
	}

	pictures, err := pc.savePictures(c)
	if err != nil {
		return pc.sendError(c, err)
	}
	in.Pictures = pictures

	created, err := pc.Ledger.CreateParcel(c.UserContext(), in)
	if err != nil {
		pc.removePictures(pictures)
		return pc.sendError(c, err)
	}

	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Parcel created successfully",
		Data:    created,
	})
}

func createInput(agencyID, officeID uuid.UUID, r parcel_types.CreateParcelRequest) (ledger.CreateParcelInput, error) {
	in := ledger.CreateParcelInput{
		AgencyID:          agencyID,
		OfficeID:          officeID,
		Weight:            r.Weight,
		TransportMethod:   parcel_model.TransportMethod(r.TransportMethod),
		Status:            parcel_model.Status(r.Status),
		EstimateArrival:   r.EstimateArrival,
		Description:       r.Description,
		MixedPackage:      r.MixedPackage,
		WhatsappNotif:     r.WhatsappNotif,
		NotificationCost:  r.NotificationCost,
		PricePerKilo:      r.PricePerKilo,
		ActualCarrierCost: r.ActualCarrierCost,
		PaymentStatus:     transaction_model.PaymentStatus(r.PaymentStatus),
		PartialAmount:     r.PartialAmount,
	}

	var err error
	if in.CreatedBy, err = parseUUIDField(r.CreatedBy, "createdBy"); err != nil {
		return in, err
	}
	if in.CustomerID, err = parseUUIDField(r.CustomerID, "customerID"); err != nil {
		return in, err
	}
	if in.DestinationID, err = parseUUIDField(r.DestinationID, "destinationID"); err != nil {
		return in, err
	}
	if in.TagID, err = utils.OptionalUUID(r.TagID); err != nil {
		return in, apierr.Validation("tagID must be a valid id")
	}
	if in.ManualDate, err = utils.ParseManualDate(r.ManualDate); err != nil {
		return in, err
	}
	return in, nil
}

func parseStatusRequest(c *fiber.Ctx) (parcel_types.UpdateParcelStatusRequest, error) {
	var request parcel_types.UpdateParcelStatusRequest
	if err := c.BodyParser(&request); err != nil {
		return request, apierr.Validation("Invalid request format")
	}
	return request, request.Validate()
}

// UpdateParcelStatus moves a single untagged parcel to a new status
func (pc *ParcelController) UpdateParcelStatus(c *fiber.Ctx) error {
	var in ledger.UpdateStatusInput
	var err error
	if in.AgencyID, err = utils.ParamUUID(c, "agencyID", "Agency Not Found"); err != nil {
		return pc.sendError(c, err)
	}
	if in.OfficeID, err = utils.ParamUUID(c, "officeID", "Office Not Found"); err != nil {
		return pc.sendError(c, err)
	}
	if in.ParcelID, err = utils.ParamUUID(c, "parcelID", "Parcel Not Found"); err != nil {
		return pc.sendError(c, err)
	}
	if in.UpdatedBy, err = utils.ParamUUID(c, "updatedBy", "Updated By ID is Invalid"); err != nil {
		return pc.sendError(c, err)
	}

	request, err := parseStatusRequest(c)
	if err != nil {
		return pc.sendError(c, err)
	}
	in.Status = parcel_model.Status(request.Status)
	in.PaymentStatus = transaction_model.PaymentStatus(request.PaymentStatus)
	in.PartialAmount = request.PartialAmount
	if in.ManualDate, err = utils.ParseManualDate(request.ManualDate); err != nil {
		return pc.sendError(c, err)
	}

	pictures, err := pc.savePictures(c)
	if err != nil {
		return pc.sendError(c, err)
	}
	in.Pictures = pictures

	updated, err := pc.Ledger.UpdateSingleParcelStatus(c.UserContext(), in)
	if err != nil {
		pc.removePictures(pictures)
		return pc.sendError(c, err)
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcel status updated successfully",
		Data:    updated,
	})
}

// BulkUpdateParcelStatus moves every parcel of a tag to a new status
func (pc *ParcelController) BulkUpdateParcelStatus(c *fiber.Ctx) error {
	var in ledger.BulkUpdateInput
	var err error
	if in.AgencyID, err = utils.ParamUUID(c, "agencyID", "Agency Not Found"); err != nil {
		return pc.sendError(c, err)
	}
	if in.OfficeID, err = utils.ParamUUID(c, "officeID", "Office Not Found"); err != nil {
		return pc.sendError(c, err)
	}
	if in.TagID, err = utils.ParamUUID(c, "tagID", "Tag Not Found"); err != nil {
		return pc.sendError(c, err)
	}
	if in.UpdatedBy, err = utils.ParamUUID(c, "updatedBy", "Updated By ID is Invalid"); err != nil {
		return pc.sendError(c, err)
	}

	request, err := parseStatusRequest(c)
	if err != nil {
		return pc.sendError(c, err)
	}
	in.Status = parcel_model.Status(request.Status)
	in.PaymentStatus = transaction_model.PaymentStatus(request.PaymentStatus)
	in.PartialAmount = request.PartialAmount
	if in.ManualDate, err = utils.ParseManualDate(request.ManualDate); err != nil {
		return pc.sendError(c, err)
	}

	pictures, err := pc.savePictures(c)
	if err != nil {
		return pc.sendError(c, err)
	}
	in.Pictures = pictures

	result, err := pc.Ledger.Guard.BulkUpdateStatus(c.UserContext(), in)
	if err != nil {
		pc.removePictures(pictures)
		return pc.sendError(c, err)
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: result.Message(),
		Data:    result,
	})
}

// TrackParcel is the public lookup by tracking code
func (pc *ParcelController) TrackParcel(c *fiber.Ctx) error {
	tracked, err := pc.Ledger.TrackParcel(c.UserContext(), strings.TrimSpace(c.Params("trackingID")))
	if err != nil {
		return pc.sendError(c, err)
	}
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcel found",
		Data:    tracked,
	})
}

// GetSingleParcel returns one parcel with its transaction and both histories
func (pc *ParcelController) GetSingleParcel(c *fiber.Ctx) error {
	parcelID, err := utils.ParamUUID(c, "parcelID", "Invalid Parcel ID")
	if err != nil {
		return pc.sendError(c, err)
	}
	detail, err := pc.Ledger.GetParcel(c.UserContext(), parcelID)
	if err != nil {
		return pc.sendError(c, err)
	}
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcel retrieved successfully",
		Data:    detail,
	})
}
