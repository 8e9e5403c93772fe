package middleware

import (
	"errors"

	"parcel-logistics/apierr"
	"parcel-logistics/logger"
	"parcel-logistics/types"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the fiber error handler. Classified errors keep their status and message;
// everything else becomes a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(types.ApiResponse{Message: fe.Message, Status: fe.Code})
	}

	e := apierr.As(err)
	if e.Kind == apierr.KindInternal {
		logger.Error("Unhandled error on "+c.Method()+" "+c.OriginalURL(), err)
	}
	return c.Status(e.Status).JSON(types.ApiResponse{Message: apierr.PublicMessage(err), Status: e.Status})
}
