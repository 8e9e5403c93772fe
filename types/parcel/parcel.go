package parcel

import (
	"parcel-logistics/apierr"

	"github.com/shopspring/decimal"
)

// CreateParcelRequest is the body of create-parcel, sent as JSON or multipart form.
// Ids stay strings so the literal "null" can be told apart from a malformed id.
type CreateParcelRequest struct {
	Weight            decimal.Decimal     `json:"weight" form:"weight"`
	TransportMethod   string              `json:"transportMethod" form:"transportMethod"`
	DestinationID     string              `json:"destinationID" form:"destinationID"`
	CustomerID        string              `json:"customerID" form:"customerID"`
	CreatedBy         string              `json:"createdBy" form:"createdBy"`
	TagID             string              `json:"tagID" form:"tagID"`
	NotificationCost  decimal.NullDecimal `json:"notificationCost" form:"notificationCost"`
	EstimateArrival   string              `json:"estimateArrival" form:"estimateArrival"`
	Description       string              `json:"description" form:"description"`
	MixedPackage      bool                `json:"mixedPackage" form:"mixedPackage"`
	WhatsappNotif     bool                `json:"whatsappNotif" form:"whatsappNotif"`
	PricePerKilo      decimal.Decimal     `json:"pricePerKilo" form:"pricePerKilo"`
	ActualCarrierCost decimal.Decimal     `json:"actualCarrierCost" form:"actualCarrierCost"`
	PaymentStatus     string              `json:"paymentStatus" form:"paymentStatus"`
	PartialAmount     decimal.NullDecimal `json:"partialAmount" form:"partialAmount"`
	Status            string              `json:"status" form:"status"`
	ManualDate        string              `json:"manualDate" form:"manualDate"`
}

func isNull(s string) bool {
	return s == "" || s == "null"
}

// Validate checks the shape of the request. Business rules are left to the ledger.
func (r CreateParcelRequest) Validate() error {
	switch {
	case isNull(r.CustomerID):
		return apierr.Validation("customerID is required")
	case isNull(r.DestinationID):
		return apierr.Validation("destinationID is required")
	case isNull(r.CreatedBy):
		return apierr.Validation("createdBy is required")
	case r.EstimateArrival == "":
		return apierr.Validation("estimateArrival is required")
	case r.Status == "":
		return apierr.Validation("status is required")
	case r.PaymentStatus == "":
		return apierr.Validation("paymentStatus is required")
	}

	if r.MixedPackage && isNull(r.TagID) {
		return apierr.Validation("Tag ID is required when mixed package is enabled")
	}
	if !r.MixedPackage && !isNull(r.TagID) {
		return apierr.Validation("Tag ID must be null when mixed package is disabled")
	}
	if r.WhatsappNotif && !r.NotificationCost.Valid {
		return apierr.Validation("Notification cost is required when WhatsApp notification is enabled")
	}
	if !r.WhatsappNotif && r.NotificationCost.Valid {
		return apierr.Validation("Notification cost must be null when WhatsApp notification is disabled")
	}
	return nil
}

// UpdateParcelStatusRequest is shared by the single and the bulk status update.
type UpdateParcelStatusRequest struct {
	Status        string              `json:"status" form:"status"`
	PaymentStatus string              `json:"paymentStatus" form:"paymentStatus"`
	PartialAmount decimal.NullDecimal `json:"partialAmount" form:"partialAmount"`
	ManualDate    string              `json:"manualDate" form:"manualDate"`
}

func (r UpdateParcelStatusRequest) Validate() error {
	if r.Status == "" {
		return apierr.Validation("status is required")
	}
	if r.PaymentStatus == "" {
		return apierr.Validation("paymentStatus is required")
	}
	return nil
}
