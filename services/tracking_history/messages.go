package tracking_history

import (
	"parcel-logistics/models/parcel"
	"parcel-logistics/models/transaction"
)

var parcelStatusMessages = map[parcel.Status]string{
	parcel.StatusReceivedInWarehouse:  "The package has arrived at the agency and been registered in the system.",
	parcel.StatusWaitingToBeGrouped:   "The package is waiting to be combined with others for shipping.",
	parcel.StatusReadyForShipment:     "The package is packed, labeled, ready to ship.",
	parcel.StatusShipped:              "The parcel has left the agency and is on its way.",
	parcel.StatusInTransit:            "The package is currently in transit to the destination.",
	parcel.StatusArrivedAtDestination: "The package has arrived safely in the designated country or city.",
	parcel.StatusWaitingForWithdrawal: "The package is available, the customer can come and pick it up.",
	parcel.StatusDelivered:            "The package has been delivered to the customer.",
	parcel.StatusUnclaimed:            "The parcel has not been picked up within the deadline.",
}

var paymentStatusMessages = map[transaction.PaymentStatus]string{
	transaction.PaymentPending:   "The customer has not yet paid the amount due.",
	transaction.PaymentPartial:   "Part of the amount has been paid; the remaining balance is due.",
	transaction.PaymentDeferred:  "The customer is authorized to pay later (upon delivery or at the agreed deadline).",
	transaction.PaymentValidated: "The full amount has been paid and validated by the team.",
	transaction.PaymentFailed:    "The payment attempt failed (bank error, card declined, etc.).",
	transaction.PaymentCancelled: "The payment was canceled following an order or shipment cancellation.",
}

// ParcelStatusMessage returns the customer facing text for status, or nil when unknown.
func ParcelStatusMessage(status parcel.Status) *string {
	if msg, ok := parcelStatusMessages[status]; ok {
		return &msg
	}
	return nil
}

// PaymentStatusMessage returns the customer facing text for status, or nil when unknown.
func PaymentStatusMessage(status transaction.PaymentStatus) *string {
	if msg, ok := paymentStatusMessages[status]; ok {
		return &msg
	}
	return nil
}
