package status_policy

import (
	"parcel-logistics/apierr"
	"parcel-logistics/models/parcel"
	"parcel-logistics/models/transaction"
)

// Parcel statuses that may only be set once payment is settled.
var statusesRequiringPaymentValidation = []parcel.Status{
	parcel.StatusInTransit,
	parcel.StatusArrivedAtDestination,
	parcel.StatusWaitingForWithdrawal,
	parcel.StatusDelivered,
	parcel.StatusUnclaimed,
}

// Payment statuses that unlock the statuses above.
var allowedPaymentStatuses = []transaction.PaymentStatus{
	transaction.PaymentValidated,
	transaction.PaymentDeferred,
}

// Validate decides whether parcelStatus may be set while the transaction is in paymentStatus.
// It returns nil when allowed and a validation error naming both values otherwise.
func Validate(parcelStatus parcel.Status, paymentStatus transaction.PaymentStatus) error {
	if !RequiresPaymentValidation(parcelStatus) {
		return nil
	}
	for _, ps := range allowedPaymentStatuses {
		if ps == paymentStatus {
			return nil
		}
	}
	return apierr.Validation(
		"Cannot set parcel status to %q until payment is validated. Current payment status: %q. Payment must be %q or %q to proceed.",
		string(parcelStatus), string(paymentStatus),
		string(transaction.PaymentValidated), string(transaction.PaymentDeferred),
	)
}

// RequiresPaymentValidation reports whether status is one of the advanced lifecycle statuses.
func RequiresPaymentValidation(status parcel.Status) bool {
	for _, s := range statusesRequiringPaymentValidation {
		if s == status {
			return true
		}
	}
	return false
}

func StatusesRequiringPaymentValidation() []parcel.Status {
	out := make([]parcel.Status, len(statusesRequiringPaymentValidation))
	copy(out, statusesRequiringPaymentValidation)
	return out
}

func AllowedPaymentStatuses() []transaction.PaymentStatus {
	out := make([]transaction.PaymentStatus, len(allowedPaymentStatuses))
	copy(out, allowedPaymentStatuses)
	return out
}
