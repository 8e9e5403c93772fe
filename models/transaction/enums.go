package transaction

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING PAYMENT"
	PaymentPartial   PaymentStatus = "PARTIALLY PAID"
	PaymentDeferred  PaymentStatus = "DEFERRED PAYMENT"
	PaymentValidated PaymentStatus = "PAYMENT VALIDATED"
	PaymentFailed    PaymentStatus = "PAYMENT FAILED"
	PaymentCancelled PaymentStatus = "PAYMENT CANCELLED"
)

func (ps PaymentStatus) String() string {
	return string(ps)
}

func (ps PaymentStatus) IsValid() bool {
	switch ps {
	case PaymentPending, PaymentPartial, PaymentDeferred, PaymentValidated, PaymentFailed, PaymentCancelled:
		return true
	default:
		return false
	}
}

// IsSettled returns true when the amount due is covered or explicitly postponed.
func (ps PaymentStatus) IsSettled() bool {
	return ps == PaymentValidated || ps == PaymentDeferred
}

// GetAllPaymentStatuses returns all valid payment statuses
func GetAllPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{
		PaymentPending,
		PaymentPartial,
		PaymentDeferred,
		PaymentValidated,
		PaymentFailed,
		PaymentCancelled,
	}
}
