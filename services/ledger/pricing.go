package ledger

import (
	"parcel-logistics/apierr"
	"parcel-logistics/models/transaction"

	"github.com/shopspring/decimal"
)

// Pricing is the derived money of a parcel.
type Pricing struct {
	TotalPrice  decimal.Decimal
	GrossProfit decimal.Decimal
}

// Scales of the weight and money columns.
const (
	WeightScale int32 = 3
	MoneyScale  int32 = 2
)

func fitsScale(v decimal.Decimal, places int32) bool {
	return v.Equal(v.Round(places))
}

func checkScale(field string, v decimal.Decimal, places int32) error {
	if !fitsScale(v, places) {
		return apierr.Validation("%s must have at most %d decimal places", field, places)
	}
	return nil
}

// ComputePricing returns weight*pricePerKilo, plus the notification cost when the notify flag is set
// and the cost is positive, and the gross profit against the carrier cost.
// The total is rounded half away from zero to MoneyScale, the same way the column stores it.
func ComputePricing(weight, pricePerKilo decimal.Decimal, notify bool, notificationCost decimal.NullDecimal, carrierCost decimal.Decimal) Pricing {
	total := weight.Mul(pricePerKilo)
	if notify && notificationCost.Valid && notificationCost.Decimal.IsPositive() {
		total = total.Add(notificationCost.Decimal)
	}
	total = total.Round(MoneyScale)
	return Pricing{
		TotalPrice:  total,
		GrossProfit: total.Sub(carrierCost).Round(MoneyScale),
	}
}

// CheckPartialAmount enforces 0 < partial < total under PARTIALLY PAID.
func CheckPartialAmount(status transaction.PaymentStatus, partial decimal.NullDecimal, total decimal.Decimal) error {
	if status != transaction.PaymentPartial {
		return nil
	}
	if !partial.Valid || !partial.Decimal.IsPositive() {
		return apierr.Validation("Partial amount is required and must be greater than 0 when payment status is PARTIALLY PAID")
	}
	if err := checkScale("Partial amount", partial.Decimal, MoneyScale); err != nil {
		return err
	}
	if partial.Decimal.GreaterThanOrEqual(total) {
		return apierr.Validation("Partial amount must be less than total price (%s)", total.String())
	}
	return nil
}

// checkMemberPartialAmount is CheckPartialAmount for one member of a tag group.
func checkMemberPartialAmount(status transaction.PaymentStatus, partial decimal.NullDecimal, total decimal.Decimal, trackingID string) error {
	if status != transaction.PaymentPartial {
		return nil
	}
	if !partial.Valid || !partial.Decimal.IsPositive() {
		return apierr.Validation("Partial amount is required and must be greater than 0 for parcel %s", trackingID)
	}
	if err := checkScale("Partial amount", partial.Decimal, MoneyScale); err != nil {
		return err
	}
	if partial.Decimal.GreaterThanOrEqual(total) {
		return apierr.Validation("Partial amount must be less than total price (%s) for parcel %s", total.String(), trackingID)
	}
	return nil
}

// storedPartialAmount is the value persisted on the transaction. Anything but PARTIALLY PAID clears it.
func storedPartialAmount(status transaction.PaymentStatus, partial decimal.NullDecimal) decimal.NullDecimal {
	if status != transaction.PaymentPartial {
		return decimal.NullDecimal{}
	}
	return partial
}
