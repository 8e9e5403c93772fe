package transaction

import (
	"parcel-logistics/models/base"
	"parcel-logistics/models/role"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the financial record of exactly one parcel.
type Transaction struct {
	base.Model
	ParcelID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"parcel_id"`
	AgencyID uuid.UUID `gorm:"type:uuid;not null;index"       json:"agency_id"`
	OfficeID uuid.UUID `gorm:"type:uuid;not null;index"       json:"office_id"`

	PricePerKilo      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"price_per_kilo"`
	TotalPrice        decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"total_price"`
	ActualCarrierCost decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"actual_carrier_cost"`
	GrossProfit       decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"gross_profit"`
	PaymentStatus     PaymentStatus       `gorm:"size:50;not null;default:'PENDING PAYMENT'" json:"payment_status"`
	PartialAmount     decimal.NullDecimal `gorm:"type:decimal(12,2)"          json:"partial_amount"`

	UpdatedBy     uuid.UUID `gorm:"type:uuid;not null" json:"updated_by"`
	UpdatedByType role.Role `gorm:"size:20"            json:"updated_by_type"`
}
