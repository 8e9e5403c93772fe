package parcel

import (
	"parcel-logistics/models/base"
	"parcel-logistics/models/role"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Parcel represents one shipped item. OfficeID is the departure office.
type Parcel struct {
	base.Model
	TrackingID string `gorm:"type:varchar(64);not null;uniqueIndex" json:"tracking_id"`

	AgencyID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"agency_id"`
	OfficeID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"office_id"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	DepartureID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_parcels_departure_tag,priority:1" json:"departure_id"`
	DestinationID uuid.UUID  `gorm:"type:uuid;not null"       json:"destination_id"`
	TagID         *uuid.UUID `gorm:"type:uuid;index:idx_parcels_departure_tag,priority:2" json:"tag_id"`

	Weight           decimal.Decimal     `gorm:"type:decimal(10,3);not null"    json:"weight"`
	TransportMethod  TransportMethod     `gorm:"size:10;not null"               json:"transport_method"`
	Status           Status              `gorm:"size:50;not null;column:status" json:"status"`
	EstimateArrival  string              `gorm:"size:100;not null"              json:"estimate_arrival"`
	Description      string              `gorm:"type:text;not null"             json:"description"`
	MixedPackage     bool                `gorm:"default:false"                  json:"mixed_package"`
	WhatsappNotif    bool                `gorm:"default:false"                  json:"whatsapp_notif"`
	NotificationCost decimal.NullDecimal `gorm:"type:decimal(12,2)"             json:"notification_cost"`
	PackagePicture   Pictures            `gorm:"type:json"                      json:"package_picture"`

	CreatedBy     uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedByType role.Role `gorm:"size:20;not null"   json:"created_by_type"`
}

// InTag reports whether the parcel belongs to a tag group.
func (p Parcel) InTag() bool {
	return p.TagID != nil && *p.TagID != uuid.Nil
}
