package office

import (
	"parcel-logistics/models/address"
	"parcel-logistics/models/base"

	"github.com/google/uuid"
)

// Office belongs to one agency and acts as departure or destination of parcels.
type Office struct {
	base.Model
	AgencyID   uuid.UUID       `gorm:"type:uuid;not null;index"               json:"agency_id"`
	OfficeName string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"office_name"`
	Email      string          `gorm:"type:varchar(255)"                      json:"email"`
	Phone      string          `gorm:"type:varchar(30);not null"              json:"phone"`
	Address    address.Address `gorm:"embedded;embeddedPrefix:address_"       json:"address"`
}
