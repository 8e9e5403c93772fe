package user

import (
	"parcel-logistics/models/base"

	"github.com/google/uuid"
)

// User is a customer registered by an office. Parcels are shipped on behalf of users.
type User struct {
	base.Model
	AgencyID    uuid.UUID `gorm:"type:uuid;not null;index"       json:"agency_id"`
	OfficeID    uuid.UUID `gorm:"type:uuid;not null;index"       json:"office_id"`
	Username    string    `gorm:"type:varchar(255);uniqueIndex"  json:"username"`
	Country     string    `gorm:"type:varchar(100);not null"     json:"country"`
	CountryCode string    `gorm:"type:varchar(10);not null"      json:"country_code"`
	Phone       string    `gorm:"type:varchar(30);not null"      json:"phone"`
	Email       *string   `gorm:"type:varchar(255);uniqueIndex"  json:"email,omitempty"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"             json:"created_by"`
}

// WhatsappNumber joins the dialing code and phone number.
func (u User) WhatsappNumber() string {
	return u.CountryCode + u.Phone
}
