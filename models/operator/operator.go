package operator

import (
	"parcel-logistics/models/base"

	"github.com/google/uuid"
)

// Operator is office staff. An operator only acts within its own agency and office.
type Operator struct {
	base.Model
	AgencyID uuid.UUID `gorm:"type:uuid;not null;index"      json:"agency_id"`
	OfficeID uuid.UUID `gorm:"type:uuid;not null;index"      json:"office_id"`
	Username string    `gorm:"type:varchar(255);uniqueIndex" json:"username"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone    string    `gorm:"type:varchar(30)"              json:"phone"`
}
