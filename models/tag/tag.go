package tag

import (
	"parcel-logistics/models/base"

	"github.com/google/uuid"
)

// Tag groups parcels of one office that must move through statuses together.
type Tag struct {
	base.Model
	AgencyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tags_scope_name,priority:1" json:"agency_id"`
	OfficeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tags_scope_name,priority:2" json:"office_id"`
	TagName  string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_tags_scope_name,priority:3" json:"tag_name"`
}
