package admin

import "parcel-logistics/models/base"

// Admin is a platform administrator. Admins may act on any agency.
type Admin struct {
	base.Model
	Username string `gorm:"type:varchar(255);not null;uniqueIndex" json:"username"`
	Email    string `gorm:"type:varchar(255);uniqueIndex"          json:"email"`
}
