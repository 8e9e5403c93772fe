package agency

import "parcel-logistics/models/base"

// Agency is a tenant. CompanyCode is the first segment of every tracking code it issues.
type Agency struct {
	base.Model
	AgencyName  string `gorm:"type:varchar(255);not null;uniqueIndex" json:"agency_name"`
	CompanyCode string `gorm:"type:varchar(50);not null;uniqueIndex"  json:"company_code"`
	Username    string `gorm:"type:varchar(255);uniqueIndex"          json:"username"`
	Email       string `gorm:"type:varchar(255);uniqueIndex"          json:"email"`
}
