package tracking

import (
	"time"

	"parcel-logistics/models/role"

	"github.com/google/uuid"
)

// ParcelTracking is one immutable entry of a parcel's status history.
type ParcelTracking struct {
	ID            uint       `gorm:"primaryKey;autoIncrement"   json:"id"`
	ParcelID      uuid.UUID  `gorm:"type:uuid;not null;index"   json:"parcel_id"`
	TrackingID    string     `gorm:"type:varchar(64);not null"  json:"tracking_id"`
	Status        string     `gorm:"size:50;not null"           json:"status"`
	Message       *string    `gorm:"type:text"                  json:"message"`
	ManualDate    *time.Time `json:"manual_date"`
	UpdatedBy     uuid.UUID  `gorm:"type:uuid;not null"         json:"updated_by"`
	UpdatedByType role.Role  `gorm:"size:20"                    json:"updated_by_type"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index"       json:"created_at"`
}

// TableName sets the table name for the ParcelTracking model
func (ParcelTracking) TableName() string {
	return "parcel_trackings"
}

// TransactionTracking is one immutable entry of a transaction's payment history.
type TransactionTracking struct {
	ID            uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	TransactionID uuid.UUID  `gorm:"type:uuid;not null;index"  json:"transaction_id"`
	Status        string     `gorm:"size:50;not null"          json:"status"`
	Message       *string    `gorm:"type:text"                 json:"message"`
	ManualDate    *time.Time `json:"manual_date"`
	UpdatedBy     uuid.UUID  `gorm:"type:uuid;not null"        json:"updated_by"`
	UpdatedByType role.Role  `gorm:"size:20"                   json:"updated_by_type"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index"      json:"created_at"`
}

// TableName sets the table name for the TransactionTracking model
func (TransactionTracking) TableName() string {
	return "transaction_trackings"
}
