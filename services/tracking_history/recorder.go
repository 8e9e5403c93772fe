package tracking_history

import (
	"context"
	"time"

	"parcel-logistics/models/parcel"
	"parcel-logistics/models/role"
	"parcel-logistics/models/tracking"
	"parcel-logistics/models/transaction"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Author identifies who caused a status change.
type Author struct {
	ID   uuid.UUID
	Role role.Role
}

type ParcelEntry struct {
	ParcelID   uuid.UUID
	TrackingID string
	Status     parcel.Status
	ManualDate *time.Time
	Author     Author
}

type TransactionEntry struct {
	TransactionID uuid.UUID
	Status        transaction.PaymentStatus
	ManualDate    *time.Time
	Author        Author
}

// Recorder appends to and reads the parcel and payment history streams.
// Writes always go through the caller's transaction.
type Recorder struct {
	DB *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{DB: db}
}

// RecordParcel appends one entry to the parcel stream.
func (r *Recorder) RecordParcel(ctx context.Context, tx *gorm.DB, e ParcelEntry) (*tracking.ParcelTracking, error) {
	row := tracking.ParcelTracking{
		ParcelID:      e.ParcelID,
		TrackingID:    e.TrackingID,
		Status:        string(e.Status),
		Message:       ParcelStatusMessage(e.Status),
		ManualDate:    e.ManualDate,
		UpdatedBy:     e.Author.ID,
		UpdatedByType: e.Author.Role,
	}
	if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// RecordTransaction appends one entry to the payment stream.
func (r *Recorder) RecordTransaction(ctx context.Context, tx *gorm.DB, e TransactionEntry) (*tracking.TransactionTracking, error) {
	row := tracking.TransactionTracking{
		TransactionID: e.TransactionID,
		Status:        string(e.Status),
		Message:       PaymentStatusMessage(e.Status),
		ManualDate:    e.ManualDate,
		UpdatedBy:     e.Author.ID,
		UpdatedByType: e.Author.Role,
	}
	if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ParcelHistory returns every entry for a parcel, oldest first.
func (r *Recorder) ParcelHistory(ctx context.Context, parcelID uuid.UUID) ([]tracking.ParcelTracking, error) {
	var rows []tracking.ParcelTracking
	err := r.DB.WithContext(ctx).
		Where("parcel_id = ?", parcelID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// TransactionHistory returns every entry for a transaction, oldest first.
func (r *Recorder) TransactionHistory(ctx context.Context, transactionID uuid.UUID) ([]tracking.TransactionTracking, error) {
	var rows []tracking.TransactionTracking
	err := r.DB.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	return rows, err
}
