package ledger

import (
	"context"
	"strings"

	"parcel-logistics/apierr"
	"parcel-logistics/models/agency"
	"parcel-logistics/models/office"
	"parcel-logistics/models/parcel"
	"parcel-logistics/models/tag"
	"parcel-logistics/models/tracking"
	"parcel-logistics/models/transaction"
)

// TrackedParcel is the public view of a parcel looked up by tracking code.
type TrackedParcel struct {
	Parcel         *parcel.Parcel                 `json:"parcel"`
	AgencyName     string                         `json:"agencyName"`
	Departure      *office.Office                 `json:"departure"`
	Destination    *office.Office                 `json:"destination"`
	Tag            *tag.Tag                       `json:"tag,omitempty"`
	PaymentStatus  transaction.PaymentStatus      `json:"paymentStatus"`
	ParcelHistory  []tracking.ParcelTracking      `json:"parcelTracking"`
	PaymentHistory []tracking.TransactionTracking `json:"transactionTracking"`
}

func (l *Ledger) TrackParcel(ctx context.Context, trackingID string) (*TrackedParcel, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, apierr.NotFound("Invalid Parcel ID")
	}
	db := l.DB.WithContext(ctx)

	var p parcel.Parcel
	if err := db.Where("tracking_id = ?", trackingID).Take(&p).Error; err != nil {
		return nil, notFoundOr(err, "Invalid Parcel ID")
	}

	out := &TrackedParcel{Parcel: &p}

	var ag agency.Agency
	if err := db.Where("id = ?", p.AgencyID).Take(&ag).Error; err != nil {
		return nil, notFoundOr(err, "Agency not found")
	}
	out.AgencyName = ag.AgencyName

	departure, destination, err := loadRoute(db, p)
	if err != nil {
		return nil, err
	}
	out.Departure, out.Destination = departure, destination

	if p.InTag() {
		var t tag.Tag
		if err := db.Where("id = ?", *p.TagID).Take(&t).Error; err == nil {
			out.Tag = &t
		}
	}

	var trx transaction.Transaction
	if err := db.Where("parcel_id = ?", p.ID).Take(&trx).Error; err != nil {
		return nil, notFoundOr(err, "Transaction not found for this parcel")
	}
	out.PaymentStatus = trx.PaymentStatus

	history, err := l.Recorder.ParcelHistory(ctx, p.ID)
	if err != nil {
		return nil, apierr.Internal("Failed to load parcel history", err)
	}
	out.ParcelHistory = history

	payments, err := l.Recorder.TransactionHistory(ctx, trx.ID)
	if err != nil {
		return nil, apierr.Internal("Failed to load payment history", err)
	}
	out.PaymentHistory = payments

	return out, nil
}
