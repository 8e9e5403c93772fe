package ledger

import (
	"context"

	"parcel-logistics/apierr"
	"parcel-logistics/models/agency"
	"parcel-logistics/models/office"
	"parcel-logistics/models/parcel"
	"parcel-logistics/models/tag"
	"parcel-logistics/models/tracking"
	"parcel-logistics/models/transaction"
	"parcel-logistics/models/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParcelDetail is the staff view of one parcel.
type ParcelDetail struct {
	Parcel         *parcel.Parcel                 `json:"parcel"`
	Transaction    *transaction.Transaction       `json:"transaction"`
	Customer       *user.User                     `json:"customer,omitempty"`
	AgencyName     string                         `json:"agencyName"`
	Departure      *office.Office                 `json:"departure"`
	Destination    *office.Office                 `json:"destination"`
	Tag            *tag.Tag                       `json:"tag,omitempty"`
	ParcelHistory  []tracking.ParcelTracking      `json:"parcelTracking"`
	PaymentHistory []tracking.TransactionTracking `json:"transactionTracking"`
}

func (l *Ledger) GetParcel(ctx context.Context, parcelID uuid.UUID) (*ParcelDetail, error) {
	db := l.DB.WithContext(ctx)

	var p parcel.Parcel
	if err := db.Where("id = ?", parcelID).Take(&p).Error; err != nil {
		return nil, notFoundOr(err, "Invalid Parcel ID")
	}
	out := &ParcelDetail{Parcel: &p}

	var trx transaction.Transaction
	if err := db.Where("parcel_id = ?", p.ID).Take(&trx).Error; err != nil {
		return nil, notFoundOr(err, "Transaction not found for this parcel")
	}
	out.Transaction = &trx

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

	// A deleted customer or tag leaves the parcel readable.
	var customer user.User
	if err := db.Where("id = ?", p.CustomerID).Take(&customer).Error; err == nil {
		out.Customer = &customer
	}
	if p.InTag() {
		var t tag.Tag
		if err := db.Where("id = ?", *p.TagID).Take(&t).Error; err == nil {
			out.Tag = &t
		}
	}

	if out.ParcelHistory, err = l.Recorder.ParcelHistory(ctx, p.ID); err != nil {
		return nil, apierr.Internal("Failed to load parcel history", err)
	}
	if out.PaymentHistory, err = l.Recorder.TransactionHistory(ctx, trx.ID); err != nil {
		return nil, apierr.Internal("Failed to load payment history", err)
	}
	return out, nil
}

func loadRoute(db *gorm.DB, p parcel.Parcel) (departure, destination *office.Office, err error) {
	var offices []office.Office
	if err := db.Where("id IN ?", []uuid.UUID{p.DepartureID, p.DestinationID}).Find(&offices).Error; err != nil {
		return nil, nil, apierr.Internal("Failed to load offices", err)
	}
	for i := range offices {
		if offices[i].ID == p.DepartureID {
			departure = &offices[i]
		}
		if offices[i].ID == p.DestinationID {
			destination = &offices[i]
		}
	}
	return departure, destination, nil
}

// TagSummary is a tag with the shared status of its parcels. Status and PaymentStatus are
// empty for a tag without parcels and follow the oldest parcel otherwise.
type TagSummary struct {
	Tag           *tag.Tag                  `json:"tag"`
	ParcelCount   int                       `json:"parcelCount"`
	Status        parcel.Status             `json:"status,omitempty"`
	PaymentStatus transaction.PaymentStatus `json:"paymentStatus,omitempty"`
}

type TagDetail struct {
	TagSummary
	Parcels []UpdatedParcel `json:"parcels"`
}

func summarize(t *tag.Tag, members []member) TagSummary {
	s := TagSummary{Tag: t, ParcelCount: len(members)}
	if len(members) > 0 {
		s.Status = members[0].parcel.Status
		if members[0].transaction != nil {
			s.PaymentStatus = members[0].transaction.PaymentStatus
		}
	}
	return s
}

// ListTags returns the tags of one office, newest first.
func (l *Ledger) ListTags(ctx context.Context, agencyID, officeID uuid.UUID) ([]TagSummary, error) {
	db := l.DB.WithContext(ctx)
	if _, err := l.findAgency(ctx, db, agencyID, "Agency not found"); err != nil {
		return nil, err
	}
	if _, err := l.findOffice(ctx, db, agencyID, officeID, "Office not found"); err != nil {
		return nil, err
	}

	var tags []tag.Tag
	if err := db.Where("agency_id = ? AND office_id = ?", agencyID, officeID).
		Order("created_at DESC").Order("id ASC").Find(&tags).Error; err != nil {
		return nil, apierr.Internal("Failed to load tags", err)
	}
	if len(tags) == 0 {
		return []TagSummary{}, nil
	}

	ids := make([]uuid.UUID, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	members, err := loadMembers(ctx, db, db.Where("tag_id IN ?", ids))
	if err != nil {
		return nil, apierr.Internal("Failed to load tag parcels", err)
	}
	byTag := make(map[uuid.UUID][]member, len(tags))
	for _, m := range members {
		byTag[*m.parcel.TagID] = append(byTag[*m.parcel.TagID], m)
	}

	out := make([]TagSummary, len(tags))
	for i := range tags {
		out[i] = summarize(&tags[i], byTag[tags[i].ID])
	}
	return out, nil
}

// GetTag returns one tag with its parcels, oldest first.
func (l *Ledger) GetTag(ctx context.Context, tagID uuid.UUID) (*TagDetail, error) {
	db := l.DB.WithContext(ctx)

	var t tag.Tag
	if err := db.Where("id = ?", tagID).Take(&t).Error; err != nil {
		return nil, notFoundOr(err, "Tag Not Found")
	}
	members, err := loadMembers(ctx, db, db.Where("tag_id = ?", t.ID))
	if err != nil {
		return nil, apierr.Internal("Failed to load tag parcels", err)
	}

	out := &TagDetail{TagSummary: summarize(&t, members), Parcels: make([]UpdatedParcel, len(members))}
	for i := range members {
		out.Parcels[i] = UpdatedParcel{Parcel: &members[i].parcel, Transaction: members[i].transaction}
	}
	return out, nil
}
