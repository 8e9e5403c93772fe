package testutil

import (
	"context"
	"testing"

	"parcel-logistics/models/address"
	"parcel-logistics/models/admin"
	"parcel-logistics/models/agency"
	"parcel-logistics/models/office"
	"parcel-logistics/models/operator"
	"parcel-logistics/models/parcel"
	"parcel-logistics/models/role"
	"parcel-logistics/models/tag"
	"parcel-logistics/models/transaction"
	"parcel-logistics/models/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tenant is a ready to use agency with two offices, staff and one customer.
type Tenant struct {
	Admin       *admin.Admin
	Agency      *agency.Agency
	Office      *office.Office
	Destination *office.Office
	Operator    *operator.Operator
	Customer    *user.User
}

func short() string {
	return uuid.NewString()[:8]
}

func SeedAdmin(tb testing.TB, ctx context.Context, tx *gorm.DB) *admin.Admin {
	tb.Helper()
	a := &admin.Admin{Username: "admin-" + short(), Email: short() + "@admin.test"}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed admin: %v", err)
	}
	return a
}

func SeedAgency(tb testing.TB, ctx context.Context, tx *gorm.DB, code string) *agency.Agency {
	tb.Helper()
	a := &agency.Agency{
		AgencyName:  "Agency " + short(),
		CompanyCode: code,
		Username:    "agency-" + short(),
		Email:       short() + "@agency.test",
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed agency: %v", err)
	}
	return a
}

func SeedOffice(tb testing.TB, ctx context.Context, tx *gorm.DB, agencyID uuid.UUID, country string) *office.Office {
	tb.Helper()
	o := &office.Office{
		AgencyID:   agencyID,
		OfficeName: "Office " + short(),
		Phone:      "+33" + short(),
		Address: address.Address{
			Street:     "1 rue du Port",
			PostalCode: "75001",
			City:       "Paris",
			Country:    country,
		},
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed office: %v", err)
	}
	return o
}

func SeedOperator(tb testing.TB, ctx context.Context, tx *gorm.DB, agencyID, officeID uuid.UUID) *operator.Operator {
	tb.Helper()
	op := &operator.Operator{
		AgencyID: agencyID,
		OfficeID: officeID,
		Username: "operator-" + short(),
		Email:    short() + "@operator.test",
		Phone:    short(),
	}
	if err := tx.WithContext(ctx).Create(op).Error; err != nil {
		tb.Fatalf("seed operator: %v", err)
	}
	return op
}

func SeedCustomer(tb testing.TB, ctx context.Context, tx *gorm.DB, agencyID, officeID, createdBy uuid.UUID) *user.User {
	tb.Helper()
	u := &user.User{
		AgencyID:    agencyID,
		OfficeID:    officeID,
		Username:    "customer-" + short(),
		Country:     "Cameroon",
		CountryCode: "+237",
		Phone:       "690000000",
		CreatedBy:   createdBy,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed customer: %v", err)
	}
	return u
}

// SeedTenant creates a complete agency: departure office in FR, destination office in CM.
func SeedTenant(tb testing.TB, ctx context.Context, tx *gorm.DB) *Tenant {
	tb.Helper()
	t := &Tenant{}
	t.Admin = SeedAdmin(tb, ctx, tx)
	t.Agency = SeedAgency(tb, ctx, tx, "A"+short()[:3])
	t.Office = SeedOffice(tb, ctx, tx, t.Agency.ID, "FR")
	t.Destination = SeedOffice(tb, ctx, tx, t.Agency.ID, "CM")
	t.Operator = SeedOperator(tb, ctx, tx, t.Agency.ID, t.Office.ID)
	t.Customer = SeedCustomer(tb, ctx, tx, t.Agency.ID, t.Office.ID, t.Operator.ID)
	return t
}

func SeedTag(tb testing.TB, ctx context.Context, tx *gorm.DB, agencyID, officeID uuid.UUID, name string) *tag.Tag {
	tb.Helper()
	tg := &tag.Tag{AgencyID: agencyID, OfficeID: officeID, TagName: name}
	if err := tx.WithContext(ctx).Create(tg).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return tg
}

// ParcelSeed describes a parcel written directly to storage, bypassing the ledger.
type ParcelSeed struct {
	Status        parcel.Status
	PaymentStatus transaction.PaymentStatus
	TotalPrice    decimal.Decimal
	TagID         *uuid.UUID
}

// SeedParcel writes a parcel and its transaction without history entries.
func SeedParcel(tb testing.TB, ctx context.Context, tx *gorm.DB, t *Tenant, s ParcelSeed) (*parcel.Parcel, *transaction.Transaction) {
	tb.Helper()
	if s.TotalPrice.IsZero() {
		s.TotalPrice = decimal.NewFromInt(100)
	}
	p := &parcel.Parcel{
		TrackingID:      t.Agency.CompanyCode + "-SEED-" + short(),
		AgencyID:        t.Agency.ID,
		OfficeID:        t.Office.ID,
		CustomerID:      t.Customer.ID,
		DepartureID:     t.Office.ID,
		DestinationID:   t.Destination.ID,
		TagID:           s.TagID,
		Weight:          decimal.NewFromInt(10),
		TransportMethod: parcel.TransportAir,
		Status:          s.Status,
		EstimateArrival: "2 weeks",
		Description:     "seeded parcel",
		PackagePicture:  parcel.Pictures{"uploads/parcels/seed.jpg"},
		CreatedBy:       t.Operator.ID,
		CreatedByType:   role.Operator,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed parcel: %v", err)
	}
	trx := &transaction.Transaction{
		ParcelID:          p.ID,
		AgencyID:          t.Agency.ID,
		OfficeID:          t.Office.ID,
		PricePerKilo:      s.TotalPrice.Div(decimal.NewFromInt(10)),
		TotalPrice:        s.TotalPrice,
		ActualCarrierCost: decimal.NewFromInt(30),
		GrossProfit:       s.TotalPrice.Sub(decimal.NewFromInt(30)),
		PaymentStatus:     s.PaymentStatus,
		UpdatedBy:         t.Operator.ID,
		UpdatedByType:     role.Operator,
	}
	if err := tx.WithContext(ctx).Create(trx).Error; err != nil {
		tb.Fatalf("seed transaction: %v", err)
	}
	return p, trx
}
