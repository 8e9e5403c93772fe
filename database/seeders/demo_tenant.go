package seeders

import (
	"fmt"

	"parcel-logistics/logger"
	"parcel-logistics/models/address"
	"parcel-logistics/models/admin"
	"parcel-logistics/models/agency"
	"parcel-logistics/models/office"
	"parcel-logistics/models/operator"
	"parcel-logistics/models/user"

	"gorm.io/gorm"
)

// DemoTenant holds the rows created by SeedDemoTenant.
type DemoTenant struct {
	Admin       admin.Admin
	Agency      agency.Agency
	Departure   office.Office
	Destination office.Office
	Operator    operator.Operator
	Customer    user.User
}

// SeedDemoTenant creates one admin, one agency with a departure and a destination office,
// an operator and a customer. Running it again reuses the existing rows.
func SeedDemoTenant(db *gorm.DB) (*DemoTenant, error) {
	logger.Info("🔍 Checking demo tenant data integrity...")

	var t DemoTenant
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(admin.Admin{Username: "admin"}).
			Attrs(admin.Admin{Email: "admin@parcel.local"}).
			FirstOrCreate(&t.Admin).Error; err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}

		if err := tx.Where(agency.Agency{CompanyCode: "DEMO"}).
			Attrs(agency.Agency{AgencyName: "Demo Freight", Username: "demo-agency", Email: "agency@parcel.local"}).
			FirstOrCreate(&t.Agency).Error; err != nil {
			return fmt.Errorf("seed agency: %w", err)
		}

		offices := []struct {
			target *office.Office
			name   string
			phone  string
			addr   address.Address
		}{
			{&t.Departure, "Demo Paris", "+33100000000", address.Address{Street: "12 rue de Rivoli", PostalCode: "75004", City: "Paris", Country: "FR"}},
			{&t.Destination, "Demo Douala", "+237600000000", address.Address{Street: "Boulevard de la Liberte", PostalCode: "00237", City: "Douala", Country: "CM"}},
		}
		for _, o := range offices {
			if err := tx.Where(office.Office{OfficeName: o.name}).
				Attrs(office.Office{AgencyID: t.Agency.ID, Phone: o.phone, Address: o.addr}).
				FirstOrCreate(o.target).Error; err != nil {
				return fmt.Errorf("seed office %s: %w", o.name, err)
			}
		}

		if err := tx.Where(operator.Operator{Username: "demo-operator"}).
			Attrs(operator.Operator{AgencyID: t.Agency.ID, OfficeID: t.Departure.ID, Email: "operator@parcel.local", Phone: "+33100000001"}).
			FirstOrCreate(&t.Operator).Error; err != nil {
			return fmt.Errorf("seed operator: %w", err)
		}

		if err := tx.Where(user.User{Username: "demo-customer"}).
			Attrs(user.User{
				AgencyID:    t.Agency.ID,
				OfficeID:    t.Departure.ID,
				Country:     "Cameroon",
				CountryCode: "+237",
				Phone:       "690000000",
				CreatedBy:   t.Operator.ID,
			}).
			FirstOrCreate(&t.Customer).Error; err != nil {
			return fmt.Errorf("seed customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Success(fmt.Sprintf("Demo tenant ready: agency %s (%s)", t.Agency.AgencyName, t.Agency.ID))
	return &t, nil
}
