package address

// Address is embedded into offices. Country feeds the tracking code of parcels sent to the office.
type Address struct {
	Street     string `gorm:"size:255;not null" json:"street"`
	PostalCode string `gorm:"size:50;not null"  json:"postal_code"`
	City       string `gorm:"size:255;not null" json:"city"`
	Country    string `gorm:"size:100;not null" json:"country"`
}
