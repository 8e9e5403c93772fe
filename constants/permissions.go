package constants

import "parcel-logistics/models/role"

// Role groups used by the route table
var (
	// ParcelWriters may create parcels and change their status
	ParcelWriters = []role.Role{role.Admin, role.Agency, role.Operator}

	// TagWriters may open new tags for an office
	TagWriters = []role.Role{role.Admin, role.Agency}
)

// Cache lifetimes for the read endpoints
const (
	TrackParcelCacheTTLSeconds = 300
	ParcelCacheTTLSeconds      = 300
	TagCacheTTLSeconds         = 120
)

// Upload limits
const (
	MaxPackagePictures = 10
	PackagePictureForm = "packagePicture"
)
