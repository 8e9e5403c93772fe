package actor

import (
	"context"
	"errors"

	"parcel-logistics/apierr"
	"parcel-logistics/models/admin"
	"parcel-logistics/models/agency"
	"parcel-logistics/models/operator"
	"parcel-logistics/models/role"
	"parcel-logistics/models/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is an account resolved once at the boundary and passed into the ledger.
type Actor struct {
	ID   uuid.UUID
	Role role.Role
	Name string
}

// Scope restricts office-bound roles. Operators and users only resolve inside their own office.
type Scope struct {
	AgencyID uuid.UUID
	OfficeID uuid.UUID
}

type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// precedence is fixed so that an id present in several tables always resolves the same way.
var precedence = []role.Role{role.Admin, role.Agency, role.Operator, role.User}

// Resolve looks id up in the tables of the allowed roles, first match wins.
// notFoundMsg is returned as a NotFound error when nothing matches.
func (r *Resolver) Resolve(ctx context.Context, tx *gorm.DB, id uuid.UUID, scope Scope, notFoundMsg string, allowed ...role.Role) (*Actor, error) {
	if notFoundMsg == "" {
		notFoundMsg = "Actor not found"
	}
	if id == uuid.Nil {
		return nil, apierr.NotFound("%s", notFoundMsg)
	}

	allow := make(map[role.Role]bool, len(allowed))
	for _, a := range allowed {
		allow[a] = true
	}

	db := tx.WithContext(ctx)
	for _, kind := range precedence {
		if !allow[kind] {
			continue
		}
		found, err := lookup(db, kind, id, scope)
		if err != nil {
			return nil, apierr.Internal("Failed to resolve actor", err)
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, apierr.NotFound("%s", notFoundMsg)
}

func lookup(db *gorm.DB, kind role.Role, id uuid.UUID, scope Scope) (*Actor, error) {
	switch kind {
	case role.Admin:
		var a admin.Admin
		if err := db.Where("id = ?", id).Take(&a).Error; err != nil {
			return nil, ignoreNotFound(err)
		}
		return &Actor{ID: a.ID, Role: role.Admin, Name: a.Username}, nil
	case role.Agency:
		var a agency.Agency
		if err := db.Where("id = ?", id).Take(&a).Error; err != nil {
			return nil, ignoreNotFound(err)
		}
		return &Actor{ID: a.ID, Role: role.Agency, Name: a.AgencyName}, nil
	case role.Operator:
		var o operator.Operator
		if err := db.Where("id = ? AND agency_id = ? AND office_id = ?", id, scope.AgencyID, scope.OfficeID).Take(&o).Error; err != nil {
			return nil, ignoreNotFound(err)
		}
		return &Actor{ID: o.ID, Role: role.Operator, Name: o.Username}, nil
	case role.User:
		var u user.User
		if err := db.Where("id = ? AND agency_id = ?", id, scope.AgencyID).Take(&u).Error; err != nil {
			return nil, ignoreNotFound(err)
		}
		return &Actor{ID: u.ID, Role: role.User, Name: u.Username}, nil
	}
	return nil, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
