package role

// Role identifies which account table an actor was resolved from.
type Role string

const (
	Admin    Role = "Admin"
	Agency   Role = "Agency"
	Operator Role = "Operator"
	User     Role = "User"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case Admin, Agency, Operator, User:
		return true
	default:
		return false
	}
}

// Staff is the set of roles allowed to author parcel and payment changes.
func Staff() []Role {
	return []Role{Admin, Agency, Operator}
}

// All returns every role in resolution precedence order.
func All() []Role {
	return []Role{Admin, Agency, Operator, User}
}
