package domain

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleClient  Role = "client"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAnalyst, RoleClient:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// Invitable reports whether an invitation may target this role. Admins are
// only ever created through bootstrap.
func (r Role) Invitable() bool {
	return r == RoleAnalyst || r == RoleClient
}

// InviterRoleFor returns the only role allowed to invite the target role:
// admins invite analysts and analysts invite clients.
func InviterRoleFor(target Role) (Role, bool) {
	switch target {
	case RoleAnalyst:
		return RoleAdmin, true
	case RoleClient:
		return RoleAnalyst, true
	default:
		return "", false
	}
}
