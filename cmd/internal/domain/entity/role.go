package entity

// Role is the position of a user inside its tenant.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleInspector  Role = "inspector"
)

func (r Role) Valid() bool {
	return r.Bit() != 0
}

// RoleSet is a bitmask of roles, used by the authorization policy table.
type RoleSet uint8

const (
	RoleSetAdmin RoleSet = 1 << iota
	RoleSetSupervisor
	RoleSetInspector

	RoleSetAll = RoleSetAdmin | RoleSetSupervisor | RoleSetInspector
)

// Bit returns the mask of a single role, 0 for unknown roles.
func (r Role) Bit() RoleSet {
	switch r {
	case RoleAdmin:
		return RoleSetAdmin
	case RoleSupervisor:
		return RoleSetSupervisor
	case RoleInspector:
		return RoleSetInspector
	default:
		return 0
	}
}

func RolesOf(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s = s.Add(r)
	}
	return s
}

// Has reports whether the set contains the role. Unknown roles are never contained.
func (s RoleSet) Has(r Role) bool {
	bit := r.Bit()
	return bit != 0 && s&bit == bit
}

func (s RoleSet) Add(r Role) RoleSet {
	return s | r.Bit()
}

func (s RoleSet) Remove(r Role) RoleSet {
	return s &^ r.Bit()
}

// Roles lists the members in a stable order.
func (s RoleSet) Roles() []Role {
	var roles []Role
	for _, r := range []Role{RoleAdmin, RoleSupervisor, RoleInspector} {
		if s.Has(r) {
			roles = append(roles, r)
		}
	}
	return roles
}
