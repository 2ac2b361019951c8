package domain

import "strings"

// Role is the closed set of privilege levels. The zero value, RoleUnknown,
// represents an absent or malformed role claim and fails every check.
type Role int

const (
	RoleUnknown Role = iota
	RoleCustomer
	RoleAdmin
	RoleSuperAdmin
)

// Rank returns the privilege rank used for hierarchical comparison.
// The mapping is explicit rather than derived from declaration order.
func (r Role) Rank() int {
	switch r {
	case RoleCustomer:
		return 0
	case RoleAdmin:
		return 1
	case RoleSuperAdmin:
		return 2
	default:
		return -1
	}
}

// Valid reports whether r is a member of the closed set.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin || r == RoleSuperAdmin
}

// AtLeast reports whether r carries at least the privilege of min.
// Always false when either side is not a valid role.
func (r Role) AtLeast(min Role) bool {
	if !r.Valid() || !min.Valid() {
		return false
	}
	return r.Rank() >= min.Rank()
}

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleAdmin:
		return "admin"
	case RoleSuperAdmin:
		return "superadmin"
	default:
		return "unknown"
	}
}

// ParseRole converts a role claim string into a Role. Unrecognised input
// returns (RoleUnknown, false) — callers degrade to unauthenticated rather
// than erroring.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return RoleCustomer, true
	case "admin":
		return RoleAdmin, true
	case "superadmin":
		return RoleSuperAdmin, true
	default:
		return RoleUnknown, false
	}
}
