// Package authz defines the role and permission model for the Gazette
// platform. Everything in this package is pure: the role set, the
// role-to-permission mapping and the management hierarchy are fixed at
// compile time and never touch storage.
package authz

import "fmt"

// Role is the authorization level attached to an account.
type Role string

const (
	RoleUser      Role = "user"
	RoleWriter    Role = "writer"
	RoleEditor    Role = "editor"
	RoleCoord     Role = "coord"
	RoleAdmin     Role = "admin"
	RolePrincipal Role = "principal"
	RoleCeo       Role = "ceo"
)

// roleOrder lists every role from lowest to highest authority. It is the
// single source of truth for both the permission accumulation and the
// management hierarchy.
var roleOrder = []Role{
	RoleUser,
	RoleWriter,
	RoleEditor,
	RoleCoord,
	RoleAdmin,
	RolePrincipal,
	RoleCeo,
}

var roleRank = func() map[Role]int {
	ranks := make(map[Role]int, len(roleOrder))
	for i, role := range roleOrder {
		ranks[role] = i + 1
	}
	return ranks
}()

// Roles returns every role ordered from lowest to highest authority.
func Roles() []Role {
	out := make([]Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}

// ParseRole converts a stored or transmitted string into a Role.
// Unknown spellings are an error, never a silent downgrade.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if _, ok := roleRank[role]; !ok {
		return "", fmt.Errorf("authz: unknown role %q", value)
	}
	return role, nil
}

// Valid reports whether the role is part of the closed role set.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank returns the position of the role in the hierarchy, starting at 1
// for RoleUser. Invalid roles rank 0, below every real role.
func (r Role) Rank() int {
	return roleRank[r]
}

// AtLeast reports whether the role ranks equal to or above target.
func (r Role) AtLeast(target Role) bool {
	return r.Valid() && target.Valid() && r.Rank() >= target.Rank()
}
