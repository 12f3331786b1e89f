package types

import "fmt"

// Role represents a member's role within a project
type Role string

const (
	RoleViewer    Role = "viewer"
	RoleDeveloper Role = "developer"
	RoleManager   Role = "manager"
	RoleAdmin     Role = "admin"
)

// AllRoles returns all valid roles in ascending rank order
func AllRoles() []Role {
	return []Role{
		RoleViewer,
		RoleDeveloper,
		RoleManager,
		RoleAdmin,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleDeveloper, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// Rank returns the position of the role in the total order
// viewer < developer < manager < admin. An unknown role ranks as viewer
// so that hierarchy checks fail closed.
func (r Role) Rank() int {
	switch r {
	case RoleDeveloper:
		return 2
	case RoleManager:
		return 3
	case RoleAdmin:
		return 4
	default:
		return 1
	}
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}
