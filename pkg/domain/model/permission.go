package model

import "github.com/sprintdeck/sprintdeck/pkg/domain/types"

// PermissionSet is the fixed capability vector a role grants. The matrix is
// compiled in and never mutated at runtime.
type PermissionSet struct {
	CreateTickets bool
	EditTickets   bool
	DeleteTickets bool
	AssignTickets bool
	MoveTickets   bool
	ManageMembers bool
	EditProject   bool
	DeleteProject bool
	Comment       bool
}

// Permission names a single capability bit of a PermissionSet
type Permission string

const (
	PermCreateTickets Permission = "canCreateTickets"
	PermEditTickets   Permission = "canEditTickets"
	PermDeleteTickets Permission = "canDeleteTickets"
	PermAssignTickets Permission = "canAssignTickets"
	PermMoveTickets   Permission = "canMoveTickets"
	PermManageMembers Permission = "canManageMembers"
	PermEditProject   Permission = "canEditProject"
	PermDeleteProject Permission = "canDeleteProject"
	PermComment       Permission = "canComment"
)

// AllPermissions returns every capability name
func AllPermissions() []Permission {
	return []Permission{
		PermCreateTickets,
		PermEditTickets,
		PermDeleteTickets,
		PermAssignTickets,
		PermMoveTickets,
		PermManageMembers,
		PermEditProject,
		PermDeleteProject,
		PermComment,
	}
}

var permissionMatrix = map[types.Role]PermissionSet{
	types.RoleViewer: {
		Comment: true,
	},
	types.RoleDeveloper: {
		CreateTickets: true,
		EditTickets:   true,
		AssignTickets: true,
		MoveTickets:   true,
		Comment:       true,
	},
	types.RoleManager: {
		CreateTickets: true,
		EditTickets:   true,
		DeleteTickets: true,
		AssignTickets: true,
		MoveTickets:   true,
		ManageMembers: true,
		EditProject:   true,
		Comment:       true,
	},
	types.RoleAdmin: {
		CreateTickets: true,
		EditTickets:   true,
		DeleteTickets: true,
		AssignTickets: true,
		MoveTickets:   true,
		ManageMembers: true,
		EditProject:   true,
		DeleteProject: true,
		Comment:       true,
	},
}

// PermissionsOf returns the capability vector for a role. Unknown roles fail
// closed to the viewer's vector, never open.
func PermissionsOf(role types.Role) PermissionSet {
	if perms, ok := permissionMatrix[role]; ok {
		return perms
	}
	return permissionMatrix[types.RoleViewer]
}

// Has reports whether the named capability is granted
func (p PermissionSet) Has(perm Permission) bool {
	switch perm {
	case PermCreateTickets:
		return p.CreateTickets
	case PermEditTickets:
		return p.EditTickets
	case PermDeleteTickets:
		return p.DeleteTickets
	case PermAssignTickets:
		return p.AssignTickets
	case PermMoveTickets:
		return p.MoveTickets
	case PermManageMembers:
		return p.ManageMembers
	case PermEditProject:
		return p.EditProject
	case PermDeleteProject:
		return p.DeleteProject
	case PermComment:
		return p.Comment
	default:
		return false
	}
}
