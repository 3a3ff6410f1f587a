package access

import (
	"fmt"

	"github.com/mornivek/stafflane/internal/models"
)

// Permission is the derived access level a user holds on a project. It is
// computed on demand and never persisted. The ordering matters:
// view < edit < manage.
type Permission int

const (
	// PermissionNone means no access at all. It is a valid resolution
	// result, not an error.
	PermissionNone Permission = iota
	PermissionView
	PermissionEdit
	PermissionManage
)

func (p Permission) String() string {
	switch p {
	case PermissionView:
		return "view"
	case PermissionEdit:
		return "edit"
	case PermissionManage:
		return "manage"
	default:
		return "none"
	}
}

// Allows reports whether the permission satisfies the required level.
func (p Permission) Allows(required Permission) bool {
	return p != PermissionNone && p >= required
}

// ParsePermission converts a string into a Permission.
func ParsePermission(value string) (Permission, error) {
	switch value {
	case "view":
		return PermissionView, nil
	case "edit":
		return PermissionEdit, nil
	case "manage":
		return PermissionManage, nil
	default:
		return PermissionNone, fmt.Errorf("access: unknown permission %q", value)
	}
}

// permissionFromAccessLevel maps a stored grant level onto its derived
// permission. The mapping is 1:1 by design.
func permissionFromAccessLevel(level string) (Permission, error) {
	switch level {
	case models.AccessLevelWrite:
		return PermissionEdit, nil
	case models.AccessLevelRead:
		return PermissionView, nil
	default:
		return PermissionNone, fmt.Errorf("access: unknown access level %q", level)
	}
}
