package user

type Permission string

const (
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	PermissionAttendanceView   Permission = "attendance.view"
	PermissionAttendanceManage Permission = "attendance.manage"

	PermissionSalaryView   Permission = "salary.view"
	PermissionSalaryManage Permission = "salary.manage"

	PermissionReportsView   Permission = "reports.view"
	PermissionDashboardView Permission = "dashboard.view"
	PermissionActivityView  Permission = "activity.view"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// minimumRole is the least privileged role that holds each permission.
// Roles inherit everything granted to the roles below them.
var minimumRole = map[Permission]Role{
	PermissionEmployeeView:     RoleUser,
	PermissionAttendanceView:   RoleUser,
	PermissionSalaryView:       RoleUser,
	PermissionReportsView:      RoleUser,
	PermissionDashboardView:    RoleUser,
	PermissionEmployeeManage:   RoleManager,
	PermissionAttendanceManage: RoleManager,
	PermissionSalaryManage:     RoleManager,
	PermissionActivityView:     RoleManager,
	PermissionUserManage:       RoleAdmin,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	min, exists := minimumRole[permission]
	if !exists {
		return false
	}
	return role.AtLeast(min)
}

// PermissionsFor lists every permission granted to role.
func PermissionsFor(role Role) []Permission {
	var perms []Permission
	for _, p := range allPermissions {
		if HasPermission(role, p) {
			perms = append(perms, p)
		}
	}
	return perms
}

var allPermissions = []Permission{
	PermissionEmployeeView,
	PermissionEmployeeManage,
	PermissionAttendanceView,
	PermissionAttendanceManage,
	PermissionSalaryView,
	PermissionSalaryManage,
	PermissionReportsView,
	PermissionDashboardView,
	PermissionActivityView,
	PermissionUserManage,
}
