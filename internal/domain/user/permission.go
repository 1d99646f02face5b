package user

type Permission string

const (
	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Overtime
	PermissionOvertimeRulesView   Permission = "overtime.rules_view"
	PermissionOvertimeRulesManage Permission = "overtime.rules_manage"
	PermissionOvertimePreview     Permission = "overtime.preview"

	// Reports
	PermissionReportsView   Permission = "reports.view"
	PermissionAnalyticsView Permission = "analytics.view"

	// Employees
	PermissionEmployeeView Permission = "employee.view"

	// Leave
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveApprove Permission = "leave.approve"

	// Shift swaps
	PermissionShiftCreate  Permission = "shift.create"
	PermissionShiftViewOwn Permission = "shift.view_own"
	PermissionShiftApprove Permission = "shift.approve"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionOvertimeRulesView,
		PermissionOvertimeRulesManage,
		PermissionOvertimePreview,
		PermissionReportsView,
		PermissionAnalyticsView,
		PermissionEmployeeView,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveApprove,
		PermissionShiftCreate,
		PermissionShiftViewOwn,
		PermissionShiftApprove,
	},
	RoleManager: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionOvertimeRulesView,
		PermissionOvertimeRulesManage,
		PermissionOvertimePreview,
		PermissionReportsView,
		PermissionAnalyticsView,
		PermissionEmployeeView,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveApprove,
		PermissionShiftCreate,
		PermissionShiftViewOwn,
		PermissionShiftApprove,
	},
	RoleEmployee: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionOvertimeRulesView,
		PermissionOvertimePreview,
		PermissionEmployeeView,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionShiftCreate,
		PermissionShiftViewOwn,
	},
	RolePending: {
		// Pending role has no permissions
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
