package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleManager, PermissionReportsView))
	assert.True(t, HasPermission(RoleOwner, PermissionOvertimeRulesManage))
	assert.True(t, HasPermission(RoleEmployee, PermissionAttendanceCreate))
	assert.False(t, HasPermission(RoleEmployee, PermissionAttendanceViewAll))
	assert.False(t, HasPermission(RoleEmployee, PermissionOvertimeRulesManage))
	assert.False(t, HasPermission(RolePending, PermissionAttendanceCreate))
	assert.False(t, HasPermission(Role("auditor"), PermissionReportsView))
}

func TestHasPermission_ApprovalsAreManagerOnly(t *testing.T) {
	for _, p := range []Permission{PermissionLeaveApprove, PermissionShiftApprove, PermissionAnalyticsView} {
		assert.True(t, HasPermission(RoleManager, p), p)
		assert.True(t, HasPermission(RoleOwner, p), p)
		assert.False(t, HasPermission(RoleEmployee, p), p)
	}
	for _, p := range []Permission{PermissionLeaveCreate, PermissionLeaveViewOwn, PermissionShiftCreate, PermissionShiftViewOwn, PermissionEmployeeView} {
		assert.True(t, HasPermission(RoleEmployee, p), p)
		assert.False(t, HasPermission(RolePending, p), p)
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleManager, ParseRole("manager"))
	assert.Equal(t, RoleEmployee, ParseRole("employee"))
	assert.Equal(t, RolePending, ParseRole("admin"))
	assert.Equal(t, RolePending, ParseRole(""))
}

func TestPrincipal_IsManager(t *testing.T) {
	assert.True(t, Principal{Role: RoleOwner}.IsManager())
	assert.True(t, Principal{Role: RoleManager}.IsManager())
	assert.False(t, Principal{Role: RoleEmployee}.IsManager())
	assert.True(t, Principal{Role: RoleEmployee}.Can(PermissionOvertimePreview))
}
