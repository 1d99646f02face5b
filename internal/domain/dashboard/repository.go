package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// UnassignedDepartment groups employees without a department.
const UnassignedDepartment = "Unassigned"

// DailyAttendanceStats aggregates one calendar date. Late counts clock-ins after the
// employee's shift start; employees without a shift start are never late.
type DailyAttendanceStats struct {
	Date          time.Time
	Present       int64
	Late          int64
	OpenSessions  int64
	OvertimeHours decimal.Decimal
}

// DepartmentAttendanceStats aggregates a department over a date range.
type DepartmentAttendanceStats struct {
	Department    string
	Employees     int64
	PresentDays   int64
	LateDays      int64
	OvertimeHours decimal.Decimal
}

// PendingApprovalStats counts requests awaiting a manager.
type PendingApprovalStats struct {
	LeaveRequests int64
	ShiftSwaps    int64
}

// Period is an inclusive date range evaluated in Location.
type Period struct {
	From     time.Time
	To       time.Time
	Location *time.Location
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// GetDailyAttendanceStats returns one row per date in the period that has records, oldest first
	GetDailyAttendanceStats(ctx context.Context, period Period) ([]DailyAttendanceStats, error)

	// GetDepartmentAttendanceStats returns one row per department, including departments with no records
	GetDepartmentAttendanceStats(ctx context.Context, period Period) ([]DepartmentAttendanceStats, error)

	// GetPendingApprovalStats counts pending leave requests and shift swaps in single query
	GetPendingApprovalStats(ctx context.Context) (*PendingApprovalStats, error)

	// CountEmployees returns the size of the employee directory
	CountEmployees(ctx context.Context) (int64, error)
}
