package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
)

// RecordUpdater writes a computed breakdown onto the open record it was computed from.
type RecordUpdater interface {
	Persist(ctx context.Context, record Attendance, breakdown overtime.Breakdown, clockOut time.Time) error
}

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn opens today's session, reopening today's record if one exists
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut closes today's open session and stores its overtime breakdown.
	// Returns nil, nil when the employee has no open session today.
	ClockOut(ctx context.Context, req ClockOutRequest) (*overtime.Breakdown, error)

	// GetTodayAttendance lists today's records: all employees for managers, own record otherwise
	GetTodayAttendance(ctx context.Context, principal user.Principal) ([]AttendanceResponse, error)

	// GetOvertimeReport lists records with overtime, largest first (managers only)
	GetOvertimeReport(ctx context.Context, principal user.Principal, filter OvertimeReportFilter) (OvertimeReportResponse, error)
}

// EmployeeService exposes the employee directory
type EmployeeService interface {
	// ListEmployees returns every employee ordered by name
	ListEmployees(ctx context.Context, principal user.Principal) ([]EmployeeResponse, error)
}
