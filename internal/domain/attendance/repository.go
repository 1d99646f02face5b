package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByEmployeeAndDate retrieves the employee's record for a date, nil when none exists
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// GetOpenSession retrieves the employee's clocked-in record for a date, nil when none exists
	GetOpenSession(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Reopen starts a new session on an existing record, clearing the previous clock-out
	// and breakdown
	Reopen(ctx context.Context, attendance Attendance) (Attendance, error)

	// Close writes clock-out and breakdown if the stored clock-in still equals
	// ExpectedClockIn, otherwise returns overtime.ErrPersistenceConflict
	Close(ctx context.Context, close CloseSession) error

	// ListByDate lists records for a date; employeeID narrows to one employee when set
	ListByDate(ctx context.Context, date time.Time, employeeID *string) ([]Attendance, error)

	// ListOvertime lists records with overtime hours, largest first
	ListOvertime(ctx context.Context, filter OvertimeReportFilter) ([]Attendance, int64, error)

	// SumOvertime aggregates the records matched by filter, ignoring pagination
	SumOvertime(ctx context.Context, filter OvertimeReportFilter) (OvertimeTotals, error)
}

// EmployeeRepository reads the employee directory.
type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound for unknown IDs
	GetByID(ctx context.Context, employeeID string) (Employee, error)

	// List returns every employee ordered by name
	List(ctx context.Context) ([]Employee, error)
}
