package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

func timezone(p dashboard.Period) string {
	if p.Location == nil || p.Location == time.Local {
		return "UTC"
	}
	return p.Location.String()
}

// lateCondition matches clock-ins after the employee's shift start in the business time zone ($3).
const lateCondition = `e.shift_start IS NOT NULL AND (a.clock_in AT TIME ZONE $3)::time > e.shift_start`

// GetDailyAttendanceStats returns per-date counts in single query
func (r *dashboardRepositoryImpl) GetDailyAttendanceStats(ctx context.Context, p dashboard.Period) ([]dashboard.DailyAttendanceStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			a.date,
			COUNT(*) FILTER (WHERE a.clock_in IS NOT NULL) AS present,
			COUNT(*) FILTER (WHERE ` + lateCondition + `) AS late,
			COUNT(*) FILTER (WHERE a.status = 'clocked-in') AS open_sessions,
			COALESCE(SUM(a.overtime), 0) AS overtime_hours
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.date BETWEEN $1 AND $2
		GROUP BY a.date
		ORDER BY a.date
	`

	rows, err := q.Query(ctx, query, p.From, p.To, timezone(p))
	if err != nil {
		return nil, fmt.Errorf("failed to get daily attendance stats: %w", err)
	}
	defer rows.Close()

	var result []dashboard.DailyAttendanceStats
	for rows.Next() {
		var stats dashboard.DailyAttendanceStats
		if err := rows.Scan(&stats.Date, &stats.Present, &stats.Late, &stats.OpenSessions, &stats.OvertimeHours); err != nil {
			return nil, fmt.Errorf("failed to scan daily attendance stats: %w", err)
		}
		result = append(result, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily attendance stats: %w", err)
	}
	return result, nil
}

// GetDepartmentAttendanceStats returns per-department counts in single query
func (r *dashboardRepositoryImpl) GetDepartmentAttendanceStats(ctx context.Context, p dashboard.Period) ([]dashboard.DepartmentAttendanceStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(NULLIF(e.department, ''), $4) AS department,
			COUNT(DISTINCT e.id) AS employees,
			COUNT(a.id) FILTER (WHERE a.clock_in IS NOT NULL) AS present_days,
			COUNT(a.id) FILTER (WHERE ` + lateCondition + `) AS late_days,
			COALESCE(SUM(a.overtime), 0) AS overtime_hours
		FROM employees e
		LEFT JOIN attendances a ON a.employee_id = e.id AND a.date BETWEEN $1 AND $2
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := q.Query(ctx, query, p.From, p.To, timezone(p), dashboard.UnassignedDepartment)
	if err != nil {
		return nil, fmt.Errorf("failed to get department attendance stats: %w", err)
	}
	defer rows.Close()

	var result []dashboard.DepartmentAttendanceStats
	for rows.Next() {
		var stats dashboard.DepartmentAttendanceStats
		if err := rows.Scan(&stats.Department, &stats.Employees, &stats.PresentDays, &stats.LateDays, &stats.OvertimeHours); err != nil {
			return nil, fmt.Errorf("failed to scan department attendance stats: %w", err)
		}
		result = append(result, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate department attendance stats: %w", err)
	}
	return result, nil
}

// GetPendingApprovalStats counts pending leave requests and shift swaps in single query
func (r *dashboardRepositoryImpl) GetPendingApprovalStats(ctx context.Context) (*dashboard.PendingApprovalStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM leave_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM shift_swaps WHERE status = 'pending')
	`

	var stats dashboard.PendingApprovalStats
	if err := q.QueryRow(ctx, query).Scan(&stats.LeaveRequests, &stats.ShiftSwaps); err != nil {
		return nil, fmt.Errorf("failed to get pending approval stats: %w", err)
	}
	return &stats, nil
}

// CountEmployees implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountEmployees(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return total, nil
}
