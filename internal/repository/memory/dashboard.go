package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/dashboard"
	"github.com/shopspring/decimal"
)

type DashboardRepository struct {
	store *Store
}

func NewDashboardRepository(store *Store) *DashboardRepository {
	return &DashboardRepository{store: store}
}

func inPeriod(date time.Time, p dashboard.Period) bool {
	d := dateKey(date)
	return d >= dateKey(p.From) && d <= dateKey(p.To)
}

// isLate compares the clock-in wall time in loc against the employee's shift start.
func isLate(att attendance.Attendance, emp attendance.Employee, ok bool, loc *time.Location) bool {
	if !ok || emp.ShiftStart == nil || att.ClockIn == nil {
		return false
	}
	return att.ClockIn.In(loc).Format("15:04:05") > *emp.ShiftStart+":00"
}

func location(p dashboard.Period) *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// GetDailyAttendanceStats implements dashboard.DashboardRepository.
func (r *DashboardRepository) GetDailyAttendanceStats(_ context.Context, p dashboard.Period) ([]dashboard.DailyAttendanceStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	loc := location(p)
	byDate := make(map[string]*dashboard.DailyAttendanceStats)
	for _, att := range r.store.attendances {
		if !inPeriod(att.Date, p) {
			continue
		}
		key := dateKey(att.Date)
		stats, ok := byDate[key]
		if !ok {
			stats = &dashboard.DailyAttendanceStats{Date: att.Date, OvertimeHours: decimal.Zero}
			byDate[key] = stats
		}
		if att.ClockIn != nil {
			stats.Present++
		}
		emp, found := r.store.employees[att.EmployeeID]
		if isLate(att, emp, found, loc) {
			stats.Late++
		}
		if att.Status == attendance.StatusClockedIn {
			stats.OpenSessions++
		}
		stats.OvertimeHours = stats.OvertimeHours.Add(att.Overtime)
	}

	result := make([]dashboard.DailyAttendanceStats, 0, len(byDate))
	for _, stats := range byDate {
		result = append(result, *stats)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// GetDepartmentAttendanceStats implements dashboard.DashboardRepository.
func (r *DashboardRepository) GetDepartmentAttendanceStats(_ context.Context, p dashboard.Period) ([]dashboard.DepartmentAttendanceStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	loc := location(p)
	byDept := make(map[string]*dashboard.DepartmentAttendanceStats)
	departmentOf := func(emp attendance.Employee) *dashboard.DepartmentAttendanceStats {
		name := dashboard.UnassignedDepartment
		if emp.Department != nil && *emp.Department != "" {
			name = *emp.Department
		}
		stats, ok := byDept[name]
		if !ok {
			stats = &dashboard.DepartmentAttendanceStats{Department: name, OvertimeHours: decimal.Zero}
			byDept[name] = stats
		}
		return stats
	}

	for _, emp := range r.store.employees {
		departmentOf(emp).Employees++
	}

	for _, att := range r.store.attendances {
		if !inPeriod(att.Date, p) {
			continue
		}
		emp, ok := r.store.employees[att.EmployeeID]
		if !ok {
			continue
		}
		stats := departmentOf(emp)
		if att.ClockIn != nil {
			stats.PresentDays++
		}
		if isLate(att, emp, true, loc) {
			stats.LateDays++
		}
		stats.OvertimeHours = stats.OvertimeHours.Add(att.Overtime)
	}

	result := make([]dashboard.DepartmentAttendanceStats, 0, len(byDept))
	for _, stats := range byDept {
		result = append(result, *stats)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Department < result[j].Department })
	return result, nil
}

// GetPendingApprovalStats implements dashboard.DashboardRepository.
func (r *DashboardRepository) GetPendingApprovalStats(_ context.Context) (*dashboard.PendingApprovalStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var stats dashboard.PendingApprovalStats
	for _, lr := range r.store.leaves {
		if lr.IsPending() {
			stats.LeaveRequests++
		}
	}
	for _, s := range r.store.swaps {
		if s.IsPending() {
			stats.ShiftSwaps++
		}
	}
	return &stats, nil
}

// CountEmployees implements dashboard.DashboardRepository.
func (r *DashboardRepository) CountEmployees(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.employees)), nil
}
