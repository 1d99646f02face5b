package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type AttendanceRepository struct {
	store *Store
	now   func() time.Time
}

func NewAttendanceRepository(store *Store) *AttendanceRepository {
	return &AttendanceRepository{store: store, now: time.Now}
}

func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// withEmployee fills the joined employee name, as the SQL repository does.
func (r *AttendanceRepository) withEmployee(att attendance.Attendance) attendance.Attendance {
	if emp, ok := r.store.employees[att.EmployeeID]; ok {
		name := emp.Name
		att.EmployeeName = &name
	}
	return att
}

// Create implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.attendances {
		if existing.EmployeeID == att.EmployeeID && dateKey(existing.Date) == dateKey(att.Date) {
			return attendance.Attendance{}, fmt.Errorf("employee %s on %s: %w", att.EmployeeID, dateKey(att.Date), attendance.ErrAttendanceExists)
		}
	}

	now := r.now()
	att.ID = uuid.Must(uuid.NewV7()).String()
	att.CreatedAt = now
	att.UpdatedAt = now
	r.store.attendances[att.ID] = att

	return r.withEmployee(att), nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, att := range r.store.attendances {
		if att.EmployeeID == employeeID && dateKey(att.Date) == dateKey(date) {
			found := r.withEmployee(att)
			return &found, nil
		}
	}
	return nil, nil
}

// GetOpenSession implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetOpenSession(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	att, err := r.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil || att == nil || !att.IsOpen() {
		return nil, err
	}
	return att, nil
}

// Reopen implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Reopen(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.attendances[att.ID]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	stored.ClockIn = att.ClockIn
	stored.ClockOut = nil
	stored.Method = att.Method
	stored.Location = att.Location
	stored.HourlyRate = att.HourlyRate
	stored.Status = attendance.StatusClockedIn
	stored.TotalHours = decimal.Zero
	stored.RegularHours = decimal.Zero
	stored.OvertimeHours = decimal.Zero
	stored.DoubleTimeHours = decimal.Zero
	stored.Overtime = decimal.Zero
	stored.OvertimeAmount = decimal.Zero
	stored.UpdatedAt = r.now()
	r.store.attendances[att.ID] = stored

	return r.withEmployee(stored), nil
}

// Close implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Close(_ context.Context, c attendance.CloseSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.attendances[c.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if stored.ClockIn == nil || !stored.ClockIn.Equal(c.ExpectedClockIn) {
		return overtime.ErrPersistenceConflict
	}

	clockOut := c.ClockOut
	b := c.Breakdown
	rate := b.HourlyRate

	stored.ClockOut = &clockOut
	stored.Status = attendance.StatusClockedOut
	stored.HourlyRate = &rate
	stored.TotalHours = b.TotalHours
	stored.RegularHours = b.RegularHours
	stored.OvertimeHours = b.OvertimeHours
	stored.DoubleTimeHours = b.DoubleTimeHours
	stored.Overtime = b.Combined()
	stored.OvertimeAmount = b.OvertimeAmount
	stored.UpdatedAt = r.now()
	r.store.attendances[c.ID] = stored

	return nil
}

// ListByDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListByDate(_ context.Context, date time.Time, employeeID *string) ([]attendance.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var result []attendance.Attendance
	for _, att := range r.store.attendances {
		if dateKey(att.Date) != dateKey(date) {
			continue
		}
		if employeeID != nil && att.EmployeeID != *employeeID {
			continue
		}
		result = append(result, r.withEmployee(att))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ClockIn == nil || result[j].ClockIn == nil {
			return result[i].ClockIn != nil
		}
		return result[i].ClockIn.After(*result[j].ClockIn)
	})
	return result, nil
}

func (r *AttendanceRepository) matchOvertime(filter attendance.OvertimeReportFilter) []attendance.Attendance {
	from, to := filter.DateRange()

	var result []attendance.Attendance
	for _, att := range r.store.attendances {
		if !att.OvertimeHours.IsPositive() {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && att.EmployeeID != *filter.EmployeeID {
			continue
		}
		if from != nil && dateKey(att.Date) < dateKey(*from) {
			continue
		}
		if to != nil && dateKey(att.Date) > dateKey(*to) {
			continue
		}
		result = append(result, r.withEmployee(att))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OvertimeHours.Equal(result[j].OvertimeHours) {
			return result[i].OvertimeHours.GreaterThan(result[j].OvertimeHours)
		}
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// ListOvertime implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListOvertime(_ context.Context, filter attendance.OvertimeReportFilter) ([]attendance.Attendance, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := r.matchOvertime(filter)
	total := int64(len(matched))

	start := min(filter.Offset(), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

// SumOvertime implements attendance.AttendanceRepository.
func (r *AttendanceRepository) SumOvertime(_ context.Context, filter attendance.OvertimeReportFilter) (attendance.OvertimeTotals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	totals := attendance.OvertimeTotals{}
	for _, att := range r.matchOvertime(filter) {
		totals.Records++
		totals.OvertimeHours = totals.OvertimeHours.Add(att.OvertimeHours)
		totals.DoubleTimeHours = totals.DoubleTimeHours.Add(att.DoubleTimeHours)
		totals.OvertimeAmount = totals.OvertimeAmount.Add(att.OvertimeAmount)
	}
	return totals, nil
}

// SumTotalHours implements overtime.HistoryRepository.
func (r *AttendanceRepository) SumTotalHours(_ context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sum := decimal.Zero
	for _, att := range r.store.attendances {
		if att.EmployeeID != employeeID || att.Status != attendance.StatusClockedOut {
			continue
		}
		d := dateKey(att.Date)
		if d < dateKey(from) || d >= dateKey(to) {
			continue
		}
		sum = sum.Add(att.TotalHours)
	}
	return sum, nil
}
