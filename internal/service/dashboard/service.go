package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const weekDays = 7

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	location *time.Location
	now      func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, location *time.Location) dashboard.DashboardService {
	if location == nil {
		location = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		location:            location,
		now:                 time.Now,
	}
}

// parseEndDate parses YYYY-MM-DD, defaults to today in the business time zone
func (s *DashboardServiceImpl) parseEndDate(endDate string) (time.Time, error) {
	if endDate == "" {
		now := s.now().In(s.location)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location), nil
	}

	parsed, ok := validator.IsValidDate(endDate)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		}}
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, s.location), nil
}

// GetWeeklyAttendance returns the week's data using parallel goroutines, one query each
func (s *DashboardServiceImpl) GetWeeklyAttendance(ctx context.Context, principal user.Principal, endDate string) (*dashboard.WeeklyAttendanceResponse, error) {
	if !principal.Can(user.PermissionAnalyticsView) {
		return nil, user.ErrInsufficientPermissions
	}

	end, err := s.parseEndDate(endDate)
	if err != nil {
		return nil, err
	}
	period := dashboard.Period{
		From:     end.AddDate(0, 0, -(weekDays - 1)),
		To:       end,
		Location: s.location,
	}

	var (
		daily       []dashboard.DailyAttendanceStats
		departments []dashboard.DepartmentAttendanceStats
		pending     *dashboard.PendingApprovalStats
		employees   int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		daily, err = s.DashboardRepository.GetDailyAttendanceStats(gctx, period)
		if err != nil {
			return fmt.Errorf("daily attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		departments, err = s.DashboardRepository.GetDepartmentAttendanceStats(gctx, period)
		if err != nil {
			return fmt.Errorf("department attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		pending, err = s.DashboardRepository.GetPendingApprovalStats(gctx)
		if err != nil {
			return fmt.Errorf("pending approvals: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		employees, err = s.DashboardRepository.CountEmployees(gctx)
		if err != nil {
			return fmt.Errorf("employee count: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &dashboard.WeeklyAttendanceResponse{
		From:           period.From.Format("2006-01-02"),
		To:             period.To.Format("2006-01-02"),
		TotalEmployees: employees,
		Days:           fillWeek(period, daily, employees),
		Departments:    make([]dashboard.DepartmentAttendanceResponse, 0, len(departments)),
	}
	for _, d := range departments {
		resp.Departments = append(resp.Departments, dashboard.DepartmentAttendanceResponse{
			Department:     d.Department,
			Employees:      d.Employees,
			PresentDays:    d.PresentDays,
			LateDays:       d.LateDays,
			AttendanceRate: attendanceRate(d.PresentDays, d.Employees),
			OvertimeHours:  d.OvertimeHours.Round(2).InexactFloat64(),
		})
	}
	if pending != nil {
		resp.PendingApprovals = dashboard.PendingApprovalsResponse{
			LeaveRequests: pending.LeaveRequests,
			ShiftSwaps:    pending.ShiftSwaps,
		}
	}

	return resp, nil
}

// fillWeek returns one entry per day of the period, zero-filled where no records exist
func fillWeek(period dashboard.Period, stats []dashboard.DailyAttendanceStats, employees int64) []dashboard.DailyAttendanceResponse {
	byDate := make(map[string]dashboard.DailyAttendanceStats, len(stats))
	for _, st := range stats {
		byDate[st.Date.Format("2006-01-02")] = st
	}

	days := make([]dashboard.DailyAttendanceResponse, 0, weekDays)
	for i := 0; i < weekDays; i++ {
		date := period.From.AddDate(0, 0, i)
		key := date.Format("2006-01-02")
		st, ok := byDate[key]
		if !ok {
			st.OvertimeHours = decimal.Zero
		}
		days = append(days, dashboard.DailyAttendanceResponse{
			Date:          key,
			Weekday:       date.Format("Mon"),
			Present:       st.Present,
			Late:          st.Late,
			Absent:        max(0, employees-st.Present),
			OpenSessions:  st.OpenSessions,
			OvertimeHours: st.OvertimeHours.Round(2).InexactFloat64(),
		})
	}
	return days
}

// attendanceRate is the percentage of employee-days present over the week, one decimal place
func attendanceRate(presentDays, employees int64) float64 {
	if employees <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(presentDays).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(employees * weekDays))
	return rate.Round(1).InexactFloat64()
}
