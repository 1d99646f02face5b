package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/pagination"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/sse"
	overtimeservice "github.com/cmlabs-hris/hris-overtime/internal/service/overtime"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// maxCloseAttempts bounds clock-out retries after a concurrent modification.
	maxCloseAttempts = 2
	// maxOpenAttempts bounds clock-in retries after losing the insert race for today's record.
	maxOpenAttempts = 2
)

// EventPublisher delivers live events to subscribers.
type EventPublisher interface {
	Publish(topic string, event sse.Event)
}

// OvertimeEngine bundles the overtime collaborators used when closing a session.
type OvertimeEngine struct {
	Rules       overtime.RulesProvider
	Accumulator overtime.WeeklyHoursAccumulator
	Calculator  overtime.Calculator
}

type AttendanceServiceImpl struct {
	transactor database.Transactor
	attendance.AttendanceRepository
	attendance.EmployeeRepository
	recorder    attendance.RecordUpdater
	engine      OvertimeEngine
	publisher   EventPublisher
	metrics     *metrics.Metrics
	location    *time.Location
	defaultRate decimal.Decimal
	now         func() time.Time
}

func NewAttendanceService(
	transactor database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository attendance.EmployeeRepository,
	recorder attendance.RecordUpdater,
	engine OvertimeEngine,
	publisher EventPublisher,
	m *metrics.Metrics,
	location *time.Location,
	defaultRate decimal.Decimal,
) attendance.AttendanceService {
	if location == nil {
		location = time.UTC
	}
	if !defaultRate.IsPositive() {
		defaultRate = overtime.DefaultHourlyRate
	}
	return &AttendanceServiceImpl{
		transactor:           transactor,
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		recorder:             recorder,
		engine:               engine,
		publisher:            publisher,
		metrics:              m,
		location:             location,
		defaultRate:          defaultRate,
		now:                  time.Now,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// today returns the current instant and its calendar date in the business time zone.
func (s *AttendanceServiceImpl) today() (time.Time, time.Time) {
	now := s.now().In(s.location)
	y, m, d := now.Date()
	return now, time.Date(y, m, d, 0, 0, 0, 0, s.location)
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now, date := s.today()

	rate, err := s.resolveRate(ctx, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var result attendance.Attendance
	for attempt := 1; ; attempt++ {
		result, err = s.openSession(ctx, req, now, date, rate)
		if errors.Is(err, attendance.ErrAttendanceExists) && attempt < maxOpenAttempts {
			slog.Warn("Attendance created concurrently, reopening instead",
				"employee_id", req.EmployeeID, "date", date.Format("2006-01-02"), "attempt", attempt)
			continue
		}
		break
	}
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Employee clocked in", "employee_id", req.EmployeeID, "date", date.Format("2006-01-02"))
	return mapAttendanceToResponse(result), nil
}

// openSession reopens today's record or creates it. A record inserted by a concurrent
// clock-in after the lookup surfaces as attendance.ErrAttendanceExists.
func (s *AttendanceServiceImpl) openSession(ctx context.Context, req attendance.ClockInRequest, now, date time.Time, rate decimal.Decimal) (attendance.Attendance, error) {
	var result attendance.Attendance
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to check today's attendance: %w", err)
		}

		if existing != nil {
			existing.ClockIn = &now
			existing.ClockOut = nil
			existing.Status = attendance.StatusClockedIn
			existing.HourlyRate = &rate
			if req.Method != nil {
				existing.Method = req.Method
			}
			if req.Location != nil {
				existing.Location = req.Location
			}
			result, err = s.AttendanceRepository.Reopen(ctx, *existing)
			if err != nil {
				return fmt.Errorf("failed to reopen attendance: %w", err)
			}
			return nil
		}

		result, err = s.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeID: req.EmployeeID,
			Date:       date,
			ClockIn:    &now,
			Method:     req.Method,
			Location:   req.Location,
			Status:     attendance.StatusClockedIn,
			HourlyRate: &rate,
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance: %w", err)
		}
		return nil
	})
	return result, err
}

// resolveRate picks the request rate, then the employee's configured rate, then the default.
func (s *AttendanceServiceImpl) resolveRate(ctx context.Context, req attendance.ClockInRequest) (decimal.Decimal, error) {
	if req.HourlyRate != nil {
		return decimal.NewFromFloat(*req.HourlyRate), nil
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrEmployeeNotFound) {
			return s.defaultRate, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.HourlyRate != nil && emp.HourlyRate.IsPositive() {
		return *emp.HourlyRate, nil
	}
	return s.defaultRate, nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (*overtime.Breakdown, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now, date := s.today()

	for attempt := 1; ; attempt++ {
		record, err := s.AttendanceRepository.GetOpenSession(ctx, req.EmployeeID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to get open session: %w", err)
		}
		if record == nil || record.ClockIn == nil {
			s.metrics.ClockOut(metrics.OutcomeNoSession)
			return nil, nil
		}

		breakdown, err := s.computeBreakdown(ctx, *record, now)
		if err != nil {
			s.metrics.ClockOut(metrics.OutcomeInvalid)
			return nil, err
		}

		err = s.recorder.Persist(ctx, *record, breakdown, now)
		if err == nil {
			s.afterClose(*record, breakdown)
			return &breakdown, nil
		}

		if errors.Is(err, overtime.ErrPersistenceConflict) && attempt < maxCloseAttempts {
			s.metrics.PersistConflict()
			slog.Warn("Attendance changed while clocking out, retrying",
				"employee_id", req.EmployeeID, "attendance_id", record.ID, "attempt", attempt)
			continue
		}

		s.metrics.ClockOut(metrics.OutcomePersistFailed)
		slog.Error("Failed to persist overtime breakdown",
			"employee_id", req.EmployeeID, "attendance_id", record.ID, "error", err)
		return nil, &overtime.PersistFailedError{Breakdown: breakdown, Err: err}
	}
}

// computeBreakdown evaluates an open record as if closed at clockOut. Rules and history
// failures degrade to defaults and zero prior hours.
func (s *AttendanceServiceImpl) computeBreakdown(ctx context.Context, record attendance.Attendance, clockOut time.Time) (overtime.Breakdown, error) {
	rules := s.engine.Rules.Get(ctx)

	weekStart := overtimeservice.WeekStart(record.Date)
	prior, err := s.engine.Accumulator.SumPriorHours(ctx, record.EmployeeID, weekStart, record.Date)
	if err != nil {
		s.metrics.HistoryFallback()
		slog.Warn("Weekly history unavailable, assuming no prior hours",
			"employee_id", record.EmployeeID, "week_start", weekStart.Format("2006-01-02"), "error", err)
		prior = decimal.Zero
	}

	session := record.Session()
	session.ClockOut = &clockOut
	return s.engine.Calculator.Compute(session, rules, prior)
}

func (s *AttendanceServiceImpl) afterClose(record attendance.Attendance, b overtime.Breakdown) {
	combined := b.Combined()

	s.metrics.ClockOut(metrics.OutcomeClosed)
	s.metrics.ObserveBreakdown(combined.InexactFloat64(), b.OvertimeAmount.InexactFloat64())

	slog.Info("Employee clocked out",
		"employee_id", record.EmployeeID,
		"date", record.Date.Format("2006-01-02"),
		"total_hours", b.TotalHours.String(),
		"overtime", combined.String(),
		"overtime_amount", b.OvertimeAmount.String(),
	)

	if s.publisher != nil {
		s.publisher.Publish(attendance.EventTopic, sse.Event{
			Event: attendance.EventClockedOut,
			Data: attendance.ClockedOutEvent{
				EmployeeID:     record.EmployeeID,
				Date:           record.Date.Format("2006-01-02"),
				TotalHours:     b.TotalHours.InexactFloat64(),
				Overtime:       combined.InexactFloat64(),
				OvertimeAmount: b.OvertimeAmount.InexactFloat64(),
			},
		})
	}
}

// GetTodayAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayAttendance(ctx context.Context, principal user.Principal) ([]attendance.AttendanceResponse, error) {
	_, date := s.today()

	var employeeID *string
	if !principal.IsManager() {
		if principal.EmployeeID == "" {
			return nil, user.ErrEmployeeIDRequired
		}
		employeeID = &principal.EmployeeID
	}

	records, err := s.AttendanceRepository.ListByDate(ctx, date, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, mapAttendanceToResponse(att))
	}
	return responses, nil
}

// GetOvertimeReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetOvertimeReport(ctx context.Context, principal user.Principal, filter attendance.OvertimeReportFilter) (attendance.OvertimeReportResponse, error) {
	if !principal.Can(user.PermissionReportsView) {
		return attendance.OvertimeReportResponse{}, user.ErrInsufficientPermissions
	}
	if err := filter.Validate(); err != nil {
		return attendance.OvertimeReportResponse{}, err
	}

	var (
		records []attendance.Attendance
		total   int64
		totals  attendance.OvertimeTotals
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		records, total, err = s.AttendanceRepository.ListOvertime(gCtx, filter)
		if err != nil {
			return fmt.Errorf("failed to list overtime: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		totals, err = s.AttendanceRepository.SumOvertime(gCtx, filter)
		if err != nil {
			return fmt.Errorf("failed to sum overtime: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return attendance.OvertimeReportResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, mapAttendanceToResponse(att))
	}

	return attendance.OvertimeReportResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(filter.Limit, total),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		Totals: attendance.OvertimeTotalsResponse{
			Records:         totals.Records,
			OvertimeHours:   totals.OvertimeHours.Round(2).InexactFloat64(),
			DoubleTimeHours: totals.DoubleTimeHours.Round(2).InexactFloat64(),
			Overtime:        totals.OvertimeHours.Add(totals.DoubleTimeHours).Round(2).InexactFloat64(),
			OvertimeAmount:  totals.OvertimeAmount.Round(2).InexactFloat64(),
		},
		Records: responses,
	}, nil
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	var employeeName string
	if att.EmployeeName != nil {
		employeeName = *att.EmployeeName
	}

	var hourlyRate *float64
	if att.HourlyRate != nil {
		v := att.HourlyRate.InexactFloat64()
		hourlyRate = &v
	}

	return attendance.AttendanceResponse{
		ID:              att.ID,
		EmployeeID:      att.EmployeeID,
		EmployeeName:    employeeName,
		Date:            att.Date.Format("2006-01-02"),
		ClockInTime:     timePtrToString(att.ClockIn),
		ClockOutTime:    timePtrToString(att.ClockOut),
		Method:          att.Method,
		Location:        att.Location,
		Status:          att.Status,
		HourlyRate:      hourlyRate,
		TotalHours:      att.TotalHours.InexactFloat64(),
		RegularHours:    att.RegularHours.InexactFloat64(),
		OvertimeHours:   att.OvertimeHours.InexactFloat64(),
		DoubleTimeHours: att.DoubleTimeHours.InexactFloat64(),
		Overtime:        att.Overtime.InexactFloat64(),
		OvertimeAmount:  att.OvertimeAmount.InexactFloat64(),
		CreatedAt:       att.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       att.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
