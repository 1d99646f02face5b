package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.clock_in, a.clock_out, a.method, a.location, a.status,
	a.hourly_rate, a.total_hours, a.regular_hours, a.overtime_hours, a.double_time_hours,
	a.overtime, a.overtime_amount, a.created_at, a.updated_at, e.name`

type AttendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var rate decimal.NullDecimal

	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.ClockIn, &att.ClockOut, &att.Method, &att.Location, &att.Status,
		&rate, &att.TotalHours, &att.RegularHours, &att.OvertimeHours, &att.DoubleTimeHours,
		&att.Overtime, &att.OvertimeAmount, &att.CreatedAt, &att.UpdatedAt, &att.EmployeeName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if rate.Valid {
		att.HourlyRate = &rate.Decimal
	}
	return att, nil
}

func nullableRate(rate *decimal.Decimal) decimal.NullDecimal {
	if rate == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *rate, Valid: true}
}

// Create implements attendance.AttendanceRepository.
func (a *AttendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	newAttendance.ID = id.String()

	query := `
		INSERT INTO attendances (id, employee_id, date, clock_in, method, location, status, hourly_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		newAttendance.Date,
		newAttendance.ClockIn,
		newAttendance.Method,
		newAttendance.Location,
		newAttendance.Status,
		nullableRate(newAttendance.HourlyRate),
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

func (a *AttendanceRepository) getOne(ctx context.Context, where string, args ...any) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE ` + where + `
		LIMIT 1`

	att, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	att, err := a.getOne(ctx, `a.employee_id = $1 AND a.date = $2`, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return att, nil
}

// GetOpenSession implements attendance.AttendanceRepository.
func (a *AttendanceRepository) GetOpenSession(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	att, err := a.getOne(ctx,
		`a.employee_id = $1 AND a.date = $2 AND a.status = $3 AND a.clock_in IS NOT NULL AND a.clock_out IS NULL`,
		employeeID, date, attendance.StatusClockedIn,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	return att, nil
}

// Reopen implements attendance.AttendanceRepository.
func (a *AttendanceRepository) Reopen(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET clock_in = $2, clock_out = NULL, method = $3, location = $4, hourly_rate = $5,
			status = $6, total_hours = 0, regular_hours = 0, overtime_hours = 0,
			double_time_hours = 0, overtime = 0, overtime_amount = 0, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID, att.ClockIn, att.Method, att.Location, nullableRate(att.HourlyRate), attendance.StatusClockedIn,
	).Scan(&att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to reopen attendance: %w", err)
	}

	att.ClockOut = nil
	att.Status = attendance.StatusClockedIn
	att.TotalHours = decimal.Zero
	att.RegularHours = decimal.Zero
	att.OvertimeHours = decimal.Zero
	att.DoubleTimeHours = decimal.Zero
	att.Overtime = decimal.Zero
	att.OvertimeAmount = decimal.Zero
	return att, nil
}

// Close implements attendance.AttendanceRepository.
func (a *AttendanceRepository) Close(ctx context.Context, c attendance.CloseSession) error {
	q := GetQuerier(ctx, a.db)
	b := c.Breakdown

	query := `
		UPDATE attendances
		SET clock_out = $3, status = $4, hourly_rate = $5, total_hours = $6, regular_hours = $7,
			overtime_hours = $8, double_time_hours = $9, overtime = $10, overtime_amount = $11,
			updated_at = NOW()
		WHERE id = $1 AND clock_in = $2
	`

	tag, err := q.Exec(ctx, query,
		c.ID, c.ExpectedClockIn, c.ClockOut, attendance.StatusClockedOut, b.HourlyRate,
		b.TotalHours, b.RegularHours, b.OvertimeHours, b.DoubleTimeHours, b.Combined(), b.OvertimeAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to close attendance: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return overtime.ErrPersistenceConflict
	}
	return nil
}

// ListByDate implements attendance.AttendanceRepository.
func (a *AttendanceRepository) ListByDate(ctx context.Context, date time.Time, employeeID *string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1 AND ($2::text IS NULL OR a.employee_id = $2)
		ORDER BY a.clock_in DESC NULLS LAST`

	rows, err := q.Query(ctx, query, date, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date: %w", err)
	}
	defer rows.Close()

	return collectAttendances(rows)
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	var result []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		result = append(result, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// overtimeWhere builds the WHERE clause shared by the report queries.
func overtimeWhere(filter attendance.OvertimeReportFilter) (string, []any) {
	conditions := []string{"a.overtime_hours > 0"}
	var args []any
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	from, to := filter.DateRange()
	if from != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, *to)
	}

	return strings.Join(conditions, " AND "), args
}

// ListOvertime implements attendance.AttendanceRepository.
func (a *AttendanceRepository) ListOvertime(ctx context.Context, filter attendance.OvertimeReportFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)
	where, args := overtimeWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendances a WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime records: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.overtime_hours DESC, a.date DESC, a.id
		LIMIT $%d OFFSET $%d`, attendanceColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list overtime records: %w", err)
	}
	defer rows.Close()

	records, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// SumOvertime implements attendance.AttendanceRepository.
func (a *AttendanceRepository) SumOvertime(ctx context.Context, filter attendance.OvertimeReportFilter) (attendance.OvertimeTotals, error) {
	q := GetQuerier(ctx, a.db)
	where, args := overtimeWhere(filter)

	query := `
		SELECT COUNT(*), COALESCE(SUM(a.overtime_hours), 0), COALESCE(SUM(a.double_time_hours), 0),
			   COALESCE(SUM(a.overtime_amount), 0)
		FROM attendances a
		WHERE ` + where

	var totals attendance.OvertimeTotals
	err := q.QueryRow(ctx, query, args...).Scan(
		&totals.Records, &totals.OvertimeHours, &totals.DoubleTimeHours, &totals.OvertimeAmount,
	)
	if err != nil {
		return attendance.OvertimeTotals{}, fmt.Errorf("failed to sum overtime: %w", err)
	}
	return totals, nil
}

// SumTotalHours implements overtime.HistoryRepository.
func (a *AttendanceRepository) SumTotalHours(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COALESCE(SUM(total_hours), 0)
		FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date < $3 AND status = $4
	`

	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, from, to, attendance.StatusClockedOut).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum weekly hours: %w", err)
	}
	return sum, nil
}
