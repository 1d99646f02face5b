package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestAttendanceRepository_Lifecycle(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)

	_, err := db.Exec(ctx, `INSERT INTO employees (id, name, hourly_rate) VALUES ('emp-1', 'Sari', 30)`)
	require.NoError(t, err)

	clockIn := day("2024-03-13").Add(9 * time.Hour)
	rate := decimal.NewFromInt(30)
	created, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: "emp-1",
		Date:       day("2024-03-13"),
		ClockIn:    &clockIn,
		Status:     attendance.StatusClockedIn,
		HourlyRate: &rate,
	})
	require.NoError(t, err)

	open, err := repo.GetOpenSession(ctx, "emp-1", day("2024-03-13"))
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, created.ID, open.ID)
	require.NotNil(t, open.EmployeeName)
	assert.Equal(t, "Sari", *open.EmployeeName)

	closeReq := attendance.CloseSession{
		ID:              open.ID,
		ExpectedClockIn: *open.ClockIn,
		ClockOut:        clockIn.Add(10 * time.Hour),
		Breakdown: overtime.Breakdown{
			TotalHours:     decimal.NewFromInt(10),
			RegularHours:   decimal.NewFromInt(8),
			OvertimeHours:  decimal.NewFromInt(2),
			OvertimeAmount: decimal.NewFromInt(90),
			HourlyRate:     rate,
		},
	}
	require.NoError(t, repo.Close(ctx, closeReq))
	require.NoError(t, repo.Close(ctx, closeReq), "closing twice with the same values is allowed")

	stored, err := repo.GetByEmployeeAndDate(ctx, "emp-1", day("2024-03-13"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusClockedOut, stored.Status)
	assert.True(t, decimal.NewFromInt(2).Equal(stored.Overtime))
	assert.True(t, decimal.NewFromInt(90).Equal(stored.OvertimeAmount))

	sum, err := repo.SumTotalHours(ctx, "emp-1", day("2024-03-11"), day("2024-03-14"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(sum))

	list, total, err := repo.ListOvertime(ctx, attendance.OvertimeReportFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	totals, err := repo.SumOvertime(ctx, attendance.OvertimeReportFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.Records)
}

func TestAttendanceRepository_CloseConflict(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)

	clockIn := day("2024-03-13").Add(9 * time.Hour)
	created, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: "emp-2",
		Date:       day("2024-03-13"),
		ClockIn:    &clockIn,
		Status:     attendance.StatusClockedIn,
	})
	require.NoError(t, err)

	err = repo.Close(ctx, attendance.CloseSession{
		ID:              created.ID,
		ExpectedClockIn: clockIn.Add(-time.Minute),
		ClockOut:        clockIn.Add(8 * time.Hour),
	})
	assert.ErrorIs(t, err, overtime.ErrPersistenceConflict)
}

func TestAttendanceRepository_CreateUniqueViolation(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)

	clockIn := day("2024-03-13").Add(9 * time.Hour)
	record := attendance.Attendance{
		EmployeeID: "emp-4",
		Date:       day("2024-03-13"),
		ClockIn:    &clockIn,
		Status:     attendance.StatusClockedIn,
	}
	_, err := repo.Create(ctx, record)
	require.NoError(t, err)

	_, err = repo.Create(ctx, record)
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	tx := postgresql.NewTransactor(db)
	boom := errors.New("boom")

	clockIn := day("2024-03-13").Add(9 * time.Hour)
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, attendance.Attendance{
			EmployeeID: "emp-3",
			Date:       day("2024-03-13"),
			ClockIn:    &clockIn,
			Status:     attendance.StatusClockedIn,
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByEmployeeAndDate(ctx, "emp-3", day("2024-03-13"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOvertimeRulesRepository(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewOvertimeRulesRepository(db)

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, overtime.ErrRulesNotFound)

	first, err := repo.Save(ctx, overtime.DefaultRules())
	require.NoError(t, err)

	rules := overtime.DefaultRules()
	rules.DailyThreshold = decimal.RequireFromString("7.5")
	second, err := repo.Save(ctx, rules)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7.5").Equal(got.DailyThreshold))
}
