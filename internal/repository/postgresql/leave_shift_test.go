package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/leave"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/shift"
	"github.com/cmlabs-hris/hris-overtime/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveRequestRepository_Lifecycle(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRequestRepository(db)

	_, err := db.Exec(ctx, `INSERT INTO employees (id, name, hourly_rate) VALUES ('emp-1', 'Sari', 30)`)
	require.NoError(t, err)

	created, err := repo.Create(ctx, leave.LeaveRequest{
		EmployeeID: "emp-1",
		Type:       leave.LeaveTypeAnnual,
		FromDate:   day("2024-04-01"),
		ToDate:     day("2024-04-03"),
		Days:       3,
		Reason:     leave.DefaultReason,
		Status:     leave.LeaveRequestStatusPending,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	overlap, err := repo.HasOverlap(ctx, "emp-1", day("2024-04-03"), day("2024-04-04"))
	require.NoError(t, err)
	assert.True(t, overlap)

	list, total, err := repo.List(ctx, leave.LeaveRequestFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].EmployeeName)
	assert.Equal(t, "Sari", *list[0].EmployeeName)

	approved, err := repo.Decide(ctx, leave.Decision{
		ID:        created.ID,
		Status:    leave.LeaveRequestStatusApproved,
		DecidedBy: "emp-9",
		DecidedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, approved.Status)

	_, err = repo.Decide(ctx, leave.Decision{ID: created.ID, Status: leave.LeaveRequestStatusRejected, DecidedBy: "emp-9", DecidedAt: time.Now()})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	_, err = repo.GetByID(ctx, "0190a7a0-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	_, err = repo.Decide(ctx, leave.Decision{ID: "not-a-uuid", Status: leave.LeaveRequestStatusApproved})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestShiftSwapRepository_Lifecycle(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewShiftSwapRepository(db)

	_, err := db.Exec(ctx, `INSERT INTO employees (id, name) VALUES ('emp-1', 'Sari'), ('emp-2', 'Budi')`)
	require.NoError(t, err)

	created, err := repo.Create(ctx, shift.ShiftSwap{
		EmployeeID: "emp-1",
		SwapWithID: "emp-2",
		ShiftDate:  day("2024-04-10"),
		ShiftStart: "22:00",
		ShiftEnd:   "06:00",
		Reason:     "Exam",
		Status:     shift.SwapStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "22:00", created.ShiftStart)
	assert.Equal(t, "06:00", created.ShiftEnd)

	pending, err := repo.HasPending(ctx, "emp-1", day("2024-04-10"))
	require.NoError(t, err)
	assert.True(t, pending)

	involved := "emp-2"
	list, total, err := repo.List(ctx, shift.ShiftSwapFilter{InvolvingID: &involved, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Budi", *list[0].SwapWithName)

	stats, err := postgresql.NewDashboardRepository(db).GetPendingApprovalStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ShiftSwaps)

	_, err = repo.Decide(ctx, shift.Decision{ID: created.ID, Status: shift.SwapStatusCancelled, DecidedBy: "emp-1", DecidedAt: time.Now()})
	require.NoError(t, err)
	_, err = repo.Decide(ctx, shift.Decision{ID: created.ID, Status: shift.SwapStatusApproved, DecidedBy: "emp-9", DecidedAt: time.Now()})
	assert.ErrorIs(t, err, shift.ErrShiftSwapAlreadyProcessed)
}

func TestDashboardRepository_WeeklyStats(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	_, err := db.Exec(ctx, `INSERT INTO employees (id, name, department, shift_start) VALUES
		('emp-1', 'Sari', 'Ops', '09:00'), ('emp-2', 'Budi', NULL, NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO attendances (id, employee_id, date, clock_in, status) VALUES
		(gen_random_uuid(), 'emp-1', '2024-03-11', '2024-03-11T09:20:00Z', 'clocked-in')`)
	require.NoError(t, err)

	repo := postgresql.NewDashboardRepository(db)
	period := dashboard.Period{From: day("2024-03-11"), To: day("2024-03-17"), Location: time.UTC}

	daily, err := repo.GetDailyAttendanceStats(ctx, period)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, int64(1), daily[0].Present)
	assert.Equal(t, int64(1), daily[0].Late)
	assert.Equal(t, int64(1), daily[0].OpenSessions)

	departments, err := repo.GetDepartmentAttendanceStats(ctx, period)
	require.NoError(t, err)
	require.Len(t, departments, 2)
	assert.Equal(t, "Ops", departments[0].Department)
	assert.Equal(t, int64(1), departments[0].PresentDays)
	assert.Equal(t, dashboard.UnassignedDepartment, departments[1].Department)

	count, err := repo.CountEmployees(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
