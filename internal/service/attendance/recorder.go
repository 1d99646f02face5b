package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
)

type RecordUpdaterImpl struct {
	attendanceRepository attendance.AttendanceRepository
}

func NewRecordUpdater(attendanceRepository attendance.AttendanceRepository) attendance.RecordUpdater {
	return &RecordUpdaterImpl{attendanceRepository: attendanceRepository}
}

// Persist overwrites the record's clock-out and breakdown columns. Writing the same
// breakdown twice stores the same values. The write only lands if the stored clock-in
// still matches the one the breakdown was computed from.
func (r *RecordUpdaterImpl) Persist(ctx context.Context, record attendance.Attendance, breakdown overtime.Breakdown, clockOut time.Time) error {
	if record.ClockIn == nil {
		return fmt.Errorf("%w: record %s has no clock-in", overtime.ErrInvalidSession, record.ID)
	}

	err := r.attendanceRepository.Close(ctx, attendance.CloseSession{
		ID:              record.ID,
		ExpectedClockIn: *record.ClockIn,
		ClockOut:        clockOut,
		Breakdown:       breakdown,
	})
	if err != nil {
		return fmt.Errorf("failed to close attendance %s: %w", record.ID, err)
	}

	return nil
}
