package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceExists   = errors.New("attendance record already exists for this date")
	ErrNoOpenSession      = errors.New("no open session to clock out")
	ErrEmployeeNotFound   = errors.New("employee not found")
)
