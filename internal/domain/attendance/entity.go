package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/shopspring/decimal"
)

const (
	StatusClockedIn  = "clocked-in"
	StatusClockedOut = "clocked-out"
)

// Clock-in methods
const (
	MethodWeb    = "web"
	MethodMobile = "mobile"
	MethodKiosk  = "kiosk"
)

// Live event names
const (
	EventTopic      = "attendance"
	EventClockedOut = "attendance.clocked_out"
)

var validMethods = []string{MethodWeb, MethodMobile, MethodKiosk}

// Attendance is one employee's attendance record for one calendar date. The breakdown
// columns are zero until the session is closed.
type Attendance struct {
	ID              string
	EmployeeID      string
	Date            time.Time
	ClockIn         *time.Time
	ClockOut        *time.Time
	Method          *string
	Location        *string
	Status          string
	HourlyRate      *decimal.Decimal
	TotalHours      decimal.Decimal
	RegularHours    decimal.Decimal
	OvertimeHours   decimal.Decimal
	DoubleTimeHours decimal.Decimal
	Overtime        decimal.Decimal
	OvertimeAmount  decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
}

// IsOpen reports whether the record is a session awaiting clock-out.
func (a *Attendance) IsOpen() bool {
	return a.Status == StatusClockedIn && a.ClockIn != nil && a.ClockOut == nil
}

// Session converts the record into the calculator's input.
func (a *Attendance) Session() overtime.WorkSession {
	s := overtime.WorkSession{
		EmployeeID: a.EmployeeID,
		Date:       a.Date,
		ClockOut:   a.ClockOut,
		HourlyRate: a.HourlyRate,
	}
	if a.ClockIn != nil {
		s.ClockIn = *a.ClockIn
	}
	return s
}

type Employee struct {
	ID         string
	Name       string
	Department *string
	Position   *string
	ShiftStart *string // HH:MM, business time zone
	ShiftEnd   *string // HH:MM
	HourlyRate *decimal.Decimal
}

// CloseSession carries everything needed to close an open record. ExpectedClockIn is the
// clock-in read before computing; the write is rejected if it no longer matches.
type CloseSession struct {
	ID              string
	ExpectedClockIn time.Time
	ClockOut        time.Time
	Breakdown       overtime.Breakdown
}

// OvertimeTotals aggregates an overtime report.
type OvertimeTotals struct {
	Records         int64
	OvertimeHours   decimal.Decimal
	DoubleTimeHours decimal.Decimal
	OvertimeAmount  decimal.Decimal
}
