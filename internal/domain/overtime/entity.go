package overtime

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultHourlyRate is applied when a session carries no hourly rate of its own.
var DefaultHourlyRate = decimal.NewFromInt(25)

// Rules holds the overtime thresholds and pay multipliers used for one evaluation.
type Rules struct {
	ID                   string
	DailyThreshold       decimal.Decimal
	WeeklyThreshold      decimal.Decimal
	RateMultiplier       decimal.Decimal
	DoubleTimeThreshold  decimal.Decimal
	DoubleTimeMultiplier decimal.Decimal
	UpdatedAt            time.Time
}

// DefaultRules returns the rule set used whenever the configured rules cannot be read.
func DefaultRules() Rules {
	return Rules{
		DailyThreshold:       decimal.NewFromInt(8),
		WeeklyThreshold:      decimal.NewFromInt(40),
		RateMultiplier:       decimal.RequireFromString("1.5"),
		DoubleTimeThreshold:  decimal.NewFromInt(12),
		DoubleTimeMultiplier: decimal.NewFromInt(2),
	}
}

// WorkSession is a single clock-in/clock-out pair for one employee on one calendar date.
type WorkSession struct {
	EmployeeID string
	Date       time.Time
	ClockIn    time.Time
	ClockOut   *time.Time
	HourlyRate *decimal.Decimal
}

// Rate returns the session hourly rate, or DefaultHourlyRate when unset or zero.
func (s WorkSession) Rate() decimal.Decimal {
	if s.HourlyRate == nil || !s.HourlyRate.IsPositive() {
		return DefaultHourlyRate
	}
	return *s.HourlyRate
}

// Breakdown is the tiered result of an overtime computation. Every field is rounded
// to two decimal places on its own.
type Breakdown struct {
	TotalHours      decimal.Decimal
	RegularHours    decimal.Decimal
	OvertimeHours   decimal.Decimal
	DoubleTimeHours decimal.Decimal
	OvertimeAmount  decimal.Decimal
	HourlyRate      decimal.Decimal
}

// Combined returns overtime plus double-time hours, the single "OT" figure shown in reports.
func (b Breakdown) Combined() decimal.Decimal {
	return b.OvertimeHours.Add(b.DoubleTimeHours).Round(2)
}
