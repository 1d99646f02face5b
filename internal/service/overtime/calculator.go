package overtime

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/shopspring/decimal"
)

var hourNanos = decimal.NewFromInt(int64(time.Hour))

// Calculator is the tiered overtime calculator. It holds no state.
type Calculator struct {
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute splits a closed session into regular, overtime and double-time hours and prices
// the premium hours. priorWeeklyHours is the total already worked earlier in the same week.
func (c *Calculator) Compute(session overtime.WorkSession, rules overtime.Rules, priorWeeklyHours decimal.Decimal) (overtime.Breakdown, error) {
	if session.ClockOut == nil {
		return overtime.Breakdown{}, fmt.Errorf("%w: clock-out is not set", overtime.ErrInvalidSession)
	}
	if !session.ClockOut.After(session.ClockIn) {
		return overtime.Breakdown{}, fmt.Errorf("%w: clock-out %s is not after clock-in %s",
			overtime.ErrInvalidSession,
			session.ClockOut.Format(time.RFC3339),
			session.ClockIn.Format(time.RFC3339),
		)
	}
	if priorWeeklyHours.IsNegative() {
		return overtime.Breakdown{}, fmt.Errorf("%w: prior weekly hours %s is negative", overtime.ErrInvalidSession, priorWeeklyHours)
	}

	total := elapsedHours(session.ClockIn, *session.ClockOut)
	regular, ot, dt := c.dailyTiers(total, rules)
	regular, ot = c.weeklyReclassify(regular, ot, priorWeeklyHours, rules)

	rate := session.Rate()
	amount := ot.Mul(rate).Mul(rules.RateMultiplier).
		Add(dt.Mul(rate).Mul(rules.DoubleTimeMultiplier))

	return overtime.Breakdown{
		TotalHours:      total,
		RegularHours:    regular.Round(2),
		OvertimeHours:   ot.Round(2),
		DoubleTimeHours: dt.Round(2),
		OvertimeAmount:  amount.Round(2),
		HourlyRate:      rate,
	}, nil
}

// dailyTiers applies the daily thresholds to a single day's total.
func (c *Calculator) dailyTiers(total decimal.Decimal, rules overtime.Rules) (regular, ot, dt decimal.Decimal) {
	switch {
	case total.LessThanOrEqual(rules.DailyThreshold):
		return total, decimal.Zero, decimal.Zero
	case total.LessThanOrEqual(rules.DoubleTimeThreshold):
		return rules.DailyThreshold, total.Sub(rules.DailyThreshold), decimal.Zero
	default:
		return rules.DailyThreshold,
			rules.DoubleTimeThreshold.Sub(rules.DailyThreshold),
			total.Sub(rules.DoubleTimeThreshold)
	}
}

// weeklyReclassify moves regular hours that push the week over its threshold into overtime.
// Double-time is never affected. Demotion is capped at this session's regular hours: hours
// worked on earlier days stay as they were paid, so a session never reports more
// overtime than it lasted.
func (c *Calculator) weeklyReclassify(regular, ot, prior decimal.Decimal, rules overtime.Rules) (decimal.Decimal, decimal.Decimal) {
	after := prior.Add(regular)
	if !after.GreaterThan(rules.WeeklyThreshold) {
		return regular, ot
	}

	weeklyOT := after.Sub(rules.WeeklyThreshold)
	demoted := decimal.Min(weeklyOT, regular)
	return regular.Sub(demoted), ot.Add(demoted)
}

// elapsedHours returns the session length in hours, rounded half-up to two places.
func elapsedHours(clockIn, clockOut time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(clockOut.Sub(clockIn))).Div(hourNanos).Round(2)
}
