package overtime

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

func sessionAt(clockIn, clockOut string) overtime.WorkSession {
	in, _ := time.Parse("15:04", clockIn)
	out, _ := time.Parse("15:04", clockOut)
	start := monday.Add(time.Duration(in.Hour())*time.Hour + time.Duration(in.Minute())*time.Minute)
	end := monday.Add(time.Duration(out.Hour())*time.Hour + time.Duration(out.Minute())*time.Minute)
	return overtime.WorkSession{
		EmployeeID: "emp-1",
		Date:       monday,
		ClockIn:    start,
		ClockOut:   &end,
	}
}

func sessionOfHours(hours float64) overtime.WorkSession {
	end := monday.Add(time.Duration(hours * float64(time.Hour)))
	return overtime.WorkSession{EmployeeID: "emp-1", Date: monday, ClockIn: monday, ClockOut: &end}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestCalculator_Compute_Scenarios(t *testing.T) {
	calc := NewCalculator()
	rules := overtime.DefaultRules()

	tests := []struct {
		name       string
		session    overtime.WorkSession
		prior      string
		regular    string
		ot         string
		dt         string
		amount     string
		totalHours string
	}{
		{"8h day at the daily threshold", sessionAt("09:00", "17:00"), "0", "8", "0", "0", "0", "8"},
		{"10h day earns daily overtime", sessionAt("09:00", "19:00"), "0", "8", "2", "0", "75", "10"},
		{"13h day reaches double-time", sessionAt("07:00", "20:00"), "0", "8", "4", "1", "200", "13"},
		{"weekly threshold reclassifies regular hours", sessionAt("09:00", "15:00"), "38", "2", "4", "0", "150", "6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := calc.Compute(tt.session, rules, d(tt.prior))
			require.NoError(t, err)

			assertDecimal(t, tt.totalHours, b.TotalHours, "total")
			assertDecimal(t, tt.regular, b.RegularHours, "regular")
			assertDecimal(t, tt.ot, b.OvertimeHours, "overtime")
			assertDecimal(t, tt.dt, b.DoubleTimeHours, "double-time")
			assertDecimal(t, tt.amount, b.OvertimeAmount, "amount")
			assertDecimal(t, "25", b.HourlyRate, "rate")
		})
	}
}

func TestCalculator_Compute_UsesSessionRate(t *testing.T) {
	calc := NewCalculator()
	s := sessionAt("09:00", "19:00")
	rate := d("40")
	s.HourlyRate = &rate

	b, err := calc.Compute(s, overtime.DefaultRules(), decimal.Zero)
	require.NoError(t, err)

	// 2h * 40 * 1.5
	assertDecimal(t, "120", b.OvertimeAmount, "amount")
	assertDecimal(t, "40", b.HourlyRate, "rate")
}

func TestCalculator_Compute_RoundsHalfUp(t *testing.T) {
	calc := NewCalculator()
	// 8h 20m 42s = 8.345h
	end := monday.Add(8*time.Hour + 20*time.Minute + 42*time.Second)
	s := overtime.WorkSession{ClockIn: monday, ClockOut: &end, Date: monday}

	b, err := calc.Compute(s, overtime.DefaultRules(), decimal.Zero)
	require.NoError(t, err)

	assertDecimal(t, "8.35", b.TotalHours, "total")
	assertDecimal(t, "0.35", b.OvertimeHours, "overtime")
	// 0.35 * 25 * 1.5 = 13.125
	assertDecimal(t, "13.13", b.OvertimeAmount, "amount")
}

// Prior 45h already exceeds the 40h weekly threshold by 5h. Only the session's own 6 regular
// hours are demoted; the 5h from earlier days are not charged again.
func TestCalculator_Compute_WeeklyDemotionCappedAtSessionRegular(t *testing.T) {
	calc := NewCalculator()

	b, err := calc.Compute(sessionOfHours(6), overtime.DefaultRules(), d("45"))
	require.NoError(t, err)

	assertDecimal(t, "0", b.RegularHours, "regular")
	assertDecimal(t, "6", b.OvertimeHours, "overtime")
	assertDecimal(t, "6", b.TotalHours, "total")
	assertDecimal(t, "6", b.RegularHours.Add(b.OvertimeHours).Add(b.DoubleTimeHours), "hours sum to total")
	// 6 * 25 * 1.5
	assertDecimal(t, "225", b.OvertimeAmount, "amount")
}

func TestCalculator_Compute_WeeklyNeverTouchesDoubleTime(t *testing.T) {
	calc := NewCalculator()

	b, err := calc.Compute(sessionOfHours(14), overtime.DefaultRules(), d("60"))
	require.NoError(t, err)

	assertDecimal(t, "0", b.RegularHours, "regular")
	assertDecimal(t, "12", b.OvertimeHours, "overtime")
	assertDecimal(t, "2", b.DoubleTimeHours, "double-time")
}

func TestCalculator_Compute_DegenerateThresholds(t *testing.T) {
	calc := NewCalculator()
	rules := overtime.DefaultRules()
	rules.DoubleTimeThreshold = rules.DailyThreshold

	b, err := calc.Compute(sessionOfHours(10), rules, decimal.Zero)
	require.NoError(t, err)

	assertDecimal(t, "8", b.RegularHours, "regular")
	assertDecimal(t, "0", b.OvertimeHours, "overtime")
	assertDecimal(t, "2", b.DoubleTimeHours, "double-time")
	assertDecimal(t, "100", b.OvertimeAmount, "amount")
}

func TestCalculator_Compute_InvalidSession(t *testing.T) {
	calc := NewCalculator()
	rules := overtime.DefaultRules()

	open := overtime.WorkSession{ClockIn: monday, Date: monday}
	backwards := sessionAt("17:00", "09:00")
	zero := sessionAt("09:00", "09:00")

	tests := []struct {
		name    string
		session overtime.WorkSession
		prior   decimal.Decimal
	}{
		{"missing clock-out", open, decimal.Zero},
		{"clock-out before clock-in", backwards, decimal.Zero},
		{"zero length session", zero, decimal.Zero},
		{"negative prior hours", sessionAt("09:00", "17:00"), d("-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Compute(tt.session, rules, tt.prior)
			assert.ErrorIs(t, err, overtime.ErrInvalidSession)
		})
	}
}

func TestCalculator_Compute_Properties(t *testing.T) {
	calc := NewCalculator()
	rules := overtime.DefaultRules()
	tolerance := d("0.02")

	for minutes := 1; minutes <= 20*60; minutes += 7 {
		for _, prior := range []string{"0", "12.5", "38", "40", "47.25"} {
			end := monday.Add(time.Duration(minutes) * time.Minute)
			s := overtime.WorkSession{ClockIn: monday, ClockOut: &end, Date: monday}

			b, err := calc.Compute(s, rules, d(prior))
			require.NoError(t, err)

			sum := b.RegularHours.Add(b.OvertimeHours).Add(b.DoubleTimeHours)
			assert.Truef(t, sum.Sub(b.TotalHours).Abs().LessThanOrEqual(tolerance),
				"minutes=%d prior=%s: buckets %s do not add up to %s", minutes, prior, sum, b.TotalHours)

			assert.False(t, b.RegularHours.IsNegative())
			assert.False(t, b.OvertimeHours.IsNegative())
			assert.False(t, b.DoubleTimeHours.IsNegative())
			assert.True(t, b.RegularHours.LessThanOrEqual(rules.DailyThreshold))

			withoutHistory, err := calc.Compute(s, rules, decimal.Zero)
			require.NoError(t, err)
			assert.True(t, withoutHistory.DoubleTimeHours.Equal(b.DoubleTimeHours),
				"weekly history must not change double-time")

			again, err := calc.Compute(s, rules, d(prior))
			require.NoError(t, err)
			assert.Equal(t, b, again)
		}
	}
}
